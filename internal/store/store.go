// Package store persists humidity samples recorded by halctl in SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	_ "github.com/mattn/go-sqlite3"
)

// Sample is one humidity reading. OK is false when the sensor returned the
// failure sentinel; Value is then -1.
type Sample struct {
	Time    time.Time
	Backend string
	Value   float32
	OK      bool
}

// Store is a SQLite backed sample log.
type Store struct {
	db  *sql.DB
	log logr.Logger
}

// Open opens or creates the database at path. ":memory:" is accepted.
func Open(path string, log logr.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open %s", path)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: enable WAL")
	}
	if _, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS humidity_samples (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            taken_at INTEGER NOT NULL,
            backend TEXT NOT NULL,
            value REAL NOT NULL,
            ok INTEGER NOT NULL
        );
    `); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "store: create schema")
	}
	log.V(1).Info("opened sample store", "path", path)
	return &Store{db: db, log: log}, nil
}

// Record appends s.
func (s *Store) Record(ctx context.Context, sample Sample) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO humidity_samples (taken_at, backend, value, ok) VALUES (?, ?, ?, ?)`,
		sample.Time.UnixNano(), sample.Backend, float64(sample.Value), sample.OK)
	if err != nil {
		return errors.Wrap(err, "store: insert sample")
	}
	return nil
}

// Recent returns up to limit samples, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT taken_at, backend, value, ok FROM humidity_samples ORDER BY taken_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "store: query samples")
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var (
			takenAt int64
			value   float64
			sample  Sample
		)
		if err := rows.Scan(&takenAt, &sample.Backend, &value, &sample.OK); err != nil {
			return nil, errors.Wrap(err, "store: scan sample")
		}
		sample.Time = time.Unix(0, takenAt)
		sample.Value = float32(value)
		samples = append(samples, sample)
	}
	return samples, errors.Wrap(rows.Err(), "store: iterate samples")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
