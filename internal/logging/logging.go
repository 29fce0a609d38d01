// Package logging builds the zap-backed logr.Logger used by the binaries.
package logging

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger at level ("debug", "info", "warn" or "error") and a
// function flushing buffered entries. Debug enables logr V(1) output.
func New(level string, development bool) (logr.Logger, func(), error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return logr.Discard(), func() {}, err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, errors.Wrap(err, "logging: build zap logger")
	}
	return zapr.NewLogger(zapLog), func() { _ = zapLog.Sync() }, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		// logr V(1) maps to zap level -1
		return zapcore.Level(-1), nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, errors.Newf("logging: unknown level %q", level)
	}
}
