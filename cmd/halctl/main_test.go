package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkit/hal/humidity"
	"github.com/darkit/hal/internal/store"
)

type stubProvider struct {
	id  string
	err error
}

func (s stubProvider) Available() bool     { return s.err == nil }
func (s stubProvider) ID() (string, error) { return s.id, s.err }

type stepSensor struct {
	values  []float64
	enabled bool
}

func (s *stepSensor) Name() string    { return "step" }
func (s *stepSensor) Available() bool { return true }
func (s *stepSensor) Enable()         { s.enabled = true }
func (s *stepSensor) Disable()        { s.enabled = false }
func (s *stepSensor) Enabled() bool   { return s.enabled }
func (s *stepSensor) Read() (float64, error) {
	if len(s.values) == 0 {
		return 0, errors.New("exhausted")
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v, nil
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"barometer"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRun_MissingCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, &out))
}

func TestRunID(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runID(&out, stubProvider{id: "abc123"}))
	assert.Contains(t, out.String(), "abc123")

	out.Reset()
	assert.Error(t, runID(&out, stubProvider{err: errors.New("no machine id")}))
	assert.Contains(t, out.String(), "unavailable")
}

func TestRunHumidity_Dummy(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runHumidity(&out, humidity.Dummy{}))
	assert.Contains(t, out.String(), "-1.0")
	assert.Contains(t, out.String(), "none")
}

func TestRecord(t *testing.T) {
	st, err := store.Open(":memory:", testr.New(t))
	require.NoError(t, err)
	defer st.Close()

	s := &stepSensor{values: []float64{40, 41}, enabled: true}
	var out bytes.Buffer
	require.NoError(t, record(context.Background(), &out, st, s, time.Millisecond, 3, testr.New(t)))

	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
	samples, err := st.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	var ok int
	for _, sample := range samples {
		if sample.OK {
			ok++
		} else {
			assert.Equal(t, humidity.Sentinel, sample.Value)
		}
	}
	assert.Equal(t, 2, ok)
}

func TestRecord_Cancelled(t *testing.T) {
	st, err := store.Open(":memory:", testr.New(t))
	require.NoError(t, err)
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	require.NoError(t, record(ctx, &out, st, humidity.Dummy{}, time.Hour, 0, testr.New(t)))

	samples, err := st.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}
