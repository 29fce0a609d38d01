package humidity

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr/testr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSensor struct {
	value   float64
	err     error
	enabled bool
}

func (f *fakeSensor) Name() string    { return "fake" }
func (f *fakeSensor) Available() bool { return f.err == nil }
func (f *fakeSensor) Enable()         { f.enabled = true }
func (f *fakeSensor) Disable()        { f.enabled = false }
func (f *fakeSensor) Enabled() bool   { return f.enabled }
func (f *fakeSensor) Read() (float64, error) {
	if !f.enabled {
		return 0, ErrDisabled
	}
	if f.err != nil {
		return 0, f.err
	}
	return validate(f.value)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		ok   bool
	}{
		{"zero", 0, true},
		{"hundred", 100, true},
		{"typical", 43.5, true},
		{"negative", -0.1, false},
		{"above", 100.01, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := validate(tt.in)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.in, v)
				return
			}
			assert.True(t, errors.Is(err, ErrOutOfRange))
		})
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name   string
		sensor *fakeSensor
		want   float32
	}{
		{"enabled reading", &fakeSensor{value: 55.25, enabled: true}, 55.25},
		{"disabled", &fakeSensor{value: 55.25}, Sentinel},
		{"hardware error", &fakeSensor{err: errors.New("bus error"), enabled: true}, Sentinel},
		{"nan", &fakeSensor{value: math.NaN(), enabled: true}, Sentinel},
		{"out of range", &fakeSensor{value: 120, enabled: true}, Sentinel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Value(tt.sensor)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(float64(got)))
			assert.True(t, got == Sentinel || (got >= 0 && got <= 100))
		})
	}
}

func TestDummy(t *testing.T) {
	var d Dummy
	assert.False(t, d.Available())
	d.Enable()
	assert.False(t, d.Enabled())
	assert.Equal(t, Sentinel, Value(d))
}

func TestNew(t *testing.T) {
	logger := testr.New(t)

	s, err := New(Config{Backend: "none", Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, BackendNone, s.Name())

	s, err = New(Config{Backend: "SYSFS", Fs: afero.NewMemMapFs(), Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, BackendSysfs, s.Name())

	s, err = New(Config{Backend: BackendSHT31, Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, BackendSHT31, s.Name())

	_, err = New(Config{Backend: "barometer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, BackendAuto, cfg.Backend)
	assert.Equal(t, DefaultSysfsRoot, cfg.SysfsRoot)
	assert.Equal(t, DefaultI2CBus, cfg.I2CBus)
	assert.Equal(t, uint16(DefaultI2CAddr), cfg.I2CAddr)
	assert.NotNil(t, cfg.Fs)
}

func TestGet_Host(t *testing.T) {
	// 无论有没有硬件，返回值都必须是合法读数或哨兵值
	Enable()
	defer Disable()
	got := Get()
	assert.False(t, math.IsNaN(float64(got)))
	assert.True(t, got == Sentinel || (got >= 0 && got <= 100), "got %v", got)
	if !Available() {
		assert.Equal(t, Sentinel, got)
	}
}
