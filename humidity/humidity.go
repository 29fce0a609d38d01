// Package humidity exposes relative humidity sensors behind one small
// interface, with a backend chosen per build target:
//
//   - linux:   hwmon / IIO attributes under /sys, or an SHT3x on I2C when configured
//   - windows: LibreHardwareMonitor humidity sensors over WMI
//   - others:  a dummy sensor that is never available
//
// Readings are percentages in [0, 100]. Get and Value collapse every failure
// (sensor disabled, unavailable, hardware error, implausible value) into the
// Sentinel -1.0.
package humidity // import "github.com/darkit/hal/humidity"

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
)

// Sentinel is the reading reported by Get and Value on any failure.
const Sentinel float32 = -1.0

var (
	// ErrUnavailable is returned when no humidity hardware can be found.
	ErrUnavailable = errors.New("humidity: sensor unavailable")
	// ErrDisabled is returned by Read while the sensor is disabled.
	ErrDisabled = errors.New("humidity: sensor disabled")
	// ErrOutOfRange is returned for NaN or readings outside [0, 100].
	ErrOutOfRange = errors.New("humidity: reading out of range")
	// ErrUnsupported is returned when a backend does not exist on this platform.
	ErrUnsupported = errors.New("humidity: backend not supported on this platform")
)

// Sensor is a relative humidity sensor.
//
// Enabled reflects the last Enable or Disable call that took effect. Enable on
// a sensor that is not available leaves it disabled.
type Sensor interface {
	// Name identifies the backend, e.g. "sysfs" or "sht31".
	Name() string
	Available() bool
	Enable()
	Disable()
	Enabled() bool
	// Read returns the relative humidity in percent.
	Read() (float64, error)
}

// Value reads s and converts the result to the boundary form: a percentage
// in [0, 100] or exactly Sentinel.
func Value(s Sensor) float32 {
	v, err := s.Read()
	if err != nil {
		return Sentinel
	}
	return float32(v)
}

func validate(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
		return 0, errors.Wrapf(ErrOutOfRange, "%v", v)
	}
	return v, nil
}

var (
	defaultOnce   sync.Once
	defaultSensor Sensor
)

// Default returns the process wide sensor for this platform, built on first
// use with a zero Config.
func Default() Sensor {
	defaultOnce.Do(func() {
		defaultSensor = platformDefault(Config{}.withDefaults())
	})
	return defaultSensor
}

// Available reports whether the default sensor exists.
func Available() bool { return Default().Available() }

// Enable powers up the default sensor.
func Enable() { Default().Enable() }

// Disable powers down the default sensor.
func Disable() { Default().Disable() }

// Enabled reports whether the default sensor is enabled.
func Enabled() bool { return Default().Enabled() }

// Get returns the default sensor's relative humidity, or Sentinel on failure.
func Get() float32 { return Value(Default()) }
