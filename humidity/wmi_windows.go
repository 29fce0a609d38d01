//go:build windows

package humidity

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/yusufpapurcu/wmi"
)

const (
	lhmNamespace = `root\LibreHardwareMonitor`
	lhmQuery     = "SELECT Name, Identifier, Value FROM Sensor WHERE SensorType='Humidity'"
)

// lhmSensor represents the subset of the LibreHardwareMonitor Sensor class
// returned by lhmQuery.
type lhmSensor struct {
	Name       string
	Identifier string
	Value      float32
}

// WMI reads the first humidity sensor published by LibreHardwareMonitor.
// Windows has no native humidity class; without LHM running the sensor is
// unavailable.
type WMI struct {
	log   logr.Logger
	query func(dst *[]lhmSensor) error

	mu      sync.Mutex
	enabled bool
}

func platformDefault(cfg Config) Sensor {
	return newWMI(cfg.Logger.WithName("humidity"))
}

func newWMISensor(log logr.Logger) (Sensor, error) {
	return newWMI(log), nil
}

func newWMI(log logr.Logger) *WMI {
	return &WMI{
		log: log.WithValues("backend", BackendWMI),
		query: func(dst *[]lhmSensor) error {
			return wmi.QueryNamespace(lhmQuery, dst, lhmNamespace)
		},
	}
}

func (w *WMI) Name() string { return BackendWMI }

func (w *WMI) Available() bool {
	_, err := w.first()
	return err == nil
}

func (w *WMI) Enable() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enabled {
		return
	}
	if _, err := w.first(); err != nil {
		w.log.V(1).Info("cannot enable sensor", "error", err.Error())
		return
	}
	w.enabled = true
}

func (w *WMI) Disable() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = false
}

func (w *WMI) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

func (w *WMI) Read() (float64, error) {
	if !w.Enabled() {
		return 0, ErrDisabled
	}
	s, err := w.first()
	if err != nil {
		return 0, err
	}
	return validate(float64(s.Value))
}

func (w *WMI) first() (lhmSensor, error) {
	var dst []lhmSensor
	if err := w.query(&dst); err != nil {
		return lhmSensor{}, errors.Mark(errors.Wrap(err, "humidity: WMI query failed"), ErrUnavailable)
	}
	if len(dst) == 0 {
		return lhmSensor{}, ErrUnavailable
	}
	return dst[0], nil
}
