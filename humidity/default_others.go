//go:build !linux && !windows

package humidity

import "github.com/go-logr/logr"

func platformDefault(_ Config) Sensor {
	return Dummy{}
}

func newWMISensor(_ logr.Logger) (Sensor, error) {
	return nil, ErrUnsupported
}
