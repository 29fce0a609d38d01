//go:build linux

package humidity

import "github.com/go-logr/logr"

func platformDefault(cfg Config) Sensor {
	return NewSysfs(cfg.Fs, cfg.SysfsRoot, cfg.Logger.WithName("humidity"))
}

func newWMISensor(_ logr.Logger) (Sensor, error) {
	return nil, ErrUnsupported
}
