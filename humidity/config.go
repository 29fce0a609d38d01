package humidity

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// Backend names accepted by Config.Backend.
const (
	BackendAuto  = "auto"
	BackendSysfs = "sysfs"
	BackendSHT31 = "sht31"
	BackendWMI   = "wmi"
	BackendNone  = "none"
)

const (
	DefaultSysfsRoot = "/sys"
	DefaultI2CBus    = "/dev/i2c-1"
	DefaultI2CAddr   = 0x44
)

// Config selects and parameterizes a sensor backend.
type Config struct {
	// Backend is one of the Backend* names. Empty means BackendAuto, the
	// backend compiled in for this platform.
	Backend string

	// SysfsRoot is where the sysfs backend looks for hwmon and IIO devices.
	SysfsRoot string
	// Fs backs the sysfs backend. Defaults to the OS filesystem.
	Fs afero.Fs

	// I2CBus and I2CAddr locate an SHT3x device.
	I2CBus  string
	I2CAddr uint16

	Logger logr.Logger
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	c.Backend = strings.ToLower(c.Backend)
	if c.SysfsRoot == "" {
		c.SysfsRoot = DefaultSysfsRoot
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.I2CBus == "" {
		c.I2CBus = DefaultI2CBus
	}
	if c.I2CAddr == 0 {
		c.I2CAddr = DefaultI2CAddr
	}
	if c.Logger.GetSink() == nil {
		c.Logger = logr.Discard()
	}
	return c
}

// New builds the sensor described by cfg.
func New(cfg Config) (Sensor, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger.WithName("humidity")

	switch cfg.Backend {
	case BackendAuto:
		s := platformDefault(cfg)
		log.V(1).Info("selected platform sensor", "backend", s.Name())
		return s, nil
	case BackendSysfs:
		return NewSysfs(cfg.Fs, cfg.SysfsRoot, log), nil
	case BackendSHT31:
		return NewSHT31(cfg.I2CBus, cfg.I2CAddr, log), nil
	case BackendWMI:
		return newWMISensor(log)
	case BackendNone:
		return Dummy{}, nil
	default:
		return nil, errors.Newf("humidity: unknown backend %q", cfg.Backend)
	}
}
