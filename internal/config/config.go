// Package config loads the halctl configuration file.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/darkit/hal/humidity"
)

// Config is the on-disk halctl configuration.
type Config struct {
	Log      Log      `yaml:"log"`
	AppID    string   `yaml:"app_id"`
	Humidity Humidity `yaml:"humidity"`
	Store    Store    `yaml:"store"`
}

type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type Humidity struct {
	Backend   string `yaml:"backend"`
	SysfsRoot string `yaml:"sysfs_root"`
	I2C       I2C    `yaml:"i2c"`
}

type I2C struct {
	Bus  string `yaml:"bus"`
	Addr uint16 `yaml:"addr"`
}

type Store struct {
	Path string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:   Log{Level: "info"},
		AppID: "halctl",
		Humidity: Humidity{
			Backend:   humidity.BackendAuto,
			SysfsRoot: humidity.DefaultSysfsRoot,
			I2C: I2C{
				Bus:  humidity.DefaultI2CBus,
				Addr: humidity.DefaultI2CAddr,
			},
		},
		Store: Store{Path: "halctl.db"},
	}
}

// Load reads path from fs on top of Default. An empty path returns Default.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields and address ranges.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("config: unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Humidity.Backend) {
	case humidity.BackendAuto, humidity.BackendSysfs, humidity.BackendSHT31, humidity.BackendWMI, humidity.BackendNone:
	default:
		return errors.Newf("config: unknown humidity backend %q", c.Humidity.Backend)
	}
	// 7 位 I2C 地址
	if c.Humidity.I2C.Addr > 0x7F {
		return errors.Newf("config: i2c address %#x out of 7-bit range", c.Humidity.I2C.Addr)
	}
	if c.Store.Path == "" {
		return errors.New("config: store.path is required")
	}
	return nil
}

// SensorConfig maps the humidity section onto a humidity.Config.
func (c Config) SensorConfig() humidity.Config {
	return humidity.Config{
		Backend:   c.Humidity.Backend,
		SysfsRoot: c.Humidity.SysfsRoot,
		I2CBus:    c.Humidity.I2C.Bus,
		I2CAddr:   c.Humidity.I2C.Addr,
	}
}
