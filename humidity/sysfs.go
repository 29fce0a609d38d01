package humidity

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// Sysfs reads humidity from the kernel's hwmon and IIO attributes. Both report
// milli-percent; IIO devices without a processed input are read as
// (raw + offset) * scale.
type Sysfs struct {
	fs   afero.Fs
	root string
	log  logr.Logger

	mu      sync.Mutex
	enabled bool
	source  *sysfsSource
}

type sysfsSource struct {
	input string

	// raw/offset/scale are set only for IIO devices without a processed input.
	raw    string
	offset string
	scale  string
}

// NewSysfs returns a sensor reading attributes below root on fs.
func NewSysfs(fs afero.Fs, root string, log logr.Logger) *Sysfs {
	return &Sysfs{fs: fs, root: root, log: log.WithValues("backend", BackendSysfs)}
}

func (s *Sysfs) Name() string { return BackendSysfs }

// Available reports whether any humidity attribute exists.
func (s *Sysfs) Available() bool {
	_, err := s.discover()
	return err == nil
}

func (s *Sysfs) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return
	}
	src, err := s.discover()
	if err != nil {
		s.log.V(1).Info("cannot enable sensor", "error", err.Error())
		return
	}
	s.source = src
	s.enabled = true
}

func (s *Sysfs) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = nil
	s.enabled = false
}

func (s *Sysfs) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *Sysfs) Read() (float64, error) {
	s.mu.Lock()
	src := s.source
	s.mu.Unlock()
	if src == nil {
		return 0, ErrDisabled
	}

	milli, err := s.readMilli(src)
	if err != nil {
		return 0, err
	}
	return validate(milli / 1000)
}

func (s *Sysfs) readMilli(src *sysfsSource) (float64, error) {
	if src.input != "" {
		return s.readFloat(src.input)
	}
	raw, err := s.readFloat(src.raw)
	if err != nil {
		return 0, err
	}
	scale := 1.0
	if src.scale != "" {
		if scale, err = s.readFloat(src.scale); err != nil {
			return 0, err
		}
	}
	var offset float64
	if src.offset != "" {
		if offset, err = s.readFloat(src.offset); err != nil {
			return 0, err
		}
	}
	return (raw + offset) * scale, nil
}

func (s *Sysfs) readFloat(name string) (float64, error) {
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return 0, errors.Wrapf(err, "humidity: read %s", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "humidity: parse %s", name)
	}
	return v, nil
}

// discover returns the first humidity attribute found, hwmon before IIO.
func (s *Sysfs) discover() (*sysfsSource, error) {
	hwmon, err := s.glob("class/hwmon/hwmon*/humidity*_input")
	if err != nil {
		return nil, err
	}
	if len(hwmon) > 0 {
		return &sysfsSource{input: hwmon[0]}, nil
	}

	devices, err := s.glob("bus/iio/devices/iio:device*")
	if err != nil {
		return nil, err
	}
	for _, dev := range devices {
		input := filepath.Join(dev, "in_humidityrelative_input")
		if fileExists(s.fs, input) {
			return &sysfsSource{input: input}, nil
		}
		raw := filepath.Join(dev, "in_humidityrelative_raw")
		if !fileExists(s.fs, raw) {
			continue
		}
		src := &sysfsSource{raw: raw}
		if scale := filepath.Join(dev, "in_humidityrelative_scale"); fileExists(s.fs, scale) {
			src.scale = scale
		}
		if offset := filepath.Join(dev, "in_humidityrelative_offset"); fileExists(s.fs, offset) {
			src.offset = offset
		}
		return src, nil
	}
	return nil, ErrUnavailable
}

func (s *Sysfs) glob(pattern string) ([]string, error) {
	matches, err := afero.Glob(s.fs, filepath.Join(s.root, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "humidity: glob %s", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

func fileExists(fs afero.Fs, name string) bool {
	ok, _ := afero.Exists(fs, name)
	return ok
}
