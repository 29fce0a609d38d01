package humidity

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	// high repeatability single shot measurement, clock stretching enabled
	sht31MeasureCmd = []byte{0x2C, 0x06}
	sht31StatusCmd  = []byte{0xF3, 0x2D}
)

const sht31MeasureDelay = 15 * time.Millisecond

var errCRC = errors.New("humidity: sht31 crc mismatch")

// SHT31 is a Sensirion SHT3x humidity sensor on an I2C bus. The bus is held
// open between Enable and Disable.
type SHT31 struct {
	busName string
	addr    uint16
	log     logr.Logger

	openBus func(name string) (i2c.BusCloser, error)
	sleep   func(time.Duration)

	mu          sync.Mutex
	bus         i2c.BusCloser
	dev         *i2c.Dev
	temperature float64
}

// NewSHT31 returns a sensor for the device at addr on busName (e.g. "/dev/i2c-1", 0x44).
func NewSHT31(busName string, addr uint16, log logr.Logger) *SHT31 {
	return &SHT31{
		busName: busName,
		addr:    addr,
		log:     log.WithValues("backend", BackendSHT31, "bus", busName, "addr", addr),
		openBus: openI2CBus,
		sleep:   time.Sleep,
	}
}

func openI2CBus(name string) (i2c.BusCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "humidity: failed to initialize periph")
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "humidity: failed to open I2C %s", name)
	}
	return bus, nil
}

func (s *SHT31) Name() string { return BackendSHT31 }

// Available probes the device by reading its status register.
func (s *SHT31) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev != nil {
		return s.probe(s.dev) == nil
	}
	bus, err := s.openBus(s.busName)
	if err != nil {
		s.log.V(1).Info("bus not available", "error", err.Error())
		return false
	}
	defer bus.Close()
	return s.probe(&i2c.Dev{Bus: bus, Addr: s.addr}) == nil
}

func (s *SHT31) probe(dev *i2c.Dev) error {
	status := make([]byte, 3)
	if err := dev.Tx(sht31StatusCmd, status); err != nil {
		return errors.Wrap(err, "humidity: sht31 status")
	}
	if crc8(status[:2]) != status[2] {
		return errCRC
	}
	return nil
}

func (s *SHT31) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev != nil {
		return
	}
	bus, err := s.openBus(s.busName)
	if err != nil {
		s.log.V(1).Info("cannot enable sensor", "error", err.Error())
		return
	}
	dev := &i2c.Dev{Bus: bus, Addr: s.addr}
	if err := s.probe(dev); err != nil {
		s.log.V(1).Info("device did not answer", "error", err.Error())
		bus.Close()
		return
	}
	s.bus = bus
	s.dev = dev
}

func (s *SHT31) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bus != nil {
		if err := s.bus.Close(); err != nil {
			s.log.V(1).Info("closing bus", "error", err.Error())
		}
	}
	s.bus = nil
	s.dev = nil
}

func (s *SHT31) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev != nil
}

// Read triggers a single shot measurement and returns the relative humidity.
func (s *SHT31) Read() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return 0, ErrDisabled
	}

	if err := s.dev.Tx(sht31MeasureCmd, nil); err != nil {
		return 0, errors.Wrap(err, "humidity: failed to send command")
	}
	s.sleep(sht31MeasureDelay)

	data := make([]byte, 6)
	if err := s.dev.Tx(nil, data); err != nil {
		return 0, errors.Wrap(err, "humidity: failed to read data")
	}
	if crc8(data[0:2]) != data[2] || crc8(data[3:5]) != data[5] {
		return 0, errCRC
	}

	tempRaw := binary.BigEndian.Uint16(data[0:2])
	s.temperature = float64(tempRaw)*175.0/65535.0 - 45.0

	humRaw := binary.BigEndian.Uint16(data[3:5])
	return validate(float64(humRaw) * 100.0 / 65535.0)
}

// Temperature returns the temperature in °C captured by the last successful Read.
func (s *SHT31) Temperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temperature
}

// crc8 is the Sensirion checksum: polynomial 0x31, initialization 0xFF.
func crc8(data []byte) byte {
	crc := byte(0xFF)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
