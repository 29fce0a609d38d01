package uniqueid

import (
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
)

const (
	cryptographyKeyPath = `SOFTWARE\Microsoft\Cryptography`
	machineGUIDValue    = "MachineGuid"

	// registryBufSize mirrors the 256 byte buffer handed to RegQueryValueEx,
	// terminating NUL included.
	registryBufSize = 256
)

// registryKey is the subset of registry.Key used to read MachineGuid.
type registryKey interface {
	GetStringValue(name string) (val string, valtype uint32, err error)
	Close() error
}

// registryProvider reads MachineGuid from an opened Cryptography key.
type registryProvider struct {
	openKey func() (registryKey, error)
	log     logr.Logger
}

// Available always reports true, whether or not the value can be read.
func (p *registryProvider) Available() bool {
	return true
}

func (p *registryProvider) ID() (string, error) {
	k, err := p.openKey()
	if err != nil {
		p.log.V(1).Info("cannot open registry key", "key", cryptographyKeyPath, "error", err.Error())
		return "", errors.Mark(errors.Wrapf(err, "uniqueid: open %s", cryptographyKeyPath), ErrNotFound)
	}
	defer k.Close()

	s, _, err := k.GetStringValue(machineGUIDValue)
	if err != nil {
		p.log.V(1).Info("cannot query registry value", "value", machineGUIDValue, "error", err.Error())
		return "", errors.Mark(errors.Wrapf(err, "uniqueid: query %s", machineGUIDValue), ErrNotFound)
	}
	if len(s) >= registryBufSize {
		return "", errors.Wrapf(ErrTooLong, "%d bytes", len(s))
	}
	return s, nil
}
