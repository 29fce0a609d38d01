// Package uniqueid provides support for reading the unique machine id of most OSs (without admin privileges).
//
// https://github.com/darkit/hal
//
// Exactly one backend is compiled in per target:
//
//   - linux:   /etc/machine-id, falling back to /var/lib/dbus/machine-id
//   - windows: MachineGuid under HKLM\SOFTWARE\Microsoft\Cryptography (64-bit view)
//   - darwin:  IOPlatformUUID reported by ioreg
//   - bsd:     /etc/hostid, falling back to `kenv -q smbios.system.uuid`
//
// Building with the `hal_no_uniqueid` tag removes the facility: every call then
// reports the id as unavailable.
//
// Every call reads the underlying source again and returns a freshly owned
// string. Nothing is cached between calls.
//
// Caveat: Image-based environments have usually the same machine-id (perfect clone).
// Linux users can generate a new id with `dbus-uuidgen` and put the id into
// `/var/lib/dbus/machine-id` and `/etc/machine-id`.
// Windows users can use the `sysprep` toolchain to create images, which produce valid images ready for distribution.
package uniqueid // import "github.com/darkit/hal/uniqueid"

import (
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when no identifier source exists or it holds no data.
	ErrNotFound = errors.New("uniqueid: machine id not found")
	// ErrUnsupported is returned on platforms without a backend.
	ErrUnsupported = errors.New("uniqueid: platform not supported")
	// ErrDisabled is returned when the facility was compiled out with hal_no_uniqueid.
	ErrDisabled = errors.New("uniqueid: facility disabled at build time")
	// ErrTooLong is returned when a value does not fit the platform buffer.
	ErrTooLong = errors.New("uniqueid: machine id exceeds buffer")
)

// Provider is a machine identity source.
type Provider interface {
	// Available reports whether an identifier can be retrieved on this host.
	// Its cost and semantics are backend specific.
	Available() bool
	// ID returns the machine identifier.
	ID() (string, error)
}

type options struct {
	fs  afero.Fs
	log logr.Logger
}

// Option configures a Provider built by New.
type Option func(*options)

// WithFs replaces the filesystem used by file based backends.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger sets the logger used for backend diagnostics.
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New returns the provider compiled in for the current platform.
func New(opts ...Option) Provider {
	o := &options{
		fs:  afero.NewOsFs(),
		log: logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return newPlatformProvider(o)
}

var defaultProvider = New()

// ID returns the platform specific machine id of the current host OS.
// Regard the returned id as "confidential" and consider using ProtectedID() instead.
func ID() (string, error) {
	return defaultProvider.ID()
}

// Available reports whether the current host exposes a machine id.
//
// On Linux this performs a full read of the id file. On Windows it is always
// true, even when the registry value is missing.
func Available() bool {
	return defaultProvider.Available()
}

// Get returns the machine id and whether it could be read. A false ok means
// "identifier unavailable"; it is never fatal.
func Get() (id string, ok bool) {
	id, err := defaultProvider.ID()
	if err != nil {
		return "", false
	}
	return id, true
}

// ProtectedID returns a hashed version of the machine ID in a cryptographically secure way,
// using a fixed, application-specific key.
// Internally, this function calculates HMAC-SHA256 of the application ID, keyed by the machine ID.
func ProtectedID(appID string) (string, error) {
	return protectedID(defaultProvider, appID)
}

func protectedID(p Provider, appID string) (string, error) {
	id, err := p.ID()
	if err != nil {
		return "", err
	}
	return protect(appID, id), nil
}

// UUID returns the machine id parsed as a UUID. Both the 32 hex digit Linux
// form and the dashed Windows form are accepted.
func UUID() (uuid.UUID, error) {
	return parseUUID(defaultProvider)
}

func parseUUID(p Provider) (uuid.UUID, error) {
	id, err := p.ID()
	if err != nil {
		return uuid.Nil, err
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "uniqueid: %q is not a uuid", id)
	}
	return u, nil
}
