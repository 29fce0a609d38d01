//go:build linux && !hal_no_uniqueid

package uniqueid

const (
	// dbusPathEtc is the systemd location of the machine id and is tried first.
	dbusPathEtc = "/etc/machine-id"
	// dbusPath is the legacy dbus location. Some systems only know this path.
	dbusPath = "/var/lib/dbus/machine-id"

	// linuxBufSize bounds the id to 63 bytes plus terminator.
	linuxBufSize = 64
)

// newPlatformProvider returns the id found in `/etc/machine-id`, or in
// `/var/lib/dbus/machine-id` when the former cannot be opened.
// Availability is checked by reading the file.
func newPlatformProvider(o *options) Provider {
	return &fileProvider{
		fs:      o.fs,
		paths:   []string{dbusPathEtc, dbusPath},
		bufSize: linuxBufSize,
		log:     o.log.WithName("uniqueid").WithValues("backend", "machine-id"),
	}
}
