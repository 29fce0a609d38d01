//go:build !linux && !windows && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !solaris && !aix && !hal_no_uniqueid

package uniqueid

func newPlatformProvider(_ *options) Provider {
	return unavailableProvider{err: ErrUnsupported}
}
