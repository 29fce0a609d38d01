//go:build hal_no_uniqueid

package uniqueid

// newPlatformProvider ignores the platform entirely: the facility was
// excluded from this build.
func newPlatformProvider(_ *options) Provider {
	return unavailableProvider{err: ErrDisabled}
}
