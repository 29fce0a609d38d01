//go:build windows && !hal_no_uniqueid

package uniqueid

import (
	"golang.org/x/sys/windows/registry"
)

// newPlatformProvider returns the key MachineGuid in registry `HKEY_LOCAL_MACHINE\SOFTWARE\Microsoft\Cryptography`.
// The 64-bit registry view is forced regardless of process bitness.
func newPlatformProvider(o *options) Provider {
	return &registryProvider{
		openKey: openCryptographyKey,
		log:     o.log.WithName("uniqueid").WithValues("backend", "registry"),
	}
}

func openCryptographyKey() (registryKey, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, cryptographyKeyPath, registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return nil, err
	}
	return k, nil
}
