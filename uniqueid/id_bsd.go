//go:build (freebsd || netbsd || openbsd || dragonfly || solaris) && !hal_no_uniqueid

package uniqueid

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

const hostidPath = "/etc/hostid"

type hostidProvider struct {
	fs  afero.Fs
	log logr.Logger
}

// newPlatformProvider returns the uuid specified at `/etc/hostid`.
// If the returned value is empty, the uuid from a call to `kenv -q smbios.system.uuid` is returned.
func newPlatformProvider(o *options) Provider {
	return &hostidProvider{fs: o.fs, log: o.log.WithName("uniqueid").WithValues("backend", "hostid")}
}

func (p *hostidProvider) Available() bool {
	_, err := p.ID()
	return err == nil
}

func (p *hostidProvider) ID() (string, error) {
	id, err := p.readHostid()
	if err != nil {
		// try fallback
		p.log.V(1).Info("hostid unreadable, trying kenv", "error", err.Error())
		id, err = readKenv()
	}
	if err != nil {
		return "", errors.Mark(err, ErrNotFound)
	}
	return id, nil
}

func (p *hostidProvider) readHostid() (string, error) {
	buf, err := afero.ReadFile(p.fs, hostidPath)
	if err != nil {
		return "", err
	}
	id := trim(string(buf))
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}

func readKenv() (string, error) {
	buf := &bytes.Buffer{}
	err := run(buf, os.Stderr, "kenv", "-q", "smbios.system.uuid")
	if err != nil {
		return "", errors.Wrap(err, "uniqueid: kenv")
	}
	id := trim(buf.String())
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}
