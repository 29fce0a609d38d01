//go:build aix && !hal_no_uniqueid

package uniqueid

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
)

type unameProvider struct{}

// newPlatformProvider returns the system id printed by `uname -u`.
func newPlatformProvider(_ *options) Provider {
	return unameProvider{}
}

func (p unameProvider) Available() bool {
	_, err := p.ID()
	return err == nil
}

func (unameProvider) ID() (string, error) {
	// AIX系统可以使用uname -u命令获取系统ID
	buf := &bytes.Buffer{}
	if err := run(buf, os.Stderr, "uname", "-u"); err != nil {
		return "", errors.Mark(errors.Wrap(err, "uniqueid: uname"), ErrNotFound)
	}
	id := trim(buf.String())
	if id == "" {
		return "", ErrNotFound
	}
	return id, nil
}
