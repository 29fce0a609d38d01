//go:build darwin && !hal_no_uniqueid

package uniqueid

import (
	"bytes"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
)

type ioregProvider struct {
	log logr.Logger
}

// newPlatformProvider returns the uuid returned by `ioreg -rd1 -c IOPlatformExpertDevice`.
func newPlatformProvider(o *options) Provider {
	return &ioregProvider{log: o.log.WithName("uniqueid").WithValues("backend", "ioreg")}
}

func (p *ioregProvider) Available() bool {
	_, err := p.ID()
	return err == nil
}

func (p *ioregProvider) ID() (string, error) {
	buf, err := runIoreg(false)
	if err != nil {
		// cron jobs run with a very minimal environment, including a very basic PATH.
		// ioreg is in /usr/sbin, so it won't be found as a command based on that basic PATH
		// let's try to use absolute path
		p.log.V(1).Info("ioreg not on PATH, retrying absolute path", "error", err.Error())
		if buf, err = runIoreg(true); err != nil {
			return "", errors.Mark(errors.Wrap(err, "uniqueid: ioreg"), ErrNotFound)
		}
	}
	id, err := extractID(buf.String())
	if err != nil {
		return "", err
	}
	return trim(id), nil
}

func extractID(lines string) (string, error) {
	for _, line := range strings.Split(lines, "\n") {
		if strings.Contains(line, "IOPlatformUUID") {
			parts := strings.SplitAfter(line, `" = "`)
			if len(parts) == 2 {
				return strings.TrimRight(parts[1], `"`), nil
			}
		}
	}
	return "", errors.Wrap(ErrNotFound, "uniqueid: no IOPlatformUUID in ioreg output")
}

func runIoreg(tryAbsolutePath bool) (buf *bytes.Buffer, err error) {
	buf = &bytes.Buffer{}
	cmd := "ioreg"
	if tryAbsolutePath {
		cmd = "/usr/sbin/ioreg"
	}
	err = run(buf, os.Stderr, cmd, "-rd1", "-c", "IOPlatformExpertDevice")
	return buf, err
}
