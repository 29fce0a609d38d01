package uniqueid

import (
	"github.com/cockroachdb/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
)

// fileProvider reads the id from the first candidate file that can be opened.
//
// Only a failure to open moves on to the next candidate. A file that opens but
// yields nothing is reported as ErrNotFound without trying further paths.
type fileProvider struct {
	fs      afero.Fs
	paths   []string
	bufSize int
	log     logr.Logger
}

func (p *fileProvider) Available() bool {
	_, err := p.ID()
	return err == nil
}

func (p *fileProvider) ID() (string, error) {
	f, path, err := p.open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	id, err := readFirstLine(f, p.bufSize)
	if err != nil {
		p.log.V(1).Info("machine id file unreadable", "path", path, "error", err.Error())
		return "", err
	}
	return id, nil
}

func (p *fileProvider) open() (afero.File, string, error) {
	var lastErr error
	for _, path := range p.paths {
		f, err := p.fs.Open(path)
		if err == nil {
			return f, path, nil
		}
		p.log.V(1).Info("machine id candidate not readable", "path", path, "error", err.Error())
		lastErr = err
	}
	if lastErr == nil {
		return nil, "", ErrNotFound
	}
	return nil, "", errors.Mark(errors.Wrap(lastErr, "uniqueid: no machine id file"), ErrNotFound)
}
