package uniqueid

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// run wraps `exec.Command` with easy access to stdout and stderr.
func run(stdout, stderr io.Writer, cmd string, args ...string) error {
	c := exec.Command(cmd, args...)
	c.Stdin = nil
	c.Stdout = stdout
	c.Stderr = stderr
	return c.Run()
}

// protect calculates HMAC-SHA256 of the application ID, keyed by the machine ID and returns a hex-encoded string.
func protect(appID, id string) string {
	mac := hmac.New(sha256.New, []byte(id))
	mac.Write([]byte(appID))
	return hex.EncodeToString(mac.Sum(nil))
}

// readFirstLine behaves like fgets with a bufSize buffer: it returns at most
// bufSize-1 bytes, stopping after the first newline. Exactly one trailing
// newline is stripped. Reading nothing at all is ErrNotFound.
func readFirstLine(r io.Reader, bufSize int) (string, error) {
	br := bufio.NewReader(io.LimitReader(r, int64(bufSize-1)))
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "uniqueid: read")
	}
	if line == "" {
		return "", ErrNotFound
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

func trim(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\n"))
}
