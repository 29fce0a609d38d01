package uniqueid

import (
	"os"
	"strings"

	"github.com/spf13/afero"
)

const (
	minContainerIDLen = 12
	maxContainerIDLen = 64
)

// IsContainer reports whether the process appears to run inside a container.
// Cloned container images usually share the host image's machine id, so
// callers may want to warn before trusting it.
func IsContainer() bool {
	return defaultContainerProbe.detected()
}

// ContainerID returns the current container id, or an empty string.
func ContainerID() string {
	return defaultContainerProbe.id()
}

var defaultContainerProbe = containerProbe{fs: afero.NewOsFs(), getenv: os.Getenv}

type containerProbe struct {
	fs     afero.Fs
	getenv func(string) string
}

func (c containerProbe) detected() bool {
	for _, marker := range []string{"/.dockerenv", "/.dockerinit", "/run/.containerenv"} {
		if ok, _ := afero.Exists(c.fs, marker); ok {
			return true
		}
	}
	for _, envVar := range []string{"CONTAINER_ID", "DOCKER_CONTAINER_ID"} {
		if c.getenv(envVar) != "" {
			return true
		}
	}
	return c.id() != ""
}

func (c containerProbe) id() string {
	if content, err := afero.ReadFile(c.fs, "/proc/self/mountinfo"); err == nil {
		if id := containerIDFromMountinfo(string(content)); id != "" {
			return id
		}
	}
	for _, envVar := range []string{"CONTAINER_ID", "DOCKER_CONTAINER_ID", "HOSTNAME"} {
		if normalized := normalizeContainerIDCandidate(c.getenv(envVar)); normalized != "" {
			return normalized
		}
	}
	return ""
}

// containerIDFromMountinfo looks for a 64 hex digit container id in the root
// column of /proc/self/mountinfo.
func containerIDFromMountinfo(content string) string {
	for _, line := range strings.Split(content, "\n") {
		field := strings.Split(line, " ")
		if len(field) < 10 {
			continue
		}
		root := field[3]
		if len(root) < maxContainerIDLen {
			continue
		}
		if !strings.Contains(root, "/docker/") &&
			!strings.Contains(root, "/containers/") &&
			!strings.Contains(root, "/containerd/") &&
			!strings.Contains(root, "/sandboxes/") {
			continue
		}
		for _, segment := range strings.Split(root, "/") {
			if id := normalizeContainerIDCandidate(segment); len(id) == maxContainerIDLen {
				return id
			}
		}
	}
	return ""
}

func normalizeContainerIDCandidate(segment string) string {
	candidate := strings.TrimSpace(segment)
	candidate = strings.Trim(candidate, " \"'")
	if candidate == "" {
		return ""
	}
	for _, prefix := range []string{"docker-", "docker:", "cri-containerd-", "containerd://", "crio-", "libpod-", "sandbox-"} {
		candidate = strings.TrimPrefix(candidate, prefix)
	}
	candidate = strings.TrimSuffix(candidate, ".scope")
	candidate = strings.Trim(candidate, ":-._")
	if len(candidate) > maxContainerIDLen {
		candidate = candidate[len(candidate)-maxContainerIDLen:]
	}
	if len(candidate) >= minContainerIDLen && isHexString(candidate) {
		return strings.ToLower(candidate)
	}
	return ""
}

// isHexString 检查字符串是否全为十六进制字符（0-9a-fA-F）。
func isHexString(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return len(s) > 0
}
