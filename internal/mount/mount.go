package mount

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ErrInvalidMount is returned for malformed mount specifications.
var ErrInvalidMount = errors.New("invalid mount")

// Mode is the container-side access mode of a mount.
type Mode string

const (
	ModeRW Mode = "rw"
	ModeRO Mode = "ro"
)

// Mount binds a host path to a container path
type Mount struct {
	Host      string // Host path (expanded absolute path)
	Container string // Container path, the merge key
	Mode      Mode
}

// ReadOnly reports whether the mount is read-only.
func (m Mount) ReadOnly() bool {
	return m.Mode == ModeRO
}

// String renders the mount in host:container:mode form.
func (m Mount) String() string {
	return fmt.Sprintf("%s:%s:%s", m.Host, m.Container, m.Mode)
}

// Parse parses a CLI mount specification.
//
// Formats:
//   - "~/data:/data" -> Mount{Host: <home>/data, Container: "/data", Mode: rw}
//   - "/src:/src:ro" -> Mount{Host: "/src", Container: "/src", Mode: ro}
//
// The mode defaults to rw and must be exactly "rw" or "ro" when given.
func Parse(spec string) (Mount, error) {
	if spec == "" {
		return Mount{}, fmt.Errorf("%w: specification cannot be empty", ErrInvalidMount)
	}

	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return Mount{}, fmt.Errorf("%w: %q: expected host:container[:mode]", ErrInvalidMount, spec)
	}
	if parts[0] == "" {
		return Mount{}, fmt.Errorf("%w: %q: missing host path", ErrInvalidMount, spec)
	}
	if parts[1] == "" {
		return Mount{}, fmt.Errorf("%w: %q: missing container path", ErrInvalidMount, spec)
	}

	mode := ModeRW
	if len(parts) == 3 {
		switch Mode(parts[2]) {
		case ModeRW, ModeRO:
			mode = Mode(parts[2])
		default:
			return Mount{}, fmt.Errorf("%w: invalid mode '%s': must be 'ro' or 'rw'", ErrInvalidMount, parts[2])
		}
	}

	host, err := expandPath(parts[0], "")
	if err != nil {
		return Mount{}, fmt.Errorf("%w: invalid host path: %v", ErrInvalidMount, err)
	}

	return Mount{
		Host:      host,
		Container: path.Clean(parts[1]),
		Mode:      mode,
	}, nil
}

// ParseAll parses every specification, stopping at the first invalid one.
func ParseAll(specs []string) ([]Mount, error) {
	mounts := make([]Mount, 0, len(specs))
	for _, spec := range specs {
		m, err := Parse(spec)
		if err != nil {
			return nil, err
		}
		mounts = append(mounts, m)
	}
	return mounts, nil
}

// expandPath expands ~ to home directory and returns an absolute path.
// Relative paths resolve against baseDir, or the working directory when
// baseDir is empty.
func expandPath(p, baseDir string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}

	if !filepath.IsAbs(expanded) && baseDir != "" {
		expanded = filepath.Join(baseDir, expanded)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to convert to absolute path: %w", err)
	}

	return filepath.Clean(abs), nil
}
