package mount

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ErrBlockedMount is returned when a mount's host path is protected.
var ErrBlockedMount = errors.New("mount blocked")

// Validator rejects mounts whose host path is, or lies under, a blocked path.
type Validator struct {
	blockedPaths []string // absolute, symlinks resolved where possible
}

// NewValidator expands and resolves blockedPaths. Empty entries are skipped.
func NewValidator(blockedPaths []string) (*Validator, error) {
	v := &Validator{blockedPaths: make([]string, 0, len(blockedPaths))}

	for _, p := range blockedPaths {
		if p == "" {
			continue
		}
		abs, err := absPath(p)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked path %q: %w", p, err)
		}
		v.blockedPaths = append(v.blockedPaths, resolveSymlinks(abs))
	}

	return v, nil
}

// Validate returns an error wrapping ErrBlockedMount when m.Host is blocked,
// including through a symlink.
func (v *Validator) Validate(m Mount) error {
	if m.Host == "" {
		return fmt.Errorf("mount host path cannot be empty")
	}

	abs, err := absPath(m.Host)
	if err != nil {
		abs = filepath.Clean(m.Host)
	}
	resolved := resolveSymlinks(abs)

	for _, blocked := range v.blockedPaths {
		if !isUnderOrEqual(resolved, blocked) {
			continue
		}
		if resolved != abs {
			return fmt.Errorf("%w: %s resolves to protected path %s", ErrBlockedMount, m.Host, blocked)
		}
		return fmt.Errorf("%w: %s is a protected path", ErrBlockedMount, blocked)
	}
	return nil
}

// ValidateAll validates every mount, returning the first failure.
func (v *Validator) ValidateAll(mounts []Mount) error {
	for _, m := range mounts {
		if err := v.Validate(m); err != nil {
			return err
		}
	}
	return nil
}

func absPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// resolveSymlinks falls back to the cleaned path when p does not exist.
func resolveSymlinks(p string) string {
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return resolved
}

// isUnderOrEqual reports whether testPath is basePath or below it;
// "/home/u/.sshrc" is not under "/home/u/.ssh".
func isUnderOrEqual(testPath, basePath string) bool {
	if testPath == basePath {
		return true
	}
	prefix := basePath
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(testPath, prefix)
}
