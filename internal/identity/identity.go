// Package identity derives stable names for projects and their slots from
// canonical filesystem paths.
//
// Tokens are xxhash64 digests rendered as lowercase hex and truncated to a
// fixed width. They depend only on the canonical path (and slot number), never
// on the working directory, environment, or a machine-local salt.
package identity

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/mitchellh/go-homedir"
)

const (
	// DefaultWidth is the number of hex characters in a token.
	DefaultWidth = 8
	// MinWidth and MaxWidth bound the configurable token width.
	MinWidth = 4
	MaxWidth = 16

	namePrefix = "claudebox"
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9_.-]+`)

// Generator computes tokens of a fixed width.
type Generator struct {
	width int
}

// Default uses DefaultWidth.
var Default = Generator{width: DefaultWidth}

// New returns a Generator producing tokens of the given width.
func New(width int) (Generator, error) {
	if width < MinWidth || width > MaxWidth {
		return Generator{}, fmt.Errorf("invalid hash width %d: must be between %d and %d", width, MinWidth, MaxWidth)
	}
	return Generator{width: width}, nil
}

// Width returns the token width.
func (g Generator) Width() int {
	if g.width == 0 {
		return DefaultWidth
	}
	return g.width
}

// Project returns the parent identity token for an already canonical path.
func (g Generator) Project(canonical string) string {
	return g.token(canonical)
}

// Slot returns the slot token for an already canonical path and slot number.
// The NUL separator keeps ("/p", 12) and ("/p1", 2) apart.
func (g Generator) Slot(canonical string, n int) string {
	return g.token(canonical + "\x00" + strconv.Itoa(n))
}

// ImageName returns the Docker image name for a project.
func (g Generator) ImageName(canonical string) string {
	return fmt.Sprintf("%s-%s-%s", namePrefix, Slug(canonical), g.Project(canonical))
}

// ContainerName returns the Docker container name for a project slot.
func (g Generator) ContainerName(canonical string, n int) string {
	return fmt.Sprintf("%s-%s-%s", namePrefix, Slug(canonical), g.Slot(canonical, n))
}

func (g Generator) token(input string) string {
	sum := fmt.Sprintf("%016x", xxhash.Sum64String(input))
	return sum[:g.Width()]
}

// Slug returns a Docker-safe, lowercase version of the path's base name.
// It is for readability only; uniqueness comes from the token.
func Slug(canonical string) string {
	base := strings.ToLower(filepath.Base(canonical))
	base = slugUnsafe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-._")
	if base == "" {
		return "root"
	}
	return base
}

// Canonicalize expands ~, makes path absolute, resolves symlinks and strips
// trailing separators. For paths that do not exist yet, symlinks are resolved
// in the deepest existing ancestor.
func Canonicalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path %s: %w", path, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to convert %s to absolute path: %w", path, err)
	}

	return resolveExisting(filepath.Clean(abs)), nil
}

// resolveExisting resolves symlinks in the longest existing prefix of abs and
// appends the missing remainder unchanged, so a path keeps its canonical form
// once its directory is created.
func resolveExisting(abs string) string {
	existing := abs
	var missing []string
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}
}

// Project canonicalizes path and returns its token with the default width.
func Project(path string) (string, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	return Default.Project(canonical), nil
}

// Slot canonicalizes path and returns the slot token with the default width.
func Slot(path string, n int) (string, error) {
	canonical, err := Canonicalize(path)
	if err != nil {
		return "", err
	}
	return Default.Slot(canonical, n), nil
}
