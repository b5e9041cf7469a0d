package profile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/claudebox-dev/claudebox/internal/project"
)

// ErrInvalidProfile is returned for unknown profile names and malformed
// version pins.
var ErrInvalidProfile = errors.New("invalid profile")

var versionPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// Spec is a parsed "name[:version]" argument.
type Spec struct {
	Name    string
	Version string
}

// ParseSpec parses "name" or "name:version".
func ParseSpec(s string) (Spec, error) {
	name, version, hasVersion := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	version = strings.TrimSpace(version)

	if name == "" {
		return Spec{}, fmt.Errorf("%w: empty profile name in %q", ErrInvalidProfile, s)
	}
	if _, ok := Known[name]; !ok {
		return Spec{}, fmt.Errorf("%w: unknown profile %q", ErrInvalidProfile, name)
	}
	if hasVersion && !versionPattern.MatchString(version) {
		return Spec{}, fmt.Errorf("%w: invalid version %q for %s", ErrInvalidProfile, version, name)
	}

	return Spec{Name: name, Version: version}, nil
}

// Store reads and updates a project's profiles.ini under the project lock.
type Store struct {
	project *project.Project
	path    string
}

// NewStore returns the profile store of p.
func NewStore(p *project.Project) *Store {
	return &Store{project: p, path: p.ProfilesPath()}
}

// Path returns the profiles.ini location.
func (s *Store) Path() string {
	return s.path
}

// Add validates every spec, then merges the expanded profile names into
// [profiles] and records pinned versions. Nothing is written when any spec is
// invalid. It returns the expanded names that were requested.
func (s *Store) Add(ctx context.Context, specs []string) ([]string, error) {
	parsed := make([]Spec, 0, len(specs))
	for _, raw := range specs {
		spec, err := ParseSpec(raw)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, spec)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: no profiles given", ErrInvalidProfile)
	}

	names := make([]string, 0, len(parsed))
	for _, spec := range parsed {
		names = append(names, spec.Name)
	}
	expanded := ExpandAll(names)

	err := s.project.WithLock(ctx, func() error {
		if err := UpdateSection(s.path, SectionProfiles, expanded); err != nil {
			return err
		}
		for _, spec := range parsed {
			if spec.Version == "" {
				continue
			}
			if err := UpdateVersion(s.path, spec.Name, spec.Version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return expanded, nil
}

// Remove drops names from [profiles] and returns the remaining profiles.
// Pinned versions are kept so re-adding a profile restores its pin.
func (s *Store) Remove(ctx context.Context, names []string) ([]string, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var remaining []string
	err := s.project.WithLock(ctx, func() error {
		current, err := ReadSection(s.path, SectionProfiles)
		if err != nil {
			return err
		}
		for _, name := range current {
			if !drop[name] {
				remaining = append(remaining, name)
			}
		}
		return ReplaceSection(s.path, SectionProfiles, remaining)
	})
	if err != nil {
		return nil, err
	}

	return remaining, nil
}

// Profiles returns the selected profiles in insertion order.
func (s *Store) Profiles() ([]string, error) {
	return ReadSection(s.path, SectionProfiles)
}

// Versions returns the pinned versions.
func (s *Store) Versions() map[string]string {
	return Versions(s.path)
}

// Version returns the version pinned for name, or "".
func (s *Store) Version(name string) string {
	return GetVersion(s.path, name)
}
