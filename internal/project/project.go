// Package project manages the persistent per-project state directory: the
// slot counter, slot directories and the advisory lock guarding them.
//
// Layout under the state root:
//
//	<root>/projects/<slug>_<token>/
//	    counter        active slot count (ASCII integer, no newline)
//	    profiles.ini   selected profiles and pinned versions
//	    allowlist      extra network domains
//	    .lock          advisory lock file
//	    <slot token>/  one directory per active slot, holding slot.json
package project

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/claudebox-dev/claudebox/internal/identity"
)

const (
	projectsDirName   = "projects"
	counterFileName   = "counter"
	profilesFileName  = "profiles.ini"
	allowlistFileName = "allowlist"
	lockFileName      = ".lock"

	// MountFileName is the per-project mount declaration file, read from the
	// project directory itself.
	MountFileName = ".claudebox.yml"

	// DefaultLockTimeout bounds how long a command waits for another
	// invocation to release the project lock.
	DefaultLockTimeout = 10 * time.Second
)

// Project is a managed host directory and its derived identity.
type Project struct {
	Path  string // Canonical host path
	Token string // Parent identity
	Dir   string // Parent directory on persistent storage

	ids         identity.Generator
	lockTimeout time.Duration
}

// Option configures a Project.
type Option func(*Project)

// WithGenerator sets the identity generator (token width).
func WithGenerator(g identity.Generator) Option {
	return func(p *Project) {
		p.ids = g
	}
}

// WithLockTimeout sets how long lock acquisition may wait.
func WithLockTimeout(d time.Duration) Option {
	return func(p *Project) {
		if d > 0 {
			p.lockTimeout = d
		}
	}
}

// Open resolves path to its canonical form and derives the project's identity
// and parent directory under root. It does not touch the state directory.
func Open(root, path string, opts ...Option) (*Project, error) {
	if root == "" {
		return nil, fmt.Errorf("state root cannot be empty")
	}

	canonical, err := identity.Canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("invalid project path: %w", err)
	}

	p := &Project{
		Path:        canonical,
		ids:         identity.Default,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.Token = p.ids.Project(canonical)
	p.Dir = filepath.Join(root, projectsDirName, identity.Slug(canonical)+"_"+p.Token)

	return p, nil
}

// SlotToken returns the token naming slot n.
func (p *Project) SlotToken(n int) string {
	return p.ids.Slot(p.Path, n)
}

// SlotDir returns the directory for slot n. It does not touch disk.
func (p *Project) SlotDir(n int) string {
	return filepath.Join(p.Dir, p.SlotToken(n))
}

// ImageName returns the Docker image name for the project.
func (p *Project) ImageName() string {
	return p.ids.ImageName(p.Path)
}

// ContainerName returns the Docker container name for slot n.
func (p *Project) ContainerName(n int) string {
	return p.ids.ContainerName(p.Path, n)
}

func (p *Project) CounterPath() string {
	return filepath.Join(p.Dir, counterFileName)
}

func (p *Project) ProfilesPath() string {
	return filepath.Join(p.Dir, profilesFileName)
}

func (p *Project) AllowlistPath() string {
	return filepath.Join(p.Dir, allowlistFileName)
}

func (p *Project) LockPath() string {
	return filepath.Join(p.Dir, lockFileName)
}

// MountFilePath returns the project's own .claudebox.yml.
func (p *Project) MountFilePath() string {
	return filepath.Join(p.Path, MountFileName)
}
