package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/docker"
	"github.com/claudebox-dev/claudebox/internal/git"
	"github.com/claudebox-dev/claudebox/internal/identity"
	"github.com/claudebox-dev/claudebox/internal/logging"
	"github.com/claudebox-dev/claudebox/internal/mount"
	"github.com/claudebox-dev/claudebox/internal/network"
	"github.com/claudebox-dev/claudebox/internal/profile"
	"github.com/claudebox-dev/claudebox/internal/project"
)

// openProject resolves --project (or the working directory) to a project
// under the configured state root.
func openProject() (*project.Project, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}
	dir = git.ProjectDir(dir, cfg.Project.UseGitRoot)

	canonical, err := identity.Canonicalize(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid project path: %w", err)
	}
	info, err := os.Stat(canonical)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("project directory %s does not exist; create it or pass --project", canonical)
	case err != nil:
		return nil, fmt.Errorf("failed to stat project directory %s: %w", canonical, err)
	case !info.IsDir():
		return nil, fmt.Errorf("project path %s is not a directory", canonical)
	}

	ids, err := identity.New(cfg.Identity.HashWidth)
	if err != nil {
		return nil, fmt.Errorf("invalid identity.hash_width: %w", err)
	}

	p, err := project.Open(cfg.Home, canonical,
		project.WithGenerator(ids),
		project.WithLockTimeout(cfg.LockTimeout),
	)
	if err != nil {
		return nil, err
	}

	Debug("project %s -> %s", p.Path, p.Dir)
	return p, nil
}

// buildPlan assembles the docker plan for p. slot may be nil when only the
// image is concerned. Mount precedence, lowest first: defaults, config
// mounts, the project's .claudebox.yml, then cliMounts.
func buildPlan(p *project.Project, slot *project.Slot, cliMounts []string) (*docker.Plan, error) {
	store := profile.NewStore(p)
	profiles, err := store.Profiles()
	if err != nil {
		return nil, err
	}

	plan := &docker.Plan{
		ProjectPath: p.Path,
		Image:       p.ImageName(),
		Profiles:    profiles,
		Versions:    store.Versions(),
	}
	if slot != nil {
		plan.Slot = slot.Number
		plan.SlotDir = slot.Dir
		plan.Container = p.ContainerName(slot.Number)
	}

	cfgMounts, err := mount.ParseAll(cfg.Mounts)
	if err != nil {
		return nil, fmt.Errorf("config mounts: %w", err)
	}
	fileMounts, err := mount.ParseFile(p.MountFilePath())
	if err != nil {
		return nil, err
	}
	flagMounts, err := mount.ParseAll(cliMounts)
	if err != nil {
		return nil, err
	}
	userMounts := mount.Merge(cfgMounts, fileMounts, flagMounts)

	validator, err := mount.NewValidator(cfg.BlockedPaths)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(mount.Mount{Host: p.Path, Container: docker.Workdir}); err != nil {
		return nil, err
	}
	if err := validator.ValidateAll(userMounts); err != nil {
		return nil, err
	}
	plan.Mounts = mount.Merge(plan.DefaultMounts(), userMounts)

	allowlist, err := network.LoadAllowlist(p.AllowlistPath())
	if err != nil {
		return nil, err
	}
	specs := append(append([]string{}, cfg.Networks...), allowlist...)
	plan.Network = network.Parse(specs)

	return plan, nil
}

// buildContext returns the configured docker build context, defaulting to
// <home>/docker.
func buildContext() (string, error) {
	dir := cfg.Docker.BuildContext
	if dir == "" {
		dir = filepath.Join(cfg.Home, "docker")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("build context %s does not exist; set docker.build_context", dir)
	}
	return dir, nil
}

// removeContainer stops a slot's container if a runtime is available.
func removeContainer(ctx context.Context, rt docker.Runtime, name string) error {
	err := rt.Remove(ctx, name)
	if errors.Is(err, docker.ErrRuntimeUnavailable) {
		logging.FromContext(ctx).Debug("skipping container removal", zap.String("container", name), zap.Error(err))
		return nil
	}
	return err
}

// checkDrift logs and reports a counter that disagrees with the slot
// directories on disk.
func checkDrift(ctx context.Context, p *project.Project) (counter, dirs int, drifted bool) {
	log := logging.FromContext(ctx)
	counter, dirs, err := p.CheckDrift()
	if err != nil {
		log.Warn("drift check failed", zap.String("project", p.Path), zap.Error(err))
		return counter, dirs, false
	}
	if counter != dirs {
		log.Warn("slot counter drift", zap.String("project", p.Path), zap.Int("counter", counter), zap.Int("dirs", dirs))
		return counter, dirs, true
	}
	return counter, dirs, false
}
