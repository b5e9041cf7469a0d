// Package docker turns a project's resolved configuration into docker build
// and run invocations.
package docker

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/claudebox-dev/claudebox/internal/mount"
	"github.com/claudebox-dev/claudebox/internal/network"
)

const (
	// Workdir is where the project directory is mounted in the container.
	Workdir = "/workspace"
	// SlotHome is where the slot directory is mounted; it holds the agent's
	// per-container state.
	SlotHome = "/home/claude"

	LabelProject = "dev.claudebox.project"
	LabelSlot    = "dev.claudebox.slot"
)

var buildArgUnsafe = regexp.MustCompile(`[^A-Z0-9]+`)

// Plan is everything the runtime needs to build the project image and run
// one slot's container.
type Plan struct {
	ProjectPath string
	Slot        int
	SlotDir     string
	Image       string
	Container   string
	Profiles    []string          // expanded, in profiles.ini order
	Versions    map[string]string // profile -> pinned version
	Mounts      []mount.Mount     // merged, validated
	Network     *network.Policy
	TTY         bool
}

// DefaultMounts returns the mounts every container gets: the project at
// Workdir and, once a slot is bound, the slot directory at SlotHome.
func (p *Plan) DefaultMounts() []mount.Mount {
	mounts := []mount.Mount{{Host: p.ProjectPath, Container: Workdir, Mode: mount.ModeRW}}
	if p.SlotDir != "" {
		mounts = append(mounts, mount.Mount{Host: p.SlotDir, Container: SlotHome, Mode: mount.ModeRW})
	}
	return mounts
}

// BuildArgs returns the docker arguments building the project image from
// contextDir.
func BuildArgs(p *Plan, contextDir string) []string {
	args := []string{
		"build",
		"-t", p.Image,
		"--label", LabelProject + "=" + p.ProjectPath,
		"--build-arg", "PROFILES=" + strings.Join(p.Profiles, " "),
	}

	names := make([]string, 0, len(p.Versions))
	for name := range p.Versions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "--build-arg", VersionArg(name)+"="+p.Versions[name])
	}

	return append(args, contextDir)
}

// RunArgs returns the docker arguments running command in the slot's
// container. An empty command runs the image's default entrypoint.
func RunArgs(p *Plan, command []string) []string {
	args := []string{"run", "--rm", "-i"}
	if p.TTY {
		args = append(args, "-t")
	}
	args = append(args,
		"--name", p.Container,
		"--hostname", p.Container,
		"--label", LabelProject+"="+p.ProjectPath,
		"--label", LabelSlot+"="+strconv.Itoa(p.Slot),
		"-w", Workdir,
	)

	for _, m := range p.Mounts {
		args = append(args, "-v", volumeArg(m))
	}

	switch {
	case p.Network.Open():
	case p.Network.Blocked():
		args = append(args, "--network", "none")
	default:
		// The entrypoint installs the firewall rules.
		args = append(args, "--cap-add", "NET_ADMIN", "--cap-add", "NET_RAW")
	}

	for _, env := range p.Network.Env() {
		args = append(args, "-e", env)
	}
	args = append(args, "-e", "CLAUDEBOX_SLOT="+strconv.Itoa(p.Slot))

	args = append(args, p.Image)
	return append(args, command...)
}

// VersionArg names the build argument pinning profile's version:
// "node" -> NODE_VERSION, "build-tools" -> BUILD_TOOLS_VERSION.
func VersionArg(profile string) string {
	name := buildArgUnsafe.ReplaceAllString(strings.ToUpper(profile), "_")
	return strings.Trim(name, "_") + "_VERSION"
}

func volumeArg(m mount.Mount) string {
	v := m.Host + ":" + m.Container
	if m.ReadOnly() {
		v += ":ro"
	}
	return v
}
