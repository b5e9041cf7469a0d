package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/claudebox-dev/claudebox/internal/mount"
	"github.com/claudebox-dev/claudebox/internal/network"
)

func testPlan() *Plan {
	p := &Plan{
		ProjectPath: "/home/dev/app",
		Slot:        2,
		SlotDir:     "/state/projects/app_1234abcd/9f00aa11",
		Image:       "claudebox-app-1234abcd",
		Container:   "claudebox-app-9f00aa11",
		Profiles:    []string{"core", "build-tools", "rust"},
		Versions:    map[string]string{"rust": "1.79", "build-tools": "2"},
	}
	p.Mounts = append(p.DefaultMounts(), mount.Mount{Host: "/data", Container: "/data", Mode: mount.ModeRO})
	return p
}

func TestBuildArgs(t *testing.T) {
	got := BuildArgs(testPlan(), "/ctx")

	assert.Equal(t, []string{
		"build",
		"-t", "claudebox-app-1234abcd",
		"--label", "dev.claudebox.project=/home/dev/app",
		"--build-arg", "PROFILES=core build-tools rust",
		"--build-arg", "BUILD_TOOLS_VERSION=2",
		"--build-arg", "RUST_VERSION=1.79",
		"/ctx",
	}, got)
}

func TestRunArgs(t *testing.T) {
	tests := []struct {
		name    string
		policy  *network.Policy
		tty     bool
		command []string
		want    []string
		absent  []string
	}{
		{
			name:    "open network with command",
			policy:  network.Parse([]string{"all"}),
			command: []string{"bash", "-lc", "make"},
			want:    []string{"-e", "CLAUDEBOX_NETWORK=all", "claudebox-app-1234abcd", "bash", "-lc", "make"},
			absent:  []string{"--network", "--cap-add", "-t"},
		},
		{
			name:   "blocked network",
			policy: network.Parse([]string{"none"}),
			tty:    true,
			want:   []string{"-t", "--network", "none", "CLAUDEBOX_NETWORK=none"},
			absent: []string{"--cap-add"},
		},
		{
			name:   "restricted network",
			policy: network.Parse([]string{"pypi"}),
			want:   []string{"--cap-add", "NET_ADMIN", "CLAUDEBOX_NETWORK=restricted", "CLAUDEBOX_ALLOWED_DOMAINS=files.pythonhosted.org,pypi.org"},
			absent: []string{"--network"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := testPlan()
			plan.Network = tt.policy
			plan.TTY = tt.tty

			got := RunArgs(plan, tt.command)

			assert.Equal(t, []string{"run", "--rm", "-i"}, got[:3])
			assert.Subset(t, got, []string{
				"--name", "claudebox-app-9f00aa11",
				"dev.claudebox.slot=2",
				"-w", Workdir,
				"/home/dev/app:/workspace",
				"/state/projects/app_1234abcd/9f00aa11:/home/claude",
				"/data:/data:ro",
				"CLAUDEBOX_SLOT=2",
			})
			assert.Subset(t, got, tt.want)
			for _, a := range tt.absent {
				assert.NotContains(t, got, a)
			}
			if len(tt.command) > 0 {
				assert.Equal(t, tt.command, got[len(got)-len(tt.command):])
			} else {
				assert.Equal(t, "claudebox-app-1234abcd", got[len(got)-1])
			}
		})
	}
}

func TestRunArgs_NilPolicyIsOpen(t *testing.T) {
	got := RunArgs(testPlan(), nil)
	assert.Contains(t, got, "CLAUDEBOX_NETWORK=all")
	assert.NotContains(t, got, "--network")
}

func TestVersionArg(t *testing.T) {
	tests := map[string]string{
		"node":        "NODE_VERSION",
		"build-tools": "BUILD_TOOLS_VERSION",
		"python3.12":  "PYTHON3_12_VERSION",
	}
	for in, want := range tests {
		assert.Equal(t, want, VersionArg(in), in)
	}
}
