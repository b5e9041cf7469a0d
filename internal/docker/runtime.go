package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/logging"
)

// ErrRuntimeUnavailable is returned when the docker binary cannot be found.
var ErrRuntimeUnavailable = errors.New("container runtime not available")

// Runtime builds images and runs containers for a Plan.
type Runtime interface {
	Build(ctx context.Context, plan *Plan, contextDir string) error
	Run(ctx context.Context, plan *Plan, command []string) error
	Remove(ctx context.Context, container string) error
}

// NewRuntime returns a CLI runtime for binary, or a StubRuntime when the
// binary is not on PATH. Commands are logged through the context logger.
func NewRuntime(ctx context.Context, binary string) Runtime {
	if binary == "" {
		binary = "docker"
	}
	logger := logging.FromContext(ctx)
	path, err := exec.LookPath(binary)
	if err != nil {
		logger.Debug("container runtime not found", zap.String("binary", binary), zap.Error(err))
		return &StubRuntime{Binary: binary}
	}
	return &CLI{
		Binary: path,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// CLI drives a docker-compatible binary through os/exec.
type CLI struct {
	Binary string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

func (c *CLI) Build(ctx context.Context, plan *Plan, contextDir string) error {
	return c.exec(ctx, BuildArgs(plan, contextDir))
}

func (c *CLI) Run(ctx context.Context, plan *Plan, command []string) error {
	return c.exec(ctx, RunArgs(plan, command))
}

// Remove force-removes a container. A container that does not exist is not
// an error.
func (c *CLI) Remove(ctx context.Context, container string) error {
	cmd := exec.CommandContext(ctx, c.Binary, "rm", "-f", container)
	c.logger().Debug("docker", zap.Strings("args", cmd.Args))

	output, err := cmd.CombinedOutput()
	if err != nil {
		if bytes.Contains(output, []byte("No such container")) {
			return nil
		}
		return fmt.Errorf("failed to remove container %s: %w: %s", container, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (c *CLI) exec(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	c.logger().Debug("docker", zap.Strings("args", cmd.Args))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker %s failed: %w", args[0], err)
	}
	return nil
}

func (c *CLI) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// StubRuntime stands in when no container runtime is installed.
type StubRuntime struct {
	Binary string
}

func (s *StubRuntime) Build(ctx context.Context, plan *Plan, contextDir string) error {
	return s.unavailable()
}

func (s *StubRuntime) Run(ctx context.Context, plan *Plan, command []string) error {
	return s.unavailable()
}

func (s *StubRuntime) Remove(ctx context.Context, container string) error {
	return s.unavailable()
}

func (s *StubRuntime) unavailable() error {
	return fmt.Errorf("%q not found on PATH: %w", s.Binary, ErrRuntimeUnavailable)
}
