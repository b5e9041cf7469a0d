package docker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/claudebox-dev/claudebox/internal/logging"
)

func TestNewRuntime_MissingBinary(t *testing.T) {
	rt := NewRuntime(context.Background(), "claudebox-no-such-docker")

	stub, ok := rt.(*StubRuntime)
	require.True(t, ok, "expected StubRuntime, got %T", rt)
	assert.Equal(t, "claudebox-no-such-docker", stub.Binary)

	err := rt.Build(context.Background(), testPlan(), "/ctx")
	assert.True(t, errors.Is(err, ErrRuntimeUnavailable))
	err = rt.Run(context.Background(), testPlan(), nil)
	assert.True(t, errors.Is(err, ErrRuntimeUnavailable))
	err = rt.Remove(context.Background(), "c")
	assert.True(t, errors.Is(err, ErrRuntimeUnavailable))
}

func TestNewRuntime_LogsThroughContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logging.WithLogger(context.Background(), zap.New(core))

	NewRuntime(ctx, "claudebox-no-such-docker")

	entries := logs.FilterMessage("container runtime not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "claudebox-no-such-docker", entries[0].ContextMap()["binary"])
}

func TestCLI_PassesArgs(t *testing.T) {
	echo, err := exec.LookPath("echo")
	if err != nil {
		t.Skip("echo not available")
	}

	var out bytes.Buffer
	cli := &CLI{Binary: echo, Stdout: &out}

	require.NoError(t, cli.Build(context.Background(), testPlan(), "/ctx"))
	assert.Equal(t, strings.Join(BuildArgs(testPlan(), "/ctx"), " ")+"\n", out.String())

	out.Reset()
	require.NoError(t, cli.Run(context.Background(), testPlan(), []string{"true"}))
	assert.True(t, strings.HasPrefix(out.String(), "run --rm -i"))
}

func TestCLI_Failure(t *testing.T) {
	falseBin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}

	cli := &CLI{Binary: falseBin}
	err = cli.Build(context.Background(), testPlan(), "/ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docker build failed")

	err = cli.Remove(context.Background(), "claudebox-app-9f00aa11")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to remove container")
}
