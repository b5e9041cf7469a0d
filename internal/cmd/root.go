package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/config"
	"github.com/claudebox-dev/claudebox/internal/logging"
)

var (
	cfgFile    string
	debug      bool
	projectDir string

	cfg    *config.Config
	logger = zap.NewNop()
)

// Debug logs a formatted message at debug level; with --debug it is echoed
// to stderr.
func Debug(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

var rootCmd = &cobra.Command{
	Use:   "claudebox",
	Short: "claudebox - per-project development containers",
	Long: `claudebox manages isolated development containers for each project,
configured with language profiles, pinned versions and custom mounts.

Configure a project:
  claudebox add rust python:3.12
  claudebox remove python

Manage slots (one container each):
  claudebox create
  claudebox slots
  claudebox kill 2
  claudebox prune

Build and run:
  claudebox build
  claudebox run -m ~/data:/data:ro -- bash`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// ExecuteContext adds all child commands to the root command and runs it with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.claudebox/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "p", "", "project directory (default: current directory)")
}

// setup loads the configuration and builds the logger before any
// subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := loaded.EnsureHome(); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", loaded.Home, err)
	}

	l, err := logging.New(logging.Config{
		Level:      loaded.Log.Level,
		File:       loaded.LogFile(),
		MaxSizeMB:  loaded.Log.MaxSizeMB,
		MaxBackups: loaded.Log.MaxBackups,
		Debug:      debug,
		Console:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	cfg = loaded
	logger = l.With(zap.String("command", cmd.Name()))
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	Debug("loaded config: home=%s hash_width=%d lock_timeout=%s", cfg.Home, cfg.Identity.HashWidth, cfg.LockTimeout)
	return nil
}
