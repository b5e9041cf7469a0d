package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/docker"
	"github.com/claudebox-dev/claudebox/internal/logging"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the project image",
	Long: `Build the project's image from the configured build context
(docker.build_context, default ~/.claudebox/docker). Enabled profiles are
passed as the PROFILES build argument and pinned versions as <NAME>_VERSION.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	p, err := openProject()
	if err != nil {
		return err
	}

	plan, err := buildPlan(p, nil, nil)
	if err != nil {
		return err
	}
	if len(plan.Profiles) == 0 {
		return fmt.Errorf("no profiles configured; add one with 'claudebox add <profile>'")
	}

	contextDir, err := buildContext()
	if err != nil {
		return err
	}

	rt := docker.NewRuntime(cmd.Context(), cfg.Docker.Binary)
	log.Info("building image", zap.String("image", plan.Image), zap.Strings("profiles", plan.Profiles))
	if err := rt.Build(cmd.Context(), plan, contextDir); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Built image %s\n", plan.Image)
	return nil
}
