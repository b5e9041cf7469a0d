package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/docker"
	"github.com/claudebox-dev/claudebox/internal/logging"
)

var killCmd = &cobra.Command{
	Use:   "kill <slot>",
	Short: "Remove a slot",
	Long: `Remove a slot's container (if one is running) and its directory, and
decrement the project's slot counter.`,
	Args: cobra.ExactArgs(1),
	RunE: runKill,
}

func init() {
	rootCmd.AddCommand(killCmd)
}

func runKill(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid slot number %q", args[0])
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	if _, err := p.GetSlot(n); err != nil {
		return err
	}

	rt := docker.NewRuntime(cmd.Context(), cfg.Docker.Binary)
	if err := removeContainer(cmd.Context(), rt, p.ContainerName(n)); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	if err := p.DeleteSlot(cmd.Context(), n); err != nil {
		return err
	}
	log.Info("slot removed", zap.String("project", p.Path), zap.Int("slot", n))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed slot %d.\n", n)
	return nil
}
