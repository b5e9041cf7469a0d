package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/docker"
	"github.com/claudebox-dev/claudebox/internal/logging"
)

var pruneAll bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Reconcile the slot counter",
	Long: `Recount the project's slot directories and rewrite the slot counter to
match. Use --all to remove every slot first.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().BoolVarP(&pruneAll, "all", "a", false, "remove all slots and their containers")
}

func runPrune(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	p, err := openProject()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if pruneAll {
		slots, err := p.Slots()
		if err != nil {
			return fmt.Errorf("failed to list slots: %w", err)
		}

		rt := docker.NewRuntime(cmd.Context(), cfg.Docker.Binary)
		removedCount := 0
		for _, slot := range slots {
			if slot.Number < 1 {
				_, _ = fmt.Fprintf(out, "Warning: skipping slot directory %s with unknown number\n", slot.Dir)
				continue
			}
			if err := removeContainer(cmd.Context(), rt, p.ContainerName(slot.Number)); err != nil {
				_, _ = fmt.Fprintf(out, "Warning: %v\n", err)
			}
			if err := p.DeleteSlot(cmd.Context(), slot.Number); err != nil {
				_, _ = fmt.Fprintf(out, "Warning: failed to remove slot %d: %v\n", slot.Number, err)
				continue
			}
			removedCount++
		}
		_, _ = fmt.Fprintf(out, "Removed %d slot(s).\n", removedCount)
	}

	before, after, err := p.Reconcile(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to reconcile slot counter: %w", err)
	}

	if before == after {
		_, _ = fmt.Fprintf(out, "Slot counter is consistent (%d).\n", after)
		return nil
	}
	log.Info("slot counter reconciled", zap.String("project", p.Path), zap.Int("before", before), zap.Int("after", after))
	_, _ = fmt.Fprintf(out, "Slot counter reconciled: %d -> %d\n", before, after)
	return nil
}
