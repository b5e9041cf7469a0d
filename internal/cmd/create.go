package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/logging"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Allocate a new slot",
	Long: `Allocate the lowest free slot number for the project and create its
directory. Each slot backs one container.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	p, err := openProject()
	if err != nil {
		return err
	}

	slot, err := p.CreateSlot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	log.Info("slot created", zap.String("project", p.Path), zap.Int("slot", slot.Number), zap.String("token", slot.Token))

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created slot %d (%s)\n", slot.Number, p.ContainerName(slot.Number))
	return nil
}
