package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/claudebox-dev/claudebox/internal/docker"
	"github.com/claudebox-dev/claudebox/internal/logging"
	"github.com/claudebox-dev/claudebox/internal/project"
)

var (
	runSlot   int
	runMounts []string
)

var runCmd = &cobra.Command{
	Use:   "run [--slot N] [-m host:container[:ro|rw]]... [-- command...]",
	Short: "Run a container for a project slot",
	Long: `Run the project image in a slot's container.

Without --slot the lowest existing slot is used, and a slot is created when
the project has none. Mounts from the user config, the project's
.claudebox.yml and -m flags are merged; later sources win for the same
container path.

Examples:
  claudebox run
  claudebox run --slot 2 -- bash
  claudebox run -m ~/datasets:/data:ro -- python train.py`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runSlot, "slot", 0, "slot number to run in (default: lowest existing)")
	runCmd.Flags().StringArrayVarP(&runMounts, "mount", "m", []string{}, "additional mount host:container[:ro|rw] (repeatable)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	p, err := openProject()
	if err != nil {
		return err
	}

	slot, err := resolveSlot(cmd, p)
	if err != nil {
		return err
	}

	plan, err := buildPlan(p, slot, runMounts)
	if err != nil {
		return err
	}
	plan.TTY = term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	rt := docker.NewRuntime(cmd.Context(), cfg.Docker.Binary)
	log.Info("running container",
		zap.String("container", plan.Container),
		zap.Int("slot", plan.Slot),
		zap.Int("mounts", len(plan.Mounts)),
		zap.Strings("command", args),
	)
	return rt.Run(cmd.Context(), plan, args)
}

// resolveSlot returns --slot, the lowest existing slot, or a new one.
func resolveSlot(cmd *cobra.Command, p *project.Project) (*project.Slot, error) {
	if runSlot > 0 {
		return p.GetSlot(runSlot)
	}

	slots, err := p.Slots()
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	for _, slot := range slots {
		if slot.Number > 0 {
			return slot, nil
		}
	}

	slot, err := p.CreateSlot(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Created slot %d\n", slot.Number)
	return slot, nil
}
