package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the project's slots",
	Args:  cobra.NoArgs,
	RunE:  runSlots,
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}

func runSlots(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	slots, err := p.Slots()
	if err != nil {
		return fmt.Errorf("failed to list slots: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(slots) == 0 {
		_, _ = fmt.Fprintln(out, "No slots.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "SLOT\tCONTAINER\tCREATED")
		_, _ = fmt.Fprintln(w, "----\t---------\t-------")

		for _, slot := range slots {
			number, container, created := "?", "-", "-"
			if slot.Number > 0 {
				number = fmt.Sprint(slot.Number)
				container = p.ContainerName(slot.Number)
			}
			if !slot.CreatedAt.IsZero() {
				created = slot.CreatedAt.Format("2006-01-02 15:04:05")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", number, container, created)
		}
		_ = w.Flush()
	}

	if counter, dirs, drifted := checkDrift(cmd.Context(), p); drifted {
		_, _ = fmt.Fprintf(out, "Warning: slot counter is %d but %d slot directories exist. Run 'claudebox prune' to fix.\n", counter, dirs)
	}
	return nil
}
