package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claudebox-dev/claudebox/internal/project"
)

var (
	infoSlot   int
	infoMounts []string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the project's identity and resolved configuration",
	Long: `Show where the project's state lives and what a container would get:
profiles, pinned versions, merged mounts and the network policy.`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().IntVar(&infoSlot, "slot", 0, "show the plan for this slot")
	infoCmd.Flags().StringArrayVarP(&infoMounts, "mount", "m", []string{}, "additional mount host:container[:ro|rw] (repeatable)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	var slot *project.Slot
	if infoSlot > 0 {
		if slot, err = p.GetSlot(infoSlot); err != nil {
			return err
		}
	}

	plan, err := buildPlan(p, slot, infoMounts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Project:   %s\n", p.Path)
	_, _ = fmt.Fprintf(out, "Token:     %s\n", p.Token)
	_, _ = fmt.Fprintf(out, "State:     %s\n", p.Dir)
	_, _ = fmt.Fprintf(out, "Image:     %s\n", plan.Image)
	_, _ = fmt.Fprintf(out, "Slots:     %d\n", p.Counter())
	if slot != nil {
		_, _ = fmt.Fprintf(out, "Container: %s\n", plan.Container)
	}

	profiles := "(none)"
	if len(plan.Profiles) > 0 {
		profiles = strings.Join(plan.Profiles, " ")
	}
	_, _ = fmt.Fprintf(out, "Profiles:  %s\n", profiles)

	if len(plan.Versions) > 0 {
		names := make([]string, 0, len(plan.Versions))
		for name := range plan.Versions {
			names = append(names, name)
		}
		sort.Strings(names)
		_, _ = fmt.Fprintln(out, "Versions:")
		for _, name := range names {
			_, _ = fmt.Fprintf(out, "  %s=%s\n", name, plan.Versions[name])
		}
	}

	_, _ = fmt.Fprintln(out, "Mounts:")
	for _, m := range plan.Mounts {
		_, _ = fmt.Fprintf(out, "  %s\n", m)
	}

	_, _ = fmt.Fprintln(out, "Network:")
	for _, env := range plan.Network.Env() {
		_, _ = fmt.Fprintf(out, "  %s\n", env)
	}
	return nil
}
