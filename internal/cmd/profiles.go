package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/claudebox-dev/claudebox/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List available and enabled profiles",
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	store := profile.NewStore(p)
	enabled, err := store.Profiles()
	if err != nil {
		return err
	}
	versions := store.Versions()

	active := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		active[name] = true
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tPROFILE\tVERSION\tDESCRIPTION")
	for _, name := range profile.KnownNames() {
		mark := " "
		if active[name] {
			mark = "*"
		}
		version := versions[name]
		if version == "" {
			version = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, name, version, profile.Known[name])
	}
	return w.Flush()
}
