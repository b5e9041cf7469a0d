package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/logging"
	"github.com/claudebox-dev/claudebox/internal/profile"
)

var addCmd = &cobra.Command{
	Use:   "add <profile[:version]>...",
	Short: "Add profiles to the project",
	Long: `Add language profiles to the project's profiles.ini.

Composite profiles pull in their base profiles (rust adds core and rust).
A version may be pinned with name:version.

Examples:
  claudebox add rust
  claudebox add python:3.12 javascript`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	p, err := openProject()
	if err != nil {
		return err
	}

	store := profile.NewStore(p)
	added, err := store.Add(cmd.Context(), args)
	if err != nil {
		return err
	}
	log.Info("profiles added", zap.String("project", p.Path), zap.Strings("profiles", added))

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Added profiles: %s\n", strings.Join(added, " "))
	for _, raw := range args {
		spec, _ := profile.ParseSpec(raw)
		if spec.Version != "" {
			_, _ = fmt.Fprintf(out, "Pinned %s=%s\n", spec.Name, spec.Version)
		}
	}
	return nil
}
