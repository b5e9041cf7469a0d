package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/logging"
	"github.com/claudebox-dev/claudebox/internal/profile"
)

var removeCmd = &cobra.Command{
	Use:   "remove <profile>...",
	Short: "Remove profiles from the project",
	Long: `Remove profiles from the project's profiles.ini. Version pins are kept,
so adding the profile back restores its version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	p, err := openProject()
	if err != nil {
		return err
	}

	remaining, err := profile.NewStore(p).Remove(cmd.Context(), args)
	if err != nil {
		return err
	}
	log.Info("profiles removed", zap.String("project", p.Path), zap.Strings("removed", args))

	if len(remaining) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No profiles remaining.")
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Remaining profiles: %s\n", strings.Join(remaining, " "))
	return nil
}
