package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/claudebox-dev/claudebox/internal/logging"
	"github.com/claudebox-dev/claudebox/internal/network"
)

var allowCmd = &cobra.Command{
	Use:   "allow <domain|preset|*.domain>...",
	Short: "Allow network access to more domains",
	Long: `Append domains, presets or wildcards to the project's allowlist. They are
added to the networks from the user configuration when a container runs.

Examples:
  claudebox allow golang
  claudebox allow internal.example.com "*.corp.example.com"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAllow,
}

func init() {
	rootCmd.AddCommand(allowCmd)
}

func runAllow(cmd *cobra.Command, args []string) error {
	log := logging.FromContext(cmd.Context())

	for _, spec := range args {
		if network.IsZoneSpec(spec) {
			if _, err := network.ParseZone(spec); err != nil {
				return err
			}
		}
	}

	p, err := openProject()
	if err != nil {
		return err
	}

	err = p.WithLock(cmd.Context(), func() error {
		return network.AppendAllowlist(p.AllowlistPath(), args)
	})
	if err != nil {
		return err
	}
	log.Info("allowlist updated", zap.String("project", p.Path), zap.Strings("specs", args))

	specs, err := network.LoadAllowlist(p.AllowlistPath())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Allowlist entries: %d\n", len(specs))
	return nil
}
