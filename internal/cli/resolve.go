package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(newResolveCmd())
}

func newResolveCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <hostname>",
		Short: "Show the domain config served for a hostname",
		Long: `Show the branding, audience, analytics property and content served for a
hostname. Unknown hostnames get the default domain.

Examples:
  ftab resolve fliptech.pro
  ftab resolve localhost --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			cfg := core.Resolver.Resolve(args[0])
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			if cfg.Domain != args[0] {
				fmt.Fprintf(out, "# %s is not configured; serving default %s\n", args[0], cfg.Domain)
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}
