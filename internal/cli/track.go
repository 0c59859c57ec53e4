package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fliptech/ftab/internal/analytics"
	"github.com/fliptech/ftab/internal/store"
)

func init() {
	rootCmd.AddCommand(newTrackCmd())
}

func newTrackCmd() *cobra.Command {
	var (
		host           string
		label          string
		conversionType string
	)

	cmd := &cobra.Command{
		Use:   "track <event> [experiment] [variant]",
		Short: "Emit an analytics event as the local visitor",
		Long: `Emit one analytics event through the configured sink, as the local visitor
profile on the given host. Useful to verify the analytics property wiring.

Events:
  view <experiment>                     assign and emit ab_test_view
  convert <experiment> <variant>        emit ab_test_conversion
  domain                                resolve --host and emit domain_assignment
  cta_click|form_submit|pricing_interaction <experiment> <variant>

Examples:
  ftab track view hero_section --host fliptech.pro
  ftab track convert cta_test bold --type cta_click
  ftab track domain --host fliptech.pro`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			m := processMetrics()
			core, err := loadCore(logger, m)
			if err != nil {
				return err
			}
			sinks := newSinkSet(core.Resolver, logger, m)
			defer sinks.Close()

			event := args[0]
			arg := func(i int) (string, error) {
				if len(args) <= i {
					return "", fmt.Errorf("%s needs %d argument(s)", event, i)
				}
				return args[i], nil
			}

			return withStore(func(s *store.SQLiteStore) error {
				sink := sinks.For(core.Resolver.Resolve(host))
				client := localClient(core, s, host, sink)
				out := cmd.OutOrStdout()

				switch event {
				case "view":
					exp, err := arg(1)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s: %s -> %s\n", analytics.EventVariantView, exp, client.Variant(exp))
				case "convert":
					exp, err := arg(1)
					if err != nil {
						return err
					}
					variant, err := arg(2)
					if err != nil {
						return err
					}
					client.Convert(exp, variant, conversionType)
					fmt.Fprintf(out, "%s: %s/%s\n", analytics.EventVariantConversion, exp, variant)
				case "domain":
					cfg := client.LoadPage().Config()
					fmt.Fprintf(out, "%s: %s (%s)\n", analytics.EventDomainAssignment, cfg.Domain, cfg.Audience)
				default:
					exp, err := arg(1)
					if err != nil {
						return err
					}
					variant, err := arg(2)
					if err != nil {
						return err
					}
					if !client.Track(event, exp, variant, label) {
						return fmt.Errorf("unknown event: %s", event)
					}
					fmt.Fprintf(out, "%s: %s/%s\n", event, exp, variant)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "hostname of the simulated page load")
	cmd.Flags().StringVar(&label, "label", "", "event label for engagement events")
	cmd.Flags().StringVar(&conversionType, "type", "", "conversion type (default \"conversion\")")
	return cmd
}
