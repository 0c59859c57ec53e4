package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/experiment"
	"github.com/fliptech/ftab/internal/store"
)

func init() {
	rootCmd.AddCommand(newAssignCmd())
}

func newAssignCmd() *cobra.Command {
	var (
		userID string
		host   string
	)

	cmd := &cobra.Command{
		Use:   "assign <experiment>",
		Short: "Show the variant a visitor is assigned",
		Long: `Show the variant assigned in an experiment.

Without --user the local visitor profile is used (its id is created on
first use) and the profile's overrides apply. With --user the raw
bucketing for that id is shown and overrides are ignored.

Examples:
  ftab assign hero_section
  ftab assign hero_section --user user_123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			experimentID := args[0]

			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			var variant string
			uid := userID
			if uid != "" {
				variant = experiment.NewEngine(core.Registry, nil, nil).Assign(experimentID, uid)
			} else {
				err = withStore(func(s *store.SQLiteStore) error {
					client := localClient(core, s, host, nil)
					uid = client.UserID()
					variant = client.Engine().Assign(experimentID, uid)
					return nil
				})
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Experiment: %s\n", experimentID)
			fmt.Fprintf(out, "User:       %s\n", uid)
			fmt.Fprintf(out, "Bucket:     %d\n", experiment.Bucket(experimentID, uid))
			fmt.Fprintf(out, "Variant:    %s\n", variant)

			if exp, ok := core.Registry.Get(experimentID); !ok {
				fmt.Fprintln(out, "\nNote: unknown experiment, everyone sees control.")
			} else if !exp.Active {
				fmt.Fprintln(out, "\nNote: experiment is inactive, everyone sees control.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "visitor id to bucket (skips the local profile)")
	cmd.Flags().StringVar(&host, "host", "", "hostname of the simulated page load")
	return cmd
}
