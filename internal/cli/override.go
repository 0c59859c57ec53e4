package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/experiment"
	"github.com/fliptech/ftab/internal/store"
)

func init() {
	overrideCmd := &cobra.Command{
		Use:   "override",
		Short: "Force variants for the local visitor profile",
		Long: `Force, clear or list variant overrides for the local visitor profile.
Overrides bypass bucketing and are meant for manual QA.`,
	}
	overrideCmd.AddCommand(newOverrideSetCmd(), newOverrideClearCmd(), newOverrideListCmd())
	rootCmd.AddCommand(overrideCmd)
}

func newOverrideSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <experiment> [variant]",
		Short: "Force a variant",
		Long: `Force a variant for the local visitor profile. Without a variant argument
you are prompted to pick one.

Examples:
  ftab override set hero_section bold
  ftab override set cta_test`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			exp, ok := core.Registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown experiment: %s", args[0])
			}
			if !exp.Active {
				return fmt.Errorf("experiment %s is inactive; overrides only apply to active experiments", exp.ID)
			}

			var variant string
			if len(args) == 2 {
				variant = args[1]
			} else {
				variant, err = promptVariant(exp)
				if err != nil {
					return err
				}
			}

			if !exp.HasVariant(variant) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %q is not a declared variant of %s; it will be returned verbatim\n", variant, exp.ID)
			}

			return withStore(func(s *store.SQLiteStore) error {
				client := localClient(core, s, "", nil)
				if err := client.Engine().SetOverride(exp.ID, variant); err != nil {
					return fmt.Errorf("failed to set override: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Override set: %s -> %s (profile %s)\n", exp.ID, variant, profile)
				return nil
			})
		},
	}
}

func newOverrideClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <experiment>",
		Short: "Remove a forced variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			return withStore(func(s *store.SQLiteStore) error {
				if err := localClient(core, s, "", nil).Engine().ClearOverride(args[0]); err != nil {
					return fmt.Errorf("failed to clear override: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Override cleared: %s\n", args[0])
				return nil
			})
		},
	}
}

func newOverrideListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List forced variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			return withStore(func(s *store.SQLiteStore) error {
				overrides := localClient(core, s, "", nil).Engine().Overrides()
				out := cmd.OutOrStdout()
				if len(overrides) == 0 {
					fmt.Fprintln(out, "No overrides.")
					return nil
				}

				ids := make([]string, 0, len(overrides))
				for id := range overrides {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					fmt.Fprintf(out, "%s -> %s\n", id, overrides[id])
				}
				return nil
			})
		},
	}
}

func promptVariant(exp experiment.Experiment) (string, error) {
	items := make([]string, len(exp.Variants))
	for i, v := range exp.Variants {
		items[i] = v.ID
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("Variant for %s", exp.ID),
		Items: items,
		Size:  len(items),
	}

	_, variant, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	return variant, nil
}
