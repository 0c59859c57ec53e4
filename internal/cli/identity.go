package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/store"
)

func init() {
	identityCmd := &cobra.Command{
		Use:   "identity",
		Short: "Inspect or reset the local visitor identity",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the visitor id and stored keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			return withStore(func(s *store.SQLiteStore) error {
				client := localClient(core, s, "", nil)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Profile: %s\n", profile)
				fmt.Fprintf(out, "User ID: %s\n", client.UserID())

				entries, err := s.List(context.Background(), profile)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				for _, e := range entries {
					fmt.Fprintf(out, "  %s = %s (%s)\n", e.Key, e.Value, e.UpdatedAt.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}

	var all bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the visitor id",
		Long: `Forget the visitor id so the next command sees a new visitor. With --all
every stored key of the profile (overrides, admin mode) is cleared too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore(zap.NewNop(), nil)
			if err != nil {
				return err
			}

			return withStore(func(s *store.SQLiteStore) error {
				if all {
					if err := store.NewNamespace(s, profile).Clear(); err != nil {
						return fmt.Errorf("failed to clear profile: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Cleared profile %s\n", profile)
					return nil
				}
				if err := localClient(core, s, "", nil).ResetIdentity(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from profile %s\n", env.UserIDKey, profile)
				return nil
			})
		},
	}
	resetCmd.Flags().BoolVar(&all, "all", false, "also clear overrides and admin mode")

	identityCmd.AddCommand(showCmd, resetCmd)
	rootCmd.AddCommand(identityCmd)
}
