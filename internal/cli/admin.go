package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/store"
)

var adminCmd = &cobra.Command{
	Use:       "admin <on|off>",
	Short:     "Toggle admin mode for the local visitor profile",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runAdmin,
}

func init() {
	rootCmd.AddCommand(adminCmd)
}

func runAdmin(cmd *cobra.Command, args []string) error {
	var on bool
	switch args[0] {
	case "on":
		on = true
	case "off":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	core, err := loadCore(zap.NewNop(), nil)
	if err != nil {
		return err
	}

	return withStore(func(s *store.SQLiteStore) error {
		engine := localClient(core, s, "", nil).Engine()
		if err := engine.SetAdminMode(on); err != nil {
			return fmt.Errorf("failed to set admin mode: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin mode: %s\n", args[0])
		return nil
	})
}
