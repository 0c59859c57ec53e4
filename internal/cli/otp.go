package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fliptech/ftab/internal/store"
)

var otpCmd = &cobra.Command{
	Use:   "otp",
	Short: "Show admin URL with access token",
	Long: `Show the admin URL with the current access token (for when you've scrolled past it).

Example:
  ftab otp`,
	RunE: runOTP,
}

func init() {
	rootCmd.AddCommand(otpCmd)
}

func runOTP(cmd *cobra.Command, args []string) error {
	tokenFile := getTokenFilePath()

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no server running (token file not found)\nStart the server with: ftab serve")
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	token := string(data)
	if token == "" {
		return fmt.Errorf("token file is empty. Restart the server with: ftab serve")
	}

	// Try to get the server URL from settings
	serverURL := "http://localhost:8080"
	_ = withStore(func(s *store.SQLiteStore) error {
		if url, err := s.GetSetting(context.Background(), serverURLSetting); err == nil && url != "" {
			serverURL = url
		}
		return nil
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Admin: %s/admin?token=%s\n", serverURL, token)
	return nil
}
