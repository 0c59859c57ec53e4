package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	profile    string
	logLevel   string
	endpoint   string
	apiSecret  string
)

var rootCmd = &cobra.Command{
	Use:   "ftab",
	Short: "ftab - experiments, domain content and analytics for the FlipTech Pro sites",
	Long: `ftab assigns visitors to A/B test variants, resolves per-domain branding and
content, and emits analytics events for both.

Running without a subcommand starts the server (same as 'ftab serve').`,
	SilenceUsage: true,
	RunE:         runServe, // Default action is to start server
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("FTAB_DB_PATH", "./ftab.db"), "database path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnvOrDefault("FTAB_CONFIG", ""), "catalog YAML (defaults to the built-in catalog)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", getEnvOrDefault("FTAB_PROFILE", "default"), "local visitor profile")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", getEnvOrDefault("FTAB_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "analytics-endpoint", getEnvOrDefault("FTAB_ANALYTICS_ENDPOINT", ""), "analytics collection URL (events are logged when empty)")
	rootCmd.PersistentFlags().StringVar(&apiSecret, "api-secret", getEnvOrDefault("FTAB_API_SECRET", ""), "analytics API secret")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
