package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/server"
	"github.com/fliptech/ftab/internal/store"
)

const serverURLSetting = "server_url"

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the ftab HTTP server.

The server provides:
  - Global script at /ft.js
  - Assignment, domain and content endpoints under /api
  - Conversion and engagement tracking endpoints
  - Admin debug surface at /admin (token protected)
  - Health check and Prometheus metrics

Example:
  ftab serve --port 8080
  ftab serve --analytics-endpoint https://www.google-analytics.com/mp/collect --api-secret $SECRET`,
	RunE: runServe,
}

func init() {
	defaultPort := 8080
	if p := os.Getenv("FTAB_PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			defaultPort = parsed
		}
	}

	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", defaultPort, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	// Remember where the server runs so 'ftab otp' can print a full URL
	if err := withStore(func(s *store.SQLiteStore) error {
		return s.SetSetting(context.Background(), serverURLSetting, fmt.Sprintf("http://localhost:%d", port))
	}); err != nil {
		logger.Warn("failed to record server url", zap.Error(err))
	}

	srv := server.New(core, port, getTokenFilePath(),
		server.WithSinks(sinks.For),
		server.WithLogger(logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// getTokenFilePath returns the path to the token file
func getTokenFilePath() string {
	// Store token file alongside the database
	dir := filepath.Dir(dbPath)
	return filepath.Join(dir, ".ftab-token")
}
