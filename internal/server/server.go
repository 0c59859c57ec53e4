package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/domain"
	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/site"
)

// SinkProvider returns the analytics sink for a resolved domain. Each
// domain reports to its own analytics property.
type SinkProvider func(cfg domain.DomainConfig) env.Sink

type Server struct {
	core       *site.Core
	sinkFor    SinkProvider
	port       int
	token      string
	tokenFile  string
	router     *http.ServeMux
	httpServer *http.Server
	logger     *zap.Logger
	startTime  time.Time
}

type Option func(*Server)

func WithSinks(p SinkProvider) Option {
	return func(s *Server) { s.sinkFor = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithToken fixes the admin token instead of generating one.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

func New(core *site.Core, port int, tokenFile string, opts ...Option) *Server {
	srv := &Server{
		core:      core,
		sinkFor:   func(domain.DomainConfig) env.Sink { return nil },
		port:      port,
		token:     generateToken(),
		tokenFile: tokenFile,
		router:    http.NewServeMux(),
		logger:    zap.NewNop(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.setupRoutes()
	return srv
}

func (s *Server) setupRoutes() {
	// Public endpoints
	s.router.HandleFunc("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.HandleFunc("/ft.js", s.handleGlobalJS)
	s.router.Handle("/api/assign", cors(s.visitor(s.handleAssign)))
	s.router.Handle("/api/domain", cors(s.visitor(s.handleDomain)))
	s.router.Handle("/api/content", cors(s.visitor(s.handleContent)))
	s.router.Handle("/api/convert", cors(s.visitor(s.handleConvert)))
	s.router.Handle("/api/track", cors(s.visitor(s.handleTrack)))

	// Admin debug surface (protected)
	s.router.Handle("/admin", s.authMiddleware(s.visitor(s.handleAdmin)))
	s.router.Handle("/admin/overrides", s.authMiddleware(s.visitor(s.handleOverrides)))
	s.router.Handle("/admin/mode", s.authMiddleware(s.visitor(s.handleAdminMode)))
	s.router.Handle("/admin/identity/reset", s.authMiddleware(s.visitor(s.handleIdentityReset)))
}

func (s *Server) Start() error {
	return s.StartWithOptions(true)
}

// StartQuiet starts the server without printing startup messages
func (s *Server) StartQuiet() error {
	return s.StartWithOptions(false)
}

func (s *Server) StartWithOptions(printMessages bool) error {
	// Write token to file for OTP command
	if s.tokenFile != "" {
		if err := os.WriteFile(s.tokenFile, []byte(s.token), 0600); err != nil {
			s.logger.Warn("failed to write token file", zap.String("path", s.tokenFile), zap.Error(err))
		}
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if printMessages {
		fmt.Println()
		fmt.Printf("ftab running on http://localhost:%d\n", s.port)
		fmt.Printf("Admin: http://localhost:%d/admin?token=%s\n", s.port, s.token)
		fmt.Println()
		fmt.Println("Press Ctrl+C to stop")
	}

	s.logger.Info("server listening", zap.Int("port", s.port))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.tokenFile != "" {
		_ = os.Remove(s.tokenFile)
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) StartTime() time.Time {
	return s.startTime
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func generateToken() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple token if crypto/rand fails
		return "a1b2c3d4"
	}
	return hex.EncodeToString(bytes)
}
