package cli

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fliptech/ftab/internal/analytics"
	"github.com/fliptech/ftab/internal/config"
	"github.com/fliptech/ftab/internal/domain"
	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/metrics"
	"github.com/fliptech/ftab/internal/site"
	"github.com/fliptech/ftab/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

func newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// loadCore builds the shared registry and resolver from the catalog.
func loadCore(logger *zap.Logger, m *metrics.Metrics) (*site.Core, error) {
	cat, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	reg, err := cat.Registry()
	if err != nil {
		return nil, err
	}
	res, err := cat.Resolver()
	if err != nil {
		return nil, err
	}

	for _, id := range reg.Misconfigured() {
		exp, _ := reg.Get(id)
		logger.Warn("experiment weights do not sum to 100; the remainder is assigned control",
			zap.String("experiment", id),
			zap.Int("total_weight", exp.TotalWeight()))
	}

	return &site.Core{
		Registry: reg,
		Resolver: res.WithMetrics(m),
		Logger:   logger,
		Metrics:  m,
	}, nil
}

// sinkSet holds one analytics sink per domain.
type sinkSet struct {
	byDomain map[string]env.Sink
	closers  []*analytics.HTTPSink
}

func newSinkSet(res *domain.Resolver, logger *zap.Logger, m *metrics.Metrics) *sinkSet {
	set := &sinkSet{byDomain: make(map[string]env.Sink)}
	if endpoint == "" {
		for _, d := range res.Domains() {
			set.byDomain[d] = analytics.LogSink{Logger: logger.With(zap.String("domain", d))}
		}
		return set
	}

	base := analytics.NewHTTPSink(endpoint, "", apiSecret,
		analytics.WithSinkLogger(logger),
		analytics.WithSinkMetrics(m))
	for _, d := range res.Domains() {
		sink := base.ForMeasurement(res.Resolve(d).Analytics.MeasurementID)
		set.byDomain[d] = sink
		set.closers = append(set.closers, sink)
	}
	return set
}

func (s *sinkSet) For(cfg domain.DomainConfig) env.Sink {
	return s.byDomain[cfg.Domain]
}

// Close waits for in-flight deliveries.
func (s *sinkSet) Close() {
	for _, c := range s.closers {
		c.Close()
	}
}

// localClient binds the core to the CLI's persisted visitor profile.
func localClient(core *site.Core, s *store.SQLiteStore, hostname string, sink env.Sink) *site.Client {
	return core.NewClient(env.Environment{
		Storage:  store.NewNamespace(s, profile),
		Hostname: env.StaticHostname(hostname),
		Sink:     sink,
	})
}

var (
	metricsOnce   sync.Once
	globalMetrics *metrics.Metrics
)

// processMetrics registers the metrics on the default registry once per process.
func processMetrics() *metrics.Metrics {
	metricsOnce.Do(func() {
		globalMetrics = metrics.New(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}
