package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/metrics"
)

const defaultSendTimeout = 5 * time.Second

// collectRequest is a measurement-protocol style payload.
type collectRequest struct {
	ClientID string  `json:"client_id"`
	Events   []Event `json:"events"`
}

// HTTPSink posts events to a collection endpoint. Send returns immediately;
// delivery happens on a background goroutine with no retry.
type HTTPSink struct {
	endpoint      string
	measurementID string
	apiSecret     string
	client        *http.Client
	timeout       time.Duration
	logger        *zap.Logger
	metrics       *metrics.Metrics
	wg            sync.WaitGroup
}

type HTTPSinkOption func(*HTTPSink)

func WithHTTPClient(c *http.Client) HTTPSinkOption {
	return func(s *HTTPSink) { s.client = c }
}

func WithTimeout(d time.Duration) HTTPSinkOption {
	return func(s *HTTPSink) { s.timeout = d }
}

func WithSinkLogger(l *zap.Logger) HTTPSinkOption {
	return func(s *HTTPSink) { s.logger = l }
}

func WithSinkMetrics(m *metrics.Metrics) HTTPSinkOption {
	return func(s *HTTPSink) { s.metrics = m }
}

func NewHTTPSink(endpoint, measurementID, apiSecret string, opts ...HTTPSinkOption) *HTTPSink {
	s := &HTTPSink{
		endpoint:      endpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		client:        http.DefaultClient,
		timeout:       defaultSendTimeout,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForMeasurement returns a sink posting to the same endpoint under another
// analytics property. Each domain reports to its own property.
func (s *HTTPSink) ForMeasurement(measurementID string) *HTTPSink {
	return NewHTTPSink(s.endpoint, measurementID, s.apiSecret,
		WithHTTPClient(s.client),
		WithTimeout(s.timeout),
		WithSinkLogger(s.logger),
		WithSinkMetrics(s.metrics),
	)
}

func (s *HTTPSink) Send(command env.Command, target string, params map[string]any) error {
	if command != env.CommandEvent {
		return nil
	}

	clientID, _ := params["user_id"].(string)
	if clientID == "" {
		clientID = "anonymous"
	}
	body, err := json.Marshal(collectRequest{
		ClientID: clientID,
		Events:   []Event{{Name: target, Params: params}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.post(body); err != nil {
			s.metrics.IncrementDropped("http")
			s.logger.Warn("analytics delivery failed", zap.String("event", target), zap.Error(err))
		}
	}()
	return nil
}

func (s *HTTPSink) post(body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.collectURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPSink) collectURL() string {
	q := url.Values{}
	if s.measurementID != "" {
		q.Set("measurement_id", s.measurementID)
	}
	if s.apiSecret != "" {
		q.Set("api_secret", s.apiSecret)
	}
	if len(q) == 0 {
		return s.endpoint
	}
	return s.endpoint + "?" + q.Encode()
}

// Close waits for in-flight deliveries.
func (s *HTTPSink) Close() error {
	s.wg.Wait()
	return nil
}

// LogSink writes every event to a zap logger. Used when no collection
// endpoint is configured.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Send(command env.Command, target string, params map[string]any) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.Info("analytics",
		zap.String("command", string(command)),
		zap.String("target", target),
		zap.Any("params", params))
	return nil
}
