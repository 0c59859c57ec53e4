package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/metrics"
)

func TestHTTPSink_PostsEvent(t *testing.T) {
	var (
		mu       sync.Mutex
		received []collectRequest
		query    string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req collectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, req)
		query = r.URL.RawQuery
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	sink := NewHTTPSink(ts.URL+"/mp/collect", "G-SMB", "secret")
	NewEmitter(sink, nil, nil).TrackVariantView("hero_section", "bold", "user_1")
	require.NoError(t, sink.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "user_1", received[0].ClientID)
	require.Len(t, received[0].Events, 1)
	assert.Equal(t, EventVariantView, received[0].Events[0].Name)
	assert.Equal(t, "hero_section", received[0].Events[0].Params["test_id"])
	assert.Contains(t, query, "measurement_id=G-SMB")
	assert.Contains(t, query, "api_secret=secret")
}

func TestHTTPSink_IgnoresNonEventCommands(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer ts.Close()

	sink := NewHTTPSink(ts.URL, "", "")
	require.NoError(t, sink.Send(env.CommandConfig, "G-SMB", nil))
	require.NoError(t, sink.Close())
	assert.Equal(t, 0, hits)
}

func TestHTTPSink_FailureIsCountedNotReturned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	m := metrics.New(prometheus.NewRegistry())
	sink := NewHTTPSink(ts.URL, "G-PRO", "", WithSinkMetrics(m))
	err := sink.Send(env.CommandEvent, EventDomainAssignment, map[string]any{"domain": "fliptech.pro"})
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDropped.WithLabelValues("http")))
}

func TestHTTPSink_ForMeasurement(t *testing.T) {
	sink := NewHTTPSink("https://collect.example/mp", "G-SMB", "s")
	pro := sink.ForMeasurement("G-PRO")
	assert.Equal(t, "https://collect.example/mp?api_secret=s&measurement_id=G-PRO", pro.collectURL())
	assert.Equal(t, "https://collect.example/mp", NewHTTPSink("https://collect.example/mp", "", "").collectURL())
}
