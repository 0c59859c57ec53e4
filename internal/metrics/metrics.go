package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for assignment and analytics emission.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Assignments by experiment, variant and how the variant was chosen
	Assignments *prometheus.CounterVec

	// Analytics events handed to the sink, by event name
	EventsEmitted *prometheus.CounterVec

	// Analytics events that never reached the sink
	EventsDropped *prometheus.CounterVec

	// Domain resolutions by resolved domain
	DomainResolutions *prometheus.CounterVec
}

// New registers all metrics on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Assignments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ftab_assignments_total",
			Help: "Total variant assignments by experiment, variant and source",
		}, []string{"experiment", "variant", "source"}), // source: "bucket", "override", "default"

		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ftab_analytics_events_total",
			Help: "Total analytics events dispatched to the sink",
		}, []string{"event"}),

		EventsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ftab_analytics_dropped_total",
			Help: "Total analytics events dropped before or by the sink",
		}, []string{"reason"}), // reason: "no_sink", "sink_error", "sink_panic", "http"

		DomainResolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ftab_domain_resolutions_total",
			Help: "Total hostname resolutions by resolved domain",
		}, []string{"domain", "fallback"}),
	}
}

func (m *Metrics) IncrementAssignment(experiment, variant, source string) {
	if m != nil {
		m.Assignments.WithLabelValues(experiment, variant, source).Inc()
	}
}

func (m *Metrics) IncrementEmitted(event string) {
	if m != nil {
		m.EventsEmitted.WithLabelValues(event).Inc()
	}
}

func (m *Metrics) IncrementDropped(reason string) {
	if m != nil {
		m.EventsDropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncrementResolution(domain string, fallback bool) {
	if m != nil {
		f := "false"
		if fallback {
			f = "true"
		}
		m.DomainResolutions.WithLabelValues(domain, f).Inc()
	}
}
