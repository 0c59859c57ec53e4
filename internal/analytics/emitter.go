// Package analytics formats experiment and domain events and forwards them
// to an external tag-based analytics sink.
package analytics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/metrics"
)

// Emitter is fire-and-forget: its methods never return errors and never
// panic. Each call produces at most one sink invocation.
type Emitter struct {
	sink    env.Sink
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEmitter creates an emitter. sink may be nil, in which case every call
// is a silent no-op.
func NewEmitter(sink env.Sink, logger *zap.Logger, m *metrics.Metrics) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{sink: sink, logger: logger, metrics: m}
}

func (e *Emitter) TrackVariantView(experimentID, variantID, userID string) {
	e.emit(EventVariantView, experimentParams(experimentID, variantID, userID, CategoryABTest))
}

// TrackVariantConversion records a conversion for a previously assigned
// variant. conversionType defaults to "conversion".
func (e *Emitter) TrackVariantConversion(experimentID, variantID, userID string, conversionType ...string) {
	params := experimentParams(experimentID, variantID, userID, CategoryConversion)
	params["conversion_type"] = defaultConversionType
	if len(conversionType) > 0 && conversionType[0] != "" {
		params["conversion_type"] = conversionType[0]
	}
	e.emit(EventVariantConversion, params)
}

func (e *Emitter) TrackDomainAssignment(domain, audience string) {
	e.emit(EventDomainAssignment, map[string]any{
		"domain":         domain,
		"audience":       audience,
		"event_category": CategoryDomain,
		"event_label":    domain,
	})
}

func (e *Emitter) TrackCTAClick(experimentID, variantID, userID, label string) {
	e.emit(EventCTAClick, engagementParams(experimentID, variantID, userID, label))
}

func (e *Emitter) TrackFormSubmit(experimentID, variantID, userID, form string) {
	e.emit(EventFormSubmit, engagementParams(experimentID, variantID, userID, form))
}

func (e *Emitter) TrackPricingInteraction(experimentID, variantID, userID, action string) {
	e.emit(EventPricingInteraction, engagementParams(experimentID, variantID, userID, action))
}

// Track dispatches one of the UI-triggered engagement events by name.
// Unknown names are dropped.
func (e *Emitter) Track(name, experimentID, variantID, userID, label string) bool {
	switch name {
	case EventCTAClick:
		e.TrackCTAClick(experimentID, variantID, userID, label)
	case EventFormSubmit:
		e.TrackFormSubmit(experimentID, variantID, userID, label)
	case EventPricingInteraction:
		e.TrackPricingInteraction(experimentID, variantID, userID, label)
	default:
		return false
	}
	return true
}

func engagementParams(experimentID, variantID, userID, label string) map[string]any {
	params := experimentParams(experimentID, variantID, userID, CategoryEngagement)
	if label != "" {
		params["event_label"] = label
	}
	return params
}

func (e *Emitter) emit(name string, params map[string]any) {
	if e == nil || e.sink == nil {
		if e != nil {
			e.metrics.IncrementDropped("no_sink")
		}
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.metrics.IncrementDropped("sink_panic")
			e.logger.Warn("analytics sink panicked",
				zap.String("event", name),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if err := e.sink.Send(env.CommandEvent, name, params); err != nil {
		e.metrics.IncrementDropped("sink_error")
		e.logger.Warn("analytics sink failed", zap.String("event", name), zap.Error(err))
		return
	}
	e.metrics.IncrementEmitted(name)
}
