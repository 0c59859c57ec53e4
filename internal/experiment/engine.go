package experiment

import (
	"github.com/cespare/xxhash/v2"

	"github.com/fliptech/ftab/internal/env"
	"github.com/fliptech/ftab/internal/metrics"
)

// Source labels how a variant was chosen.
const (
	SourceBucket   = "bucket"
	SourceOverride = "override"
	SourceDefault  = "default"
)

// Engine assigns visitors to variants. It holds no per-visitor state: the
// same (experiment, user) pair always yields the same variant unless an
// override is stored.
type Engine struct {
	registry *Registry
	storage  env.Storage
	metrics  *metrics.Metrics
}

// NewEngine creates an engine over the registry. storage holds admin
// overrides and may be nil.
func NewEngine(registry *Registry, storage env.Storage, m *metrics.Metrics) *Engine {
	return &Engine{registry: registry, storage: storage, metrics: m}
}

// Assign returns the variant for userID in experimentID.
func (e *Engine) Assign(experimentID, userID string) string {
	variant, source := e.assign(experimentID, userID)
	e.metrics.IncrementAssignment(experimentID, variant, source)
	return variant
}

func (e *Engine) assign(experimentID, userID string) (string, string) {
	exp, ok := e.registry.Get(experimentID)
	if !ok || !exp.Active {
		return ControlVariant, SourceDefault
	}

	if v, ok := e.Override(experimentID); ok {
		return v, SourceOverride
	}

	bucket := Bucket(experimentID, userID)
	cumulative := 0
	for _, v := range exp.Variants {
		cumulative += v.Weight
		if bucket < cumulative {
			return v.ID, SourceBucket
		}
	}
	return ControlVariant, SourceDefault
}

// Bucket maps an (experiment, user) pair to a slot in [0, 100).
func Bucket(experimentID, userID string) int {
	return int(xxhash.Sum64String(experimentID+userID) % 100)
}

// Override returns the forced variant for an experiment, if one is stored.
// Unreadable storage counts as no override.
func (e *Engine) Override(experimentID string) (string, bool) {
	if e.storage == nil {
		return "", false
	}
	v, ok, err := e.storage.Get(env.OverrideKey(experimentID))
	if err != nil || !ok || v == "" {
		return "", false
	}
	return v, true
}

// SetOverride forces variantID for every visitor sharing this storage.
// The value is stored verbatim; it need not be a declared variant.
func (e *Engine) SetOverride(experimentID, variantID string) error {
	if e.storage == nil {
		return env.ErrUnavailable
	}
	return e.storage.Set(env.OverrideKey(experimentID), variantID)
}

// ClearOverride removes a forced variant.
func (e *Engine) ClearOverride(experimentID string) error {
	if e.storage == nil {
		return env.ErrUnavailable
	}
	return e.storage.Remove(env.OverrideKey(experimentID))
}

// Overrides lists the stored overrides of active experiments.
func (e *Engine) Overrides() map[string]string {
	out := make(map[string]string)
	for _, exp := range e.registry.ListActive() {
		if v, ok := e.Override(exp.ID); ok {
			out[exp.ID] = v
		}
	}
	return out
}

// AdminMode reports whether the admin debug surface is enabled.
func (e *Engine) AdminMode() bool {
	if e.storage == nil {
		return false
	}
	v, _, err := e.storage.Get(env.AdminModeKey)
	return err == nil && v == "true"
}

func (e *Engine) SetAdminMode(on bool) error {
	if e.storage == nil {
		return env.ErrUnavailable
	}
	v := "false"
	if on {
		v = "true"
	}
	return e.storage.Set(env.AdminModeKey, v)
}

// Registry exposes the engine's experiment table.
func (e *Engine) Registry() *Registry {
	return e.registry
}
