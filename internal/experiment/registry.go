// Package experiment holds the experiment registry and the variant
// assignment engine.
package experiment

import (
	"errors"
	"fmt"
)

// ControlVariant is returned whenever no declared variant applies.
const ControlVariant = "control"

var (
	ErrDuplicateExperiment = errors.New("duplicate experiment id")
	ErrInvalidExperiment   = errors.New("invalid experiment")
)

type Variant struct {
	ID     string `yaml:"id" json:"id"`
	Weight int    `yaml:"weight" json:"weight"`
}

type Experiment struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Variants []Variant `yaml:"variants" json:"variants"`
	Active   bool      `yaml:"active" json:"active"`
}

// TotalWeight sums the variant weights.
func (e Experiment) TotalWeight() int {
	total := 0
	for _, v := range e.Variants {
		total += v.Weight
	}
	return total
}

// HasVariant reports whether id is one of the declared variants.
func (e Experiment) HasVariant(id string) bool {
	for _, v := range e.Variants {
		if v.ID == id {
			return true
		}
	}
	return false
}

// Registry is the immutable set of experiments known at startup.
type Registry struct {
	order []string
	byID  map[string]Experiment
}

// NewRegistry validates and indexes experiments, preserving their order.
// Weights that do not sum to 100 are accepted; see Misconfigured.
func NewRegistry(experiments ...Experiment) (*Registry, error) {
	r := &Registry{byID: make(map[string]Experiment, len(experiments))}
	for _, e := range experiments {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidExperiment)
		}
		if _, ok := r.byID[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateExperiment, e.ID)
		}
		if len(e.Variants) == 0 {
			return nil, fmt.Errorf("%w: %s has no variants", ErrInvalidExperiment, e.ID)
		}
		seen := make(map[string]bool, len(e.Variants))
		for _, v := range e.Variants {
			if v.ID == "" || v.Weight < 0 {
				return nil, fmt.Errorf("%w: %s has a variant with empty id or negative weight", ErrInvalidExperiment, e.ID)
			}
			if seen[v.ID] {
				return nil, fmt.Errorf("%w: %s declares variant %q twice", ErrInvalidExperiment, e.ID, v.ID)
			}
			seen[v.ID] = true
		}

		// Copy variants so callers cannot mutate the registry afterwards.
		e.Variants = append([]Variant(nil), e.Variants...)
		r.byID[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	return r, nil
}

// Get returns the experiment with the given id. Unknown ids are not an error;
// callers treat them as always-control.
func (r *Registry) Get(id string) (Experiment, bool) {
	if r == nil {
		return Experiment{}, false
	}
	e, ok := r.byID[id]
	return e, ok
}

// ListActive returns active experiments in declaration order.
func (r *Registry) ListActive() []Experiment {
	if r == nil {
		return nil
	}
	active := make([]Experiment, 0, len(r.order))
	for _, id := range r.order {
		if e := r.byID[id]; e.Active {
			active = append(active, e)
		}
	}
	return active
}

// List returns every experiment, active or not, in declaration order.
func (r *Registry) List() []Experiment {
	if r == nil {
		return nil
	}
	all := make([]Experiment, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.byID[id])
	}
	return all
}

// Misconfigured returns the ids of experiments whose weights do not sum to 100.
// Such experiments still assign; the residual bucket range falls to control.
func (r *Registry) Misconfigured() []string {
	if r == nil {
		return nil
	}
	var ids []string
	for _, id := range r.order {
		if r.byID[id].TotalWeight() != 100 {
			ids = append(ids, id)
		}
	}
	return ids
}
