package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Defaults(t *testing.T) {
	r, err := NewRegistry(DefaultExperiments()...)
	require.NoError(t, err)
	assert.Empty(t, r.Misconfigured(), "built-in experiments must sum to 100")
}

func TestRegistry_ListActive_PreservesOrder(t *testing.T) {
	r, err := NewRegistry(
		Experiment{ID: "b", Active: true, Variants: []Variant{{ID: "control", Weight: 100}}},
		Experiment{ID: "off", Active: false, Variants: []Variant{{ID: "control", Weight: 100}}},
		Experiment{ID: "a", Active: true, Variants: []Variant{{ID: "control", Weight: 100}}},
	)
	require.NoError(t, err)

	var ids []string
	for _, e := range r.ListActive() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.Len(t, r.List(), 3)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r, err := NewRegistry(DefaultExperiments()...)
	require.NoError(t, err)

	_, ok := r.Get("does_not_exist")
	assert.False(t, ok)

	var nilRegistry *Registry
	_, ok = nilRegistry.Get("hero_section")
	assert.False(t, ok)
	assert.Empty(t, nilRegistry.ListActive())
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name string
		exps []Experiment
		err  error
	}{
		{
			name: "empty id",
			exps: []Experiment{{Variants: []Variant{{ID: "control", Weight: 100}}}},
			err:  ErrInvalidExperiment,
		},
		{
			name: "duplicate",
			exps: []Experiment{
				{ID: "x", Variants: []Variant{{ID: "control", Weight: 100}}},
				{ID: "x", Variants: []Variant{{ID: "control", Weight: 100}}},
			},
			err: ErrDuplicateExperiment,
		},
		{
			name: "no variants",
			exps: []Experiment{{ID: "x"}},
			err:  ErrInvalidExperiment,
		},
		{
			name: "negative weight",
			exps: []Experiment{{ID: "x", Variants: []Variant{{ID: "a", Weight: -1}}}},
			err:  ErrInvalidExperiment,
		},
		{
			name: "repeated variant",
			exps: []Experiment{{ID: "x", Variants: []Variant{{ID: "a", Weight: 50}, {ID: "a", Weight: 50}}}},
			err:  ErrInvalidExperiment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.exps...)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRegistry_Misconfigured(t *testing.T) {
	r, err := NewRegistry(
		Experiment{ID: "ok", Active: true, Variants: []Variant{{ID: "a", Weight: 60}, {ID: "b", Weight: 40}}},
		Experiment{ID: "short", Active: true, Variants: []Variant{{ID: "a", Weight: 30}, {ID: "b", Weight: 30}}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"short"}, r.Misconfigured())
}

func TestRegistry_IsImmutable(t *testing.T) {
	variants := []Variant{{ID: "control", Weight: 100}}
	r, err := NewRegistry(Experiment{ID: "x", Active: true, Variants: variants})
	require.NoError(t, err)

	variants[0].ID = "mutated"
	e, _ := r.Get("x")
	assert.Equal(t, "control", e.Variants[0].ID)
}
