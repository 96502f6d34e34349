package domain

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Metadata is the structured document produced by the model-query
// collaborator. It is the sole input to DomainRegistry and InitialState
// construction, and the read accessors of a Model are pure projections of it.
type Metadata struct {
	Automata         []string            `json:"automata" mapstructure:"automata"`
	LocalStates      map[string][]int    `json:"local_states" mapstructure:"local_states"`
	NamedLocalStates map[string][]string `json:"named_local_states" mapstructure:"named_local_states"`
	Features         []string            `json:"features" mapstructure:"features"`
	InitialState     map[string]Value    `json:"initial_state" mapstructure:"initial_state"`

	// LocalTransitions is decoded separately: the collaborator emits
	// positional tuples, not objects.
	LocalTransitions []Transition `json:"-" mapstructure:"-"`
}

// DecodeMetadata builds a Metadata from the raw JSON document returned by
// the exporter. Initial-state values are normalized through ValueOf via a
// decode hook.
func DecodeMetadata(raw map[string]any) (*Metadata, error) {
	var meta Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &meta,
		DecodeHook: valueDecodeHook,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode model metadata: %w", err)
	}

	if ts, ok := raw["local_transitions"]; ok {
		tuples, ok := ts.([]any)
		if !ok {
			return nil, fmt.Errorf("local_transitions: expected a list, got %T", ts)
		}
		meta.LocalTransitions = make([]Transition, 0, len(tuples))
		for _, tup := range tuples {
			t, err := transitionFromJSON(tup)
			if err != nil {
				return nil, err
			}
			meta.LocalTransitions = append(meta.LocalTransitions, t)
		}
	}

	return &meta, nil
}

var valueType = reflect.TypeOf(Value{})

// valueDecodeHook normalizes any JSON shape targeted at a Value field.
func valueDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != valueType {
		return data, nil
	}
	return ValueOf(data)
}

// DomainRegistry holds, for every automaton of a model, the set of legal
// local states. Built once from metadata and immutable afterwards.
type DomainRegistry struct {
	order   []string
	domains map[string]map[Scalar]bool
	allowed map[string][]Scalar
}

// NewDomainRegistry derives the registry from metadata: integer states come
// from local_states, name aliases from named_local_states.
func NewDomainRegistry(meta *Metadata) *DomainRegistry {
	r := &DomainRegistry{
		order:   append([]string(nil), meta.Automata...),
		domains: make(map[string]map[Scalar]bool, len(meta.Automata)),
		allowed: make(map[string][]Scalar, len(meta.Automata)),
	}
	for _, a := range meta.Automata {
		set := make(map[Scalar]bool)
		var ordered []Scalar
		for _, i := range meta.LocalStates[a] {
			s := IntScalar(i)
			if !set[s] {
				set[s] = true
				ordered = append(ordered, s)
			}
		}
		for _, n := range meta.NamedLocalStates[a] {
			s := NameScalar(n)
			if !set[s] {
				set[s] = true
				ordered = append(ordered, s)
			}
		}
		r.domains[a] = set
		r.allowed[a] = ordered
	}
	return r
}

// Automata returns the automaton names in model order.
func (r *DomainRegistry) Automata() []string {
	return append([]string(nil), r.order...)
}

// Has reports whether the automaton exists in the model.
func (r *DomainRegistry) Has(automaton string) bool {
	_, ok := r.domains[automaton]
	return ok
}

// Contains reports whether s is a legal local state of the automaton.
func (r *DomainRegistry) Contains(automaton string, s Scalar) bool {
	return r.domains[automaton][s]
}

// Allowed returns the legal local states of the automaton, in declaration
// order. Used for validation diagnostics.
func (r *DomainRegistry) Allowed(automaton string) []Scalar {
	return append([]Scalar(nil), r.allowed[automaton]...)
}
