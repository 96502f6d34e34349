package domain

import (
	"sort"
	"strings"
)

// InitialState is the assignment of a starting local state to every
// automaton of a model. It is a two-layer structure: an immutable default
// vector overlaid by a sparse set of validated overrides. Reads merge the
// layers lazily; writing a value equal to the default drops the overlay
// entry, so overrides always represent a true divergence.
type InitialState struct {
	registry *DomainRegistry
	defaults map[string]Value

	overrides map[string]Value
	order     []string // override insertion order, drives Serialize
}

// NewInitialState builds the default initial state of a model from its
// metadata. Every automaton gets the default value declared in the
// initial_state field; no override exists yet.
func NewInitialState(meta *Metadata) *InitialState {
	defaults := make(map[string]Value, len(meta.InitialState))
	for a, v := range meta.InitialState {
		defaults[a] = v
	}
	return &InitialState{
		registry:  NewDomainRegistry(meta),
		defaults:  defaults,
		overrides: make(map[string]Value),
	}
}

// NamedState builds an immutable alternate state from base: the supplied
// assignment is folded into the default vector itself, so the named state
// has no overrides at creation. Values are assumed validated by the caller.
func NamedState(base *InitialState, assignment map[string]Value) *InitialState {
	defaults := make(map[string]Value, len(base.defaults))
	for a, v := range base.defaults {
		defaults[a] = v
	}
	for a, v := range assignment {
		defaults[a] = v
	}
	return &InitialState{
		registry:  base.registry,
		defaults:  defaults,
		overrides: make(map[string]Value),
	}
}

// Automata returns the automaton names in model order.
func (s *InitialState) Automata() []string {
	return s.registry.Automata()
}

// Get returns the apparent value of the automaton: its override when one
// exists, its default otherwise.
func (s *InitialState) Get(automaton string) (Value, error) {
	if v, ok := s.overrides[automaton]; ok {
		return v, nil
	}
	v, ok := s.defaults[automaton]
	if !ok {
		return Value{}, &UnknownAutomatonError{Automaton: automaton}
	}
	return v, nil
}

// Set assigns an initial value to the automaton. The value can be an int, a
// string, a Value, or an ordered sequence of those; sequences normalize to
// an ordered compound. Scalars must belong to the automaton's domain;
// every element of a compound must, individually. Setting the default value
// removes any existing override.
func (s *InitialState) Set(automaton string, value any) error {
	def, ok := s.defaults[automaton]
	if !ok {
		return &UnknownAutomatonError{Automaton: automaton}
	}
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	for _, e := range v.Scalars() {
		if !s.registry.Contains(automaton, e) {
			return &InvalidValueError{
				Automaton: automaton,
				Value:     v,
				Allowed:   s.registry.Allowed(automaton),
			}
		}
	}

	if v.Equal(def) {
		s.Delete(automaton)
		return nil
	}
	if _, exists := s.overrides[automaton]; !exists {
		s.order = append(s.order, automaton)
	}
	s.overrides[automaton] = v
	return nil
}

// Update applies every entry of changes through Set. Automata are applied
// in sorted key order to keep the override order deterministic.
func (s *InitialState) Update(changes map[string]any) error {
	keys := make([]string, 0, len(changes))
	for a := range changes {
		keys = append(keys, a)
	}
	sort.Strings(keys)
	for _, a := range keys {
		if err := s.Set(a, changes[a]); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the override of the automaton, if any; the apparent value
// reverts to the default. Deleting an automaton with no override is a no-op.
func (s *InitialState) Delete(automaton string) {
	if _, ok := s.overrides[automaton]; !ok {
		return
	}
	delete(s.overrides, automaton)
	for i, a := range s.order {
		if a == automaton {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Reset clears every override; the apparent state becomes exactly the
// default vector.
func (s *InitialState) Reset() {
	s.overrides = make(map[string]Value)
	s.order = nil
}

// IsCustom reports whether the state diverges from the default initial
// state of the model.
func (s *InitialState) IsCustom() bool {
	return len(s.overrides) > 0
}

// Changes returns a snapshot of the overrides, in insertion order.
func (s *InitialState) Changes() map[string]Value {
	out := make(map[string]Value, len(s.overrides))
	for a, v := range s.overrides {
		out[a] = v
	}
	return out
}

// Nonzeros returns the automata whose apparent value is a named state or a
// non-zero integer.
func (s *InitialState) Nonzeros() map[string]Value {
	out := make(map[string]Value)
	for _, a := range s.registry.Automata() {
		v, err := s.Get(a)
		if err != nil {
			continue
		}
		for _, e := range v.Scalars() {
			if e.IsName() || e.Int() > 0 {
				out[a] = v
				break
			}
		}
	}
	return out
}

// Copy returns an independent state sharing the same defaults and domain
// registry, with a copy of the overrides.
func (s *InitialState) Copy() *InitialState {
	cp := &InitialState{
		registry:  s.registry,
		defaults:  s.defaults,
		overrides: make(map[string]Value, len(s.overrides)),
		order:     append([]string(nil), s.order...),
	}
	for a, v := range s.overrides {
		cp.overrides[a] = v
	}
	return cp
}

// Having returns a copy of the state with the supplied changes applied.
func (s *InitialState) Having(changes map[string]any) (*InitialState, error) {
	cp := s.Copy()
	if err := cp.Update(changes); err != nil {
		return nil, err
	}
	return cp, nil
}

// SharesModel reports whether the other state was derived from the same
// model metadata (same domain registry).
func (s *InitialState) SharesModel(o *InitialState) bool {
	return s.registry == o.registry
}

// Serialize encodes the overrides in the toolchain's query grammar:
// comma-joined "automaton"=value terms, integers as bare digits, names
// double-quoted. A compound override emits one term per element, in stored
// order; terms follow override insertion order. Defaults are implicit and
// never transmitted.
func (s *InitialState) Serialize() string {
	var terms []string
	for _, a := range s.order {
		for _, e := range s.overrides[a].Scalars() {
			terms = append(terms, `"`+a+`"=`+e.String())
		}
	}
	return strings.Join(terms, ",")
}
