package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Conditions maps automata to the local state they must hold for a
// transition to fire.
type Conditions map[string]Scalar

// String renders the conditions in native text form, automata sorted for
// determinism.
func (c Conditions) String() string {
	names := make([]string, 0, len(c))
	for a := range c {
		names = append(names, a)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, a := range names {
		parts[i] = strconv.Quote(a) + "=" + c[a].String()
	}
	return strings.Join(parts, " and ")
}

// Transition is a local transition of the model: either a single automaton
// change, or several automaton changes firing synchronously. Representation
// only; execution semantics live in the external toolchain.
type Transition interface {
	// ModifiedAutomata returns the automata whose local state changes.
	ModifiedAutomata() []string
	fmt.Stringer
}

// LocalTransition is a transition within a single automaton.
type LocalTransition struct {
	Automaton string
	From      Scalar
	To        Scalar
	Conds     Conditions
}

func (t LocalTransition) ModifiedAutomata() []string {
	return []string{t.Automaton}
}

// String renders the transition in native text form.
func (t LocalTransition) String() string {
	s := fmt.Sprintf("%s %s -> %s", strconv.Quote(t.Automaton), t.From, t.To)
	if len(t.Conds) > 0 {
		s += " when " + t.Conds.String()
	}
	return s
}

// AutomatonChange is one local change within a synchronized transition.
type AutomatonChange struct {
	Automaton string
	From      Scalar
	To        Scalar
}

// SyncTransitions is a set of local transitions always firing together.
type SyncTransitions struct {
	Changes []AutomatonChange
	Conds   Conditions
}

func (t SyncTransitions) ModifiedAutomata() []string {
	out := make([]string, len(t.Changes))
	for i, c := range t.Changes {
		out[i] = c.Automaton
	}
	return out
}

// String renders the synchronized transitions in native text form.
func (t SyncTransitions) String() string {
	parts := make([]string, len(t.Changes))
	for i, c := range t.Changes {
		parts[i] = fmt.Sprintf("%s %s -> %s", strconv.Quote(c.Automaton), c.From, c.To)
	}
	s := "{ " + strings.Join(parts, " ; ") + " }"
	if len(t.Conds) > 0 {
		s += " when " + t.Conds.String()
	}
	return s
}

// transitionFromJSON decodes the positional tuple emitted by the exporter:
// [a, i, j, conds] for a local transition, [[(a, i, j)...], conds] for
// synchronized ones.
func transitionFromJSON(tup any) (Transition, error) {
	fields, ok := tup.([]any)
	if !ok {
		return nil, fmt.Errorf("local transition: expected a tuple, got %T", tup)
	}
	switch len(fields) {
	case 4:
		a, ok := fields[0].(string)
		if !ok {
			return nil, fmt.Errorf("local transition: automaton must be a string, got %T", fields[0])
		}
		from, err := scalarFromJSON(fields[1])
		if err != nil {
			return nil, err
		}
		to, err := scalarFromJSON(fields[2])
		if err != nil {
			return nil, err
		}
		conds, err := condsFromJSON(fields[3])
		if err != nil {
			return nil, err
		}
		return LocalTransition{Automaton: a, From: from, To: to, Conds: conds}, nil
	case 2:
		aijs, ok := fields[0].([]any)
		if !ok || len(aijs) < 2 {
			return nil, fmt.Errorf("synchronized transitions: expected at least two (a,i,j) tuples")
		}
		changes := make([]AutomatonChange, 0, len(aijs))
		for _, raw := range aijs {
			aij, ok := raw.([]any)
			if !ok || len(aij) != 3 {
				return nil, fmt.Errorf("synchronized transitions: malformed (a,i,j) tuple")
			}
			a, ok := aij[0].(string)
			if !ok {
				return nil, fmt.Errorf("synchronized transitions: automaton must be a string, got %T", aij[0])
			}
			from, err := scalarFromJSON(aij[1])
			if err != nil {
				return nil, err
			}
			to, err := scalarFromJSON(aij[2])
			if err != nil {
				return nil, err
			}
			changes = append(changes, AutomatonChange{Automaton: a, From: from, To: to})
		}
		conds, err := condsFromJSON(fields[1])
		if err != nil {
			return nil, err
		}
		return SyncTransitions{Changes: changes, Conds: conds}, nil
	}
	return nil, fmt.Errorf("local transition: invalid tuple of length %d", len(fields))
}

func scalarFromJSON(v any) (Scalar, error) {
	val, err := ValueOf(v)
	if err != nil {
		return Scalar{}, err
	}
	if val.IsCompound() {
		return Scalar{}, fmt.Errorf("local transition: expected a scalar local state, got %s", val)
	}
	return val.Scalars()[0], nil
}

func condsFromJSON(v any) (Conditions, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("local transition: conditions must be a mapping, got %T", v)
	}
	conds := make(Conditions, len(m))
	for a, raw := range m {
		s, err := scalarFromJSON(raw)
		if err != nil {
			return nil, err
		}
		conds[a] = s
	}
	return conds, nil
}
