/*
Package domain contains the core domain models of the automata-network
toolkit: values, initial states, transitions and the model metadata they are
derived from. This package is kept pure and free of external collaborators
(no I/O, no process execution), following Hexagonal Architecture principles.

# Key Entities

  - Value / Scalar: the tagged variant a local state assignment can take
    (integer index, named state, or an ordered compound of those).
  - Metadata: the structured document describing a model (automata, local
    state tables, features, default initial state, local transitions).
  - DomainRegistry: per-automaton legal local-state sets, derived once from
    Metadata and immutable afterwards.
  - InitialState: the validated, override-tracking assignment of a starting
    local state to every automaton, with its wire-level serialization.
*/
package domain
