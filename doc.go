/*
Package annet loads discrete automata-network models from heterogeneous
file formats and manages their initial configuration state.

It implements a format-dispatch pipeline (extension sniffing, remote fetch,
foreign-format conversion, simplification) in front of a validated,
override-tracking initial-state representation. The external toolchain
(exporter, converter, simplifier) is reached through process adapters; the
core logic stays pure and synchronous.

# Key Features

  - Validated initial states: every write is checked against the
    automaton's domain, and overrides always represent a true divergence
    from the model's default vector.
  - Compact query serialization: overrides encode to the toolchain's query
    grammar ("a"=1,"b"="x"), compound values one term per element.
  - Format dispatch: native files build directly; Boolean-network and
    SBML-qual sources convert through the external toolchain, with named
    initial states recovered from the source preserved on the result.
  - Remote sources: URL paths are downloaded first, with an optional
    Redis-backed byte cache.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/dverna/annet"
	)

	func main() {
		ctx := context.Background()

		m, err := annet.Load(ctx, "tcell.sbml")
		if err != nil {
			log.Fatal(err)
		}

		fmt.Println(m.Automata())

		// Diverge from the default initial state.
		if err := m.InitialState().Set("EGFR", 1); err != nil {
			log.Fatal(err)
		}
		fmt.Println(m.InitialState().Serialize()) // "EGFR"=1
	}
*/
package annet
