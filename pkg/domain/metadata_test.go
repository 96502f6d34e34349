package domain

import (
	"encoding/json"
	"testing"
)

const rawMetadataJSON = `{
	"automata": ["a", "b"],
	"local_states": {"a": [0, 1], "b": [0, 1, 2]},
	"named_local_states": {"b": ["off"]},
	"features": ["synced_transitions"],
	"initial_state": {"a": 0, "b": [0, 1]},
	"local_transitions": [
		["a", 0, 1, {"b": 1}],
		[[["a", 1, 0], ["b", 2, 0]], {}]
	]
}`

func decodeRaw(t *testing.T) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(rawMetadataJSON), &raw); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return raw
}

func TestDecodeMetadata(t *testing.T) {
	meta, err := DecodeMetadata(decodeRaw(t))
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}

	if len(meta.Automata) != 2 || meta.Automata[0] != "a" {
		t.Errorf("Automata = %v", meta.Automata)
	}
	if len(meta.LocalStates["b"]) != 3 {
		t.Errorf("LocalStates[b] = %v", meta.LocalStates["b"])
	}
	if len(meta.Features) != 1 || meta.Features[0] != "synced_transitions" {
		t.Errorf("Features = %v", meta.Features)
	}

	// JSON numbers normalize to integer scalars; lists to ordered compounds.
	if !meta.InitialState["a"].Equal(Int(0)) {
		t.Errorf("initial_state[a] = %s", meta.InitialState["a"])
	}
	if !meta.InitialState["b"].Equal(Compound(IntScalar(0), IntScalar(1))) {
		t.Errorf("initial_state[b] = %s", meta.InitialState["b"])
	}
}

func TestDecodeMetadata_Transitions(t *testing.T) {
	meta, err := DecodeMetadata(decodeRaw(t))
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if len(meta.LocalTransitions) != 2 {
		t.Fatalf("LocalTransitions = %v", meta.LocalTransitions)
	}

	lt, ok := meta.LocalTransitions[0].(LocalTransition)
	if !ok {
		t.Fatalf("first transition: expected LocalTransition, got %T", meta.LocalTransitions[0])
	}
	if got := lt.String(); got != `"a" 0 -> 1 when "b"=1` {
		t.Errorf("LocalTransition.String() = %q", got)
	}

	st, ok := meta.LocalTransitions[1].(SyncTransitions)
	if !ok {
		t.Fatalf("second transition: expected SyncTransitions, got %T", meta.LocalTransitions[1])
	}
	if got := st.String(); got != `{ "a" 1 -> 0 ; "b" 2 -> 0 }` {
		t.Errorf("SyncTransitions.String() = %q", got)
	}
	if got := st.ModifiedAutomata(); len(got) != 2 {
		t.Errorf("ModifiedAutomata = %v", got)
	}
}

func TestNewDomainRegistry(t *testing.T) {
	meta, err := DecodeMetadata(decodeRaw(t))
	if err != nil {
		t.Fatal(err)
	}
	r := NewDomainRegistry(meta)

	if !r.Has("a") || r.Has("ghost") {
		t.Error("Has must reflect the automata list")
	}
	if !r.Contains("b", IntScalar(2)) {
		t.Error("integer states come from local_states")
	}
	if !r.Contains("b", NameScalar("off")) {
		t.Error("named states come from named_local_states")
	}
	if r.Contains("a", IntScalar(2)) {
		t.Error("out-of-domain state must not be contained")
	}

	allowed := r.Allowed("b")
	if len(allowed) != 4 {
		t.Errorf("Allowed(b) = %v, want 3 integers and 1 name", allowed)
	}
}

func TestDecodeMetadata_BadTransitions(t *testing.T) {
	raw := decodeRaw(t)
	raw["local_transitions"] = []any{[]any{"a", float64(0)}}
	if _, err := DecodeMetadata(raw); err == nil {
		t.Error("malformed transition tuple must fail decoding")
	}
}
