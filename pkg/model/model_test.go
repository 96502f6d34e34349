package model_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverna/annet/pkg/adapters/exporter"
	"github.com/dverna/annet/pkg/domain"
	"github.com/dverna/annet/pkg/model"
)

// fakeExporter returns a fixed metadata document and records the invocation
// it was asked to build.
type fakeExporter struct {
	doc  map[string]any
	last *exporter.Invocation
}

func (f *fakeExporter) Export(ctx context.Context, src exporter.Source) (map[string]any, error) {
	inv := &exporter.Invocation{}
	src.Contribute(inv)
	f.last = inv
	return f.doc, nil
}

func fixtureDoc(t *testing.T) map[string]any {
	t.Helper()
	raw := `{
		"automata": ["a", "b"],
		"local_states": {"a": [0, 1], "b": [0, 1]},
		"named_local_states": {},
		"features": [],
		"initial_state": {"a": 0, "b": 0}
	}`
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestModel_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.an")
	require.NoError(t, os.WriteFile(path, []byte("\"a\" [0, 1]\n"), 0o644))

	exp := &fakeExporter{doc: fixtureDoc(t)}
	m, err := model.FromFile(context.Background(), path, model.WithExporter(exp))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, m.Automata())
	assert.False(t, m.InitialState().IsCustom())
	assert.Empty(t, m.NamedStateNames())

	// The file binding contributes the input-path flag.
	assert.Equal(t, []string{"-i", path}, exp.last.Args)
	assert.Nil(t, exp.last.Stdin)

	src, err := m.Source()
	require.NoError(t, err)
	assert.Contains(t, src, "[0, 1]")
}

func TestModel_FromBytes(t *testing.T) {
	data := []byte("\"a\" [0, 1]\n")

	exp := &fakeExporter{doc: fixtureDoc(t)}
	m, err := model.FromBytes(context.Background(), data, model.WithExporter(exp))
	require.NoError(t, err)

	// The buffer binding feeds stdin instead of an input-path flag.
	assert.Equal(t, data, exp.last.Stdin)
	assert.Empty(t, exp.last.Args)

	src, err := m.Source()
	require.NoError(t, err)
	assert.Equal(t, string(data), src)
}

func TestModel_CustomInitialContext(t *testing.T) {
	exp := &fakeExporter{doc: fixtureDoc(t)}
	m, err := model.FromBytes(context.Background(), []byte("x"), model.WithExporter(exp))
	require.NoError(t, err)

	// Default state: no initial-context argument.
	inv := &exporter.Invocation{}
	m.Contribute(inv)
	assert.NotContains(t, inv.Args, "--initial-context")

	require.NoError(t, m.InitialState().Set("a", 1))

	inv = &exporter.Invocation{}
	m.Contribute(inv)
	assert.Equal(t, []string{"--initial-context", `"a"=1`}, inv.Args)
}

func TestModel_Register(t *testing.T) {
	exp := &fakeExporter{doc: fixtureDoc(t)}
	m, err := model.FromBytes(context.Background(), []byte("x"), model.WithExporter(exp))
	require.NoError(t, err)

	require.NoError(t, m.Register("mutant", map[string]any{"a": 1}))
	require.NoError(t, m.Register("wildtype", map[string]any{"a": 0, "b": 1}))

	assert.Equal(t, []string{"mutant", "wildtype"}, m.NamedStateNames())

	mutant, ok := m.NamedState("mutant")
	require.True(t, ok)
	assert.False(t, mutant.IsCustom())
	v, err := mutant.Get("a")
	require.NoError(t, err)
	assert.True(t, v.Equal(domain.Int(1)))

	// Named states validate against the model domains.
	err = m.Register("broken", map[string]any{"a": 99})
	var valErr *domain.InvalidValueError
	assert.ErrorAs(t, err, &valErr)
}

func TestModel_Having(t *testing.T) {
	exp := &fakeExporter{doc: fixtureDoc(t)}
	m, err := model.FromBytes(context.Background(), []byte("x"), model.WithExporter(exp))
	require.NoError(t, err)
	require.NoError(t, m.Register("mutant", map[string]any{"b": 1}))

	h, err := m.Having(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.True(t, h.InitialState().IsCustom())
	assert.False(t, m.InitialState().IsCustom(), "Having must not mutate the receiver")

	hn, err := m.HavingNamed("mutant")
	require.NoError(t, err)
	v, err := hn.InitialState().Get("b")
	require.NoError(t, err)
	assert.True(t, v.Equal(domain.Int(1)))

	_, err = m.HavingNamed("ghost")
	assert.Error(t, err)
}

func TestModel_SetInitialState(t *testing.T) {
	exp := &fakeExporter{doc: fixtureDoc(t)}
	m, err := model.FromBytes(context.Background(), []byte("x"), model.WithExporter(exp))
	require.NoError(t, err)

	cp := m.InitialState().Copy()
	require.NoError(t, cp.Set("a", 1))
	require.NoError(t, m.SetInitialState(cp))
	assert.True(t, m.InitialState().IsCustom())

	// A state from a different model is rejected.
	other, err := model.FromBytes(context.Background(), []byte("y"),
		model.WithExporter(&fakeExporter{doc: fixtureDoc(t)}))
	require.NoError(t, err)
	assert.Error(t, m.SetInitialState(other.InitialState()))
}
