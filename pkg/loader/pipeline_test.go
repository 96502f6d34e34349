package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverna/annet/pkg/adapters/converter"
	"github.com/dverna/annet/pkg/adapters/fetch"
	"github.com/dverna/annet/pkg/domain"
	"github.com/dverna/annet/pkg/loader"
)

// stubConverter builds a converter whose convert pass copies the input to
// the output and whose simplify pass appends a marker line.
func stubConverter(t *testing.T) *converter.Runner {
	t.Helper()
	dir := t.TempDir()

	convert := filepath.Join(dir, "convert.sh")
	require.NoError(t, os.WriteFile(convert,
		[]byte("#!/bin/sh\ncp \"$3\" \"$6\"\n"), 0o755))

	simplify := filepath.Join(dir, "simplify.sh")
	require.NoError(t, os.WriteFile(simplify,
		[]byte("#!/bin/sh\necho '(* simplified *)' >> \"$2\"\n"), 0o755))

	return converter.NewRunner(
		converter.WithConvertTool(convert),
		converter.WithSimplifyTool(simplify),
	)
}

func TestLoader_LoadForeign(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "net.sbml")
	require.NoError(t, os.WriteFile(input, []byte("<sbml/>"), 0o644))

	outDir := filepath.Join(dir, "gen")
	l := loader.New(
		loader.WithExporter(fixtureExporter(t)),
		loader.WithConverter(stubConverter(t)),
		loader.WithOutputDir(outDir),
	)

	m, err := l.Load(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Automata())

	// The pipeline produced a native file in the output directory, and the
	// simplification pass ran by default.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".an"))

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "simplified")
}

func TestLoader_LoadForeignNoSimplify(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "net.sbml")
	require.NoError(t, os.WriteFile(input, []byte("<sbml/>"), 0o644))

	outDir := filepath.Join(dir, "gen")
	l := loader.New(
		loader.WithExporter(fixtureExporter(t)),
		loader.WithConverter(stubConverter(t)),
		loader.WithOutputDir(outDir),
	)

	_, err := l.Load(context.Background(), input, loader.WithSimplify(false))
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "simplified")
}

func TestLoader_LoadForeignRegistersExtractedStates(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "net.sbml")
	require.NoError(t, os.WriteFile(input, []byte("<sbml/>"), 0o644))

	l := loader.New(
		loader.WithExporter(fixtureExporter(t)),
		loader.WithConverter(stubConverter(t)),
		loader.WithOutputDir(filepath.Join(dir, "gen")),
	)
	l.RegisterExtractor("sbml", func(inputPath string) (map[string]map[string]any, error) {
		assert.Equal(t, input, inputPath)
		return map[string]map[string]any{
			"wildtype": {"a": 0, "b": 1},
			"mutant":   {"a": 1},
		}, nil
	})

	m, err := l.Load(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"mutant", "wildtype"}, m.NamedStateNames())

	wildtype, ok := m.NamedState("wildtype")
	require.True(t, ok)
	v, err := wildtype.Get("b")
	require.NoError(t, err)
	assert.True(t, v.Equal(domain.Int(1)))

	mutant, ok := m.NamedState("mutant")
	require.True(t, ok)
	v, err = mutant.Get("a")
	require.NoError(t, err)
	assert.True(t, v.Equal(domain.Int(1)))
}

func TestLoader_ConversionFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "net.sbml")
	require.NoError(t, os.WriteFile(input, []byte("<sbml/>"), 0o644))

	failing := filepath.Join(dir, "fail.sh")
	require.NoError(t, os.WriteFile(failing, []byte("#!/bin/sh\nexit 1\n"), 0o755))

	l := loader.New(
		loader.WithExporter(fixtureExporter(t)),
		loader.WithConverter(converter.NewRunner(converter.WithConvertTool(failing))),
		loader.WithOutputDir(filepath.Join(dir, "gen")),
	)

	_, err := l.Load(context.Background(), input)
	var convErr *domain.ConversionError
	require.ErrorAs(t, err, &convErr)
}

func TestLoader_LoadRemoteForeign(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/net.sbml", r.URL.Path)
		w.Write([]byte("<sbml/>"))
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "gen")
	l := loader.New(
		loader.WithExporter(fixtureExporter(t)),
		loader.WithConverter(stubConverter(t)),
		loader.WithFetcher(fetch.New()),
		loader.WithOutputDir(outDir),
	)

	m, err := l.Load(context.Background(), srv.URL+"/models/net.sbml")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.Automata())

	// The download landed in the output directory next to the generated
	// native file.
	if _, err := os.Stat(filepath.Join(outDir, "net.sbml")); err != nil {
		t.Errorf("downloaded source missing: %v", err)
	}
}
