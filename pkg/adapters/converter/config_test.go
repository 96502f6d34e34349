package converter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverna/annet/pkg/adapters/converter"
)

func TestLoadTools_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	config := `
tools:
  - name: convert
    command: /opt/ginsim/bin/GINsim
    args: ["-lqm"]
    description: Foreign-format importer
  - name: simplify
    command: pint-export
    args: ["--simplify"]
`
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	tools, err := converter.LoadTools(path)
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "/opt/ginsim/bin/GINsim", tools[converter.ToolConvert].Command)
	assert.Equal(t, []string{"--simplify"}, tools[converter.ToolSimplify].Args)
}

func TestLoadTools_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.json")
	config := `{"tools": [{"name": "convert", "command": "bioLQM"}]}`
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	tools, err := converter.LoadTools(path)
	require.NoError(t, err)
	assert.Equal(t, "bioLQM", tools[converter.ToolConvert].Command)
}

func TestLoadTools_MissingFile(t *testing.T) {
	tools, err := converter.LoadTools(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestLoadTools_NamelessEntriesSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  - command: stray\n"), 0o644))

	tools, err := converter.LoadTools(path)
	require.NoError(t, err)
	assert.Empty(t, tools)
}
