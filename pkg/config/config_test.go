package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptional_Missing(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", cfg.Schema)
	assert.Equal(t, DefaultMaxRenderPasses, cfg.Runtime.MaxRenderPasses)
	assert.Equal(t, "root", cfg.App.Container)
	assert.False(t, cfg.Runtime.SyncUpdates)
}

func TestLoadOptional_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
schema: "1.2"
app:
  name: todo
  container: app
runtime:
  sync_updates: true
  max_render_passes: 10
  debug: true
  verbose_errors: true
`)
	cfg, err := LoadOptional(dir)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", cfg.Schema)
	assert.Equal(t, "todo", cfg.App.Name)
	assert.Equal(t, "app", cfg.App.Container)
	assert.Equal(t, RuntimeConfig{SyncUpdates: true, MaxRenderPasses: 10, Debug: true, VerboseErrors: true}, cfg.Runtime)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"unsupported major", "schema: v2.0.0\n", "unsupported schema v2.0.0"},
		{"invalid schema", "schema: banana\n", "invalid schema version"},
		{"negative passes", "runtime:\n  max_render_passes: -1\n", "must not be negative"},
		{"unknown field", "runtime:\n  turbo: true\n", "field turbo not found"},
		{"malformed", "runtime: [\n", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", cfg.Schema)
}

func TestLoad_ReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "schema: v9\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestResolve_DefaultsAppNameFromModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/acme/dashboard/v2\n\ngo 1.25\n")

	res, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, "example.com/acme/dashboard/v2", res.ModulePath)
	assert.Equal(t, "dashboard", res.App.Name)
}

func TestResolve_WithoutModule(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "widgets")
	require.NoError(t, os.Mkdir(dir, 0o755))

	res, err := Resolve(dir)
	require.NoError(t, err)
	assert.Empty(t, res.ModulePath)
	assert.Equal(t, "widgets", res.App.Name)
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindRoot(nested)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}
