package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 22, cfg.Search.MaxSteps(4))
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "automata.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[search]
max-steps-factor = 5

[draw]
output-dir = "graphs"
format = "svg"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, 5, cfg.Search.MaxStepsFactor)
	require.Equal(t, 10, cfg.Search.MaxStepsOffset)
	require.Equal(t, "graphs", cfg.Draw.OutputDir)
	require.Equal(t, "svg", cfg.Draw.Format)
	require.Equal(t, "dot", cfg.Draw.DotBinary)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[search]\nbudget = 3\n"), 0644))
	_, err := Load(path)
	require.ErrorContains(t, err, "unknown keys")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Search.MaxStepsFactor = -1
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Search = Search{}
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Draw.OutputDir = ""
	require.Error(t, cfg.Validate())
}
