package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[ingest]
performance_policy = "merge"
this_year = 2027
`)
	cfg, info, err := LoadFrom(path)
	require.NoError(t, err)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, 20261, cfg.Server.Port)
	assert.Equal(t, "merge", cfg.Ingest.PerformancePolicy)
	assert.Equal(t, 2027, cfg.Ingest.ThisYear)
	assert.Equal(t, 32, cfg.Ingest.MaxUploadMB)
	assert.Equal(t, "strategiccategory.db", cfg.Data.DBFile)
}

func TestLoadFrom_PortSpecified(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 8080\n")
	cfg, info, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvPerformancePolicy, "merge")

	cfg, _, err := LoadFrom(writeConfig(t, "[ingest]\nperformance_policy = \"replace\"\n"))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Data.DataDir)
	assert.Equal(t, "merge", cfg.Ingest.PerformancePolicy)
	assert.Equal(t, filepath.Join(dir, "strategiccategory.db"), DBPath(cfg))
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]string{
		"policy":   "[ingest]\nperformance_policy = \"append\"\n",
		"port":     "[server]\nport = 70000\n",
		"encoding": "[ingest]\ncsv_fallback_encoding = \"latin1\"\n",
		"syntax":   "[server\nport = 1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := LoadFrom(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestEnsureDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dir, err := EnsureDataDir(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data.DataDir, dir)
	for _, sub := range []string{"uploads", "exports", "backups"} {
		st, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err)
		assert.True(t, st.IsDir())
	}
}
