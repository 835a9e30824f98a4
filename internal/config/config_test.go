//nolint:testpackage // requires internal access to unexported types and functions
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 0, cfg.IndexCapacityHint)
	assert.Equal(t, int64(0), cfg.MaxBuildRows)
	assert.False(t, cfg.SelectBuildSide)
	assert.NoError(t, cfg.Validate())
}

func TestSetConfigRoundTrip(t *testing.T) {
	original := GetConfig()
	defer func() {
		require.NoError(t, SetConfig(original))
	}()

	cfg := Config{IndexCapacityHint: 1024, MaxBuildRows: 1 << 20, SelectBuildSide: true}
	require.NoError(t, SetConfig(cfg))
	assert.Equal(t, cfg, GetConfig())
}

func TestSetConfigRejectsInvalid(t *testing.T) {
	err := SetConfig(Config{IndexCapacityHint: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_capacity_hint")

	err = SetConfig(Config{MaxBuildRows: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_build_rows")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thetajoin.yaml")
	content := `
index_capacity_hint: 512
max_build_rows: 100000
select_build_side: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.IndexCapacityHint)
	assert.Equal(t, int64(100000), cfg.MaxBuildRows)
	assert.True(t, cfg.SelectBuildSide)
}

func TestLoadFromFileEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thetajoin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index_capacity_hint: 512\n"), 0o600))

	t.Setenv(envIndexCapacityHint, "2048")
	t.Setenv(envMaxBuildRows, "42")
	t.Setenv(envSelectBuildSide, "true")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.IndexCapacityHint)
	assert.Equal(t, int64(42), cfg.MaxBuildRows)
	assert.True(t, cfg.SelectBuildSide)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\t not yaml ["), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_build_rows: -5\n"), 0o600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}
