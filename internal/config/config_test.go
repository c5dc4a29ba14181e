package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NotNil(t, cfg)
	assert.Equal(t, "", cfg.GetString("anything"))
	_, ok := cfg.Get("anything")
	assert.False(t, ok)
}

func TestLoadMalformedJSONYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg := Load(path)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.AsMap())
}

func TestLoadValidJSONCaseInsensitiveGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Logging": {"Level": "debug"}}`), 0o644))

	cfg := Load(path)
	assert.Equal(t, "debug", cfg.GetString("logging.level"))
	assert.Equal(t, "debug", cfg.GetString("Logging.Level"))

	v, ok := cfg.Get("logging.level")
	require.True(t, ok)
	assert.Equal(t, "debug", v)
}

func TestEmptyConfigNeverPanicsOnNilReceiver(t *testing.T) {
	var cfg *EngineConfig
	assert.Equal(t, "", cfg.GetString("x"))
	assert.Equal(t, "", cfg.Path())
	assert.Empty(t, cfg.AsMap())
	_, ok := cfg.Get("x")
	assert.False(t, ok)
}

func TestPathsLayoutMatchesSpecSixFour(t *testing.T) {
	paths := NewPaths("/repo")
	assert.Equal(t, filepath.Join("/repo", "EngineApps"), paths.EngineApps())
	assert.Equal(t, filepath.Join("/repo", "EngineApps", "Games"), paths.GamesDir())
	assert.Equal(t, filepath.Join("/repo", "EngineApps", "Games", "zombies"), paths.GameRoot("zombies"))
	assert.Equal(t, filepath.Join("/repo", "project.json"), paths.ProjectConfigFile())
}

func TestPathsOpsFilePrefersTomlOverJson(t *testing.T) {
	root := t.TempDir()
	paths := NewPaths(root)
	gameRoot := paths.GameRoot("zombies")
	require.NoError(t, os.MkdirAll(gameRoot, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gameRoot, "operations.toml"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(gameRoot, "operations.json"), []byte("[]"), 0o644))

	assert.Equal(t, filepath.Join(gameRoot, "operations.toml"), paths.OpsFile("zombies"))
}

func TestPathsOpsFileEmptyWhenNeitherExists(t *testing.T) {
	root := t.TempDir()
	paths := NewPaths(root)
	assert.Equal(t, "", paths.OpsFile("zombies"))
}
