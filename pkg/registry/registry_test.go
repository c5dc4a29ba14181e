package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

func setupModule(t *testing.T, root, name string, withOps, registered bool) {
	t.Helper()
	gameRoot := filepath.Join(root, "EngineApps", "Games", name)
	require.NoError(t, os.MkdirAll(gameRoot, 0o755))
	if withOps {
		require.NoError(t, os.WriteFile(filepath.Join(gameRoot, "operations.toml"), []byte("[[setup]]\nName=\"x\"\n"), 0o644))
	}
	if registered {
		manifestDir := filepath.Join(root, "EngineApps", "Registries", "Tools")
		require.NoError(t, os.MkdirAll(manifestDir, 0o755))
		manifestPath := filepath.Join(manifestDir, "Main.json")
		entries := map[string]any{}
		if data, err := os.ReadFile(manifestPath); err == nil {
			require.NoError(t, json.Unmarshal(data, &entries))
		}
		entries[name] = map[string]string{"id": "1", "path": "", "url": "https://example.test/" + name}
		data, err := json.Marshal(entries)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(manifestPath, data, 0o644))
	}
}

func TestScanMarksUnverifiedWhenInstalledButNotRegistered(t *testing.T) {
	root := t.TempDir()
	setupModule(t, root, "zombies", true, false)

	modules, err := Scan(config.NewPaths(root))
	require.NoError(t, err)

	m, ok := modules["zombies"]
	require.True(t, ok)
	assert.True(t, m.IsInstalled)
	assert.False(t, m.IsRegistered)
	assert.True(t, m.IsUnverified)
}

func TestScanRegisteredAndInstalledIsNotUnverified(t *testing.T) {
	root := t.TempDir()
	setupModule(t, root, "zombies", true, true)

	modules, err := Scan(config.NewPaths(root))
	require.NoError(t, err)

	m := modules["zombies"]
	assert.True(t, m.IsRegistered)
	assert.True(t, m.IsInstalled)
	assert.False(t, m.IsUnverified)
}

func TestScanRegisteredWithoutOpsFileIsNotInstalled(t *testing.T) {
	root := t.TempDir()
	setupModule(t, root, "zombies", false, true)

	modules, err := Scan(config.NewPaths(root))
	require.NoError(t, err)

	m := modules["zombies"]
	assert.True(t, m.IsRegistered)
	assert.False(t, m.IsInstalled)
	assert.False(t, m.IsUnverified)
}

func TestFilterReturnsStableNameSortedSubset(t *testing.T) {
	root := t.TempDir()
	setupModule(t, root, "zebra", true, true)
	setupModule(t, root, "apple", true, false)
	setupModule(t, root, "mango", false, true)

	modules, err := Scan(config.NewPaths(root))
	require.NoError(t, err)

	installed := Filter(modules, Installed)
	require.Len(t, installed, 2)
	assert.Equal(t, "apple", installed[0].Name)
	assert.Equal(t, "zebra", installed[1].Name)

	unverified := Filter(modules, Unverified)
	require.Len(t, unverified, 1)
	assert.Equal(t, "apple", unverified[0].Name)

	all := Filter(modules, All)
	assert.Len(t, all, 3)
}
