// Package config provides process-wide configuration for the operator engine.
//
// EngineConfig is the process-wide configuration map described by the
// orchestrator's data model: a nested mapping loaded lazily from
// project.json, read-mostly thereafter, with case-insensitive key lookup.
// It is backed by spf13/viper, which gives the case-insensitive nested-key
// lookup natively instead of a hand-rolled map walk.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EngineConfig is the process-wide configuration map (spec §3 EngineConfig).
// It is never nil; malformed input yields an empty map rather than an error
// propagating to callers that only want to read settings.
type EngineConfig struct {
	v    *viper.Viper
	path string
}

// Empty returns a fresh, empty EngineConfig. Used as the fallback when no
// project.json exists or it fails to parse.
func Empty() *EngineConfig {
	return &EngineConfig{v: viper.New()}
}

// Load reads project.json from path and builds an EngineConfig. A missing
// or malformed file is not an error for the caller: it yields Empty().
func Load(path string) *EngineConfig {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return Empty()
	}

	return &EngineConfig{v: v, path: path}
}

// Get performs a case-insensitive dotted-path lookup, returning the raw
// value and whether it was present. Segments are matched case-insensitively
// because viper lower-cases keys internally.
func (c *EngineConfig) Get(dottedPath string) (any, bool) {
	if c == nil || c.v == nil {
		return nil, false
	}
	if !c.v.IsSet(dottedPath) {
		return nil, false
	}
	return c.v.Get(dottedPath), true
}

// GetString is a convenience typed accessor.
func (c *EngineConfig) GetString(dottedPath string) string {
	if c == nil || c.v == nil {
		return ""
	}
	return c.v.GetString(dottedPath)
}

// AsMap flattens the entire configuration into a nested map[string]any tree,
// suitable for seeding an execution context (spec §4.2).
func (c *EngineConfig) AsMap() map[string]any {
	if c == nil || c.v == nil {
		return map[string]any{}
	}
	return c.v.AllSettings()
}

// Path returns the file path the config was loaded from, or "" if Empty().
func (c *EngineConfig) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Paths mirrors the persisted state layout of spec §6.4, all rooted at the
// repository root the engine was started from.
type Paths struct {
	Root string
}

// NewPaths builds a Paths rooted at root (an absolute or relative repo root).
func NewPaths(root string) Paths {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return Paths{Root: abs}
}

// EngineApps returns "<root>/EngineApps".
func (p Paths) EngineApps() string { return filepath.Join(p.Root, "EngineApps") }

// GamesDir returns "<root>/EngineApps/Games".
func (p Paths) GamesDir() string { return filepath.Join(p.EngineApps(), "Games") }

// GameRoot returns "<root>/EngineApps/Games/<name>".
func (p Paths) GameRoot(name string) string { return filepath.Join(p.GamesDir(), name) }

// OpsFile returns the operations file path for a module, preferring TOML
// over JSON if both exist, matching spec §6.4's "operations.{toml,json}".
func (p Paths) OpsFile(name string) string {
	root := p.GameRoot(name)
	if toml := filepath.Join(root, "operations.toml"); fileExists(toml) {
		return toml
	}
	if js := filepath.Join(root, "operations.json"); fileExists(js) {
		return js
	}
	return ""
}

// ModuleConfigFile returns "<gameRoot>/config.toml".
func (p Paths) ModuleConfigFile(name string) string {
	return filepath.Join(p.GameRoot(name), "config.toml")
}

// ModuleGameFile returns "<gameRoot>/game.toml" (built-app descriptor).
func (p Paths) ModuleGameFile(name string) string {
	return filepath.Join(p.GameRoot(name), "game.toml")
}

// ToolsManifest returns "<root>/EngineApps/Registries/Tools/Main.json".
func (p Paths) ToolsManifest() string {
	return filepath.Join(p.EngineApps(), "Registries", "Tools", "Main.json")
}

// StandaloneOpsDir returns "<root>/EngineApps/Registries/ops".
func (p Paths) StandaloneOpsDir() string {
	return filepath.Join(p.EngineApps(), "Registries", "ops")
}

// ProjectConfigFile returns "<root>/project.json".
func (p Paths) ProjectConfigFile() string { return filepath.Join(p.Root, "project.json") }

// LogsDir returns "<root>/logs/<frontend>/<timestamp>", the directory a
// single run's structured logs live under (spec §6.4).
func (p Paths) LogsDir(frontend, timestamp string) string {
	return filepath.Join(p.Root, "logs", frontend, timestamp)
}

// RegistryRoot returns "<root>/EngineApps", the value injected into the
// execution context as Registry_Root (spec §4.2).
func (p Paths) RegistryRoot() string { return p.EngineApps() }

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnvOverride reads an environment variable override for a dotted config
// path, following the OPERATOR_<SEGMENTS> convention (uppercase, dots to
// underscores), matching the teacher's ITER_HOST/ITER_PORT pattern.
func EnvOverride(dottedPath string) (string, bool) {
	key := "OPERATOR_" + strings.ToUpper(strings.ReplaceAll(dottedPath, ".", "_"))
	v := os.Getenv(key)
	return v, v != ""
}
