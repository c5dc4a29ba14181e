// Package registry implements the Module Scanner & Registry (spec §4.9):
// merging a registered-modules index with on-disk discovery into a
// Name → ModuleInfo map. Adapted from the teacher's internal/project
// registry (JSON-backed index with mutex-guarded in-memory map), with the
// project lifecycle CRUD replaced by the spec's four merge sources.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

// ModuleInfo is a game/module known to the engine (spec §3 ModuleInfo).
type ModuleInfo struct {
	Name         string
	ID           string
	GameRoot     string
	OpsFile      string
	ExePath      string
	Title        string
	URL          string
	IsRegistered bool
	IsInstalled  bool
	IsBuilt      bool
	IsUnverified bool
	IsInternal   bool
}

// FilterMode selects a subset of the scanned modules (spec §4.9).
type FilterMode string

const (
	All        FilterMode = "all"
	Installed  FilterMode = "installed"
	Uninstalled FilterMode = "uninstalled"
	Unverified FilterMode = "unverified"
	Registered FilterMode = "registered"
	Built      FilterMode = "built"
)

type registeredEntry struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Scan produces Name → ModuleInfo merging, in order: the central
// registered-modules index, on-disk "installed" discovery, "built"
// discovery, and standalone ops modules (spec §4.9).
func Scan(paths config.Paths) (map[string]*ModuleInfo, error) {
	modules := map[string]*ModuleInfo{}

	if err := mergeRegisteredIndex(paths, modules); err != nil {
		return nil, err
	}
	mergeInstalledDiscovery(paths, modules)
	mergeBuiltDiscovery(paths, modules)
	mergeStandaloneOps(paths, modules)

	for _, m := range modules {
		m.IsUnverified = m.IsInstalled && !m.IsRegistered
	}
	return modules, nil
}

func mergeRegisteredIndex(paths config.Paths, modules map[string]*ModuleInfo) error {
	data, err := os.ReadFile(paths.ToolsManifest())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("registry: read tools manifest: %w", err)
	}

	var entries map[string]registeredEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("registry: parse tools manifest: %w", err)
	}

	for name, entry := range entries {
		m := &ModuleInfo{
			Name:         name,
			ID:           entry.ID,
			GameRoot:     entry.Path,
			URL:          entry.URL,
			IsRegistered: true,
		}
		if m.GameRoot == "" {
			m.GameRoot = paths.GameRoot(name)
		}
		if ops := findOpsFile(m.GameRoot); ops != "" {
			m.OpsFile = ops
		}
		modules[name] = m
	}
	return nil
}

func mergeInstalledDiscovery(paths config.Paths, modules map[string]*ModuleInfo) {
	entries, err := os.ReadDir(paths.GamesDir())
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		gameRoot := paths.GameRoot(name)
		ops := findOpsFile(gameRoot)
		if ops == "" {
			continue
		}
		m, ok := modules[name]
		if !ok {
			m = &ModuleInfo{Name: name, GameRoot: gameRoot}
			modules[name] = m
		}
		m.OpsFile = ops
		m.IsInstalled = true
	}
}

func mergeBuiltDiscovery(paths config.Paths, modules map[string]*ModuleInfo) {
	for name, m := range modules {
		if !m.IsInstalled {
			continue
		}
		gameFile := paths.ModuleGameFile(name)
		data, err := os.ReadFile(gameFile)
		if err != nil {
			continue
		}
		var parsed map[string]string
		if err := toml.Unmarshal(data, &parsed); err != nil {
			continue
		}
		exe := firstNonEmpty(parsed["exe"], parsed["executable"])
		if exe == "" {
			continue
		}
		if !filepath.IsAbs(exe) {
			exe = filepath.Join(m.GameRoot, exe)
		}
		if info, err := os.Stat(exe); err == nil && !info.IsDir() {
			m.ExePath = exe
			m.IsBuilt = true
		}
	}
}

func mergeStandaloneOps(paths config.Paths, modules map[string]*ModuleInfo) {
	entries, err := os.ReadDir(paths.StandaloneOpsDir())
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".toml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		modules[name] = &ModuleInfo{
			Name:         name,
			OpsFile:      filepath.Join(paths.StandaloneOpsDir(), e.Name()),
			IsInternal:   true,
			IsInstalled:  true,
			IsRegistered: true,
		}
	}
}

func findOpsFile(gameRoot string) string {
	if toml := filepath.Join(gameRoot, "operations.toml"); fileExists(toml) {
		return toml
	}
	if js := filepath.Join(gameRoot, "operations.json"); fileExists(js) {
		return js
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Filter applies mode to the scanned module map, returning a stable,
// name-sorted slice.
func Filter(modules map[string]*ModuleInfo, mode FilterMode) []*ModuleInfo {
	var out []*ModuleInfo
	for _, m := range modules {
		switch mode {
		case Installed:
			if !m.IsInstalled {
				continue
			}
		case Uninstalled:
			if m.IsInstalled {
				continue
			}
		case Unverified:
			if !m.IsUnverified {
				continue
			}
		case Registered:
			if !m.IsRegistered {
				continue
			}
		case Built:
			if !m.IsBuilt {
				continue
			}
		}
		out = append(out, m)
	}
	sortByName(out)
	return out
}

func sortByName(modules []*ModuleInfo) {
	for i := 1; i < len(modules); i++ {
		for j := i; j > 0 && modules[j-1].Name > modules[j].Name; j-- {
			modules[j-1], modules[j] = modules[j], modules[j-1]
		}
	}
}
