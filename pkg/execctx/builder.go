// Package execctx builds the per-operation execution context map (spec
// §4.2): engine config, built-in path injections, and per-module TOML
// placeholders, merged so the outer (built-in) context always wins.
package execctx

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/yggdrasil-au/remake-operator/internal/config"
	"github.com/yggdrasil-au/remake-operator/pkg/value"
)

// Module is the subset of ModuleInfo the context builder needs.
type Module struct {
	Name     string
	GameRoot string
}

// Build assembles a fresh context map for one operation invocation.
//
// Errors: an unknown module (empty GameRoot) is fatal only for the caller
// of Build, not for the process — it returns an error the caller surfaces
// as a resolution error (spec §7).
func Build(cfg *config.EngineConfig, paths config.Paths, mod Module) (value.Mapping, error) {
	if mod.GameRoot == "" {
		return value.Mapping{}, fmt.Errorf("execctx: unknown module %q (no game root)", mod.Name)
	}

	ctx := value.NewMapping()

	// Seed with a copy of EngineConfig.
	for k, v := range cfg.AsMap() {
		ctx.Set(k, value.FromNative(v))
	}

	ctx.Set("Game_Root", value.Str(mod.GameRoot))
	ctx.Set("Project_Root", value.Str(paths.Root))
	ctx.Set("Registry_Root", value.Str(paths.RegistryRoot()))

	game := value.NewMapping()
	game.Set("Name", value.Str(mod.Name))
	game.Set("RootPath", value.Str(mod.GameRoot))
	ctx.Set("Game", value.Map(game))

	remakeCfg := value.NewMapping()
	remakeCfg.Set("module_path", value.Str(mod.GameRoot))
	remakeCfg.Set("project_path", value.Str(paths.Root))
	remakeEngine := value.NewMapping()
	remakeEngine.Set("Config", value.Map(remakeCfg))
	ctx.Set("RemakeEngine", value.Map(remakeEngine))

	moduleCfgPath := paths.ModuleConfigFile(mod.Name)
	if data, err := os.ReadFile(moduleCfgPath); err == nil {
		var parsed map[string]any
		if err := toml.Unmarshal(data, &parsed); err == nil {
			for k, v := range parsed {
				if _, exists := ctx.Get(k); !exists {
					ctx.Set(k, value.FromNative(v))
				}
			}
		}
	}

	return ctx, nil
}
