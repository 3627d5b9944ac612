package lumen

import (
	"github.com/gekko3d/lumen/config"
)

// DefaultModules returns the module set that animates cfg: logging, clock,
// mode, scene and image loading, in dependency order.
func DefaultModules(cfg *config.Config) []Module {
	return []Module{
		LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
		TimeModule{
			MaxFrameDelta: float32(cfg.Time.MaxFrameDelta),
			FixedDt:       float32(cfg.Time.FixedDt),
		},
		ModeModule{Initial: cfg.Derived.InitialMode},
		SceneModule{Config: cfg},
		ImageModuleFromConfig(cfg),
	}
}
