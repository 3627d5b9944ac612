package lumen

import (
	"context"

	"github.com/gekko3d/lumen/config"
	"github.com/gekko3d/lumen/morph/silhouette"
)

// ImageLoader is the resource through which collaborators submit images.
// Extraction happens off the frame loop; completed point sets are installed
// into the scene's image layer by imageInstallSystem.
type ImageLoader struct {
	*silhouette.Loader
}

// ImageModule needs the Scene resource, so install it after SceneModule.
type ImageModule struct {
	Params      silhouette.Params
	LoadDefault bool
	Seed        int64
}

// ImageModuleFromConfig maps the silhouette section of cfg onto the module.
func ImageModuleFromConfig(cfg *config.Config) ImageModule {
	s := cfg.Silhouette
	return ImageModule{
		Params: silhouette.Params{
			WorkingSize:    s.WorkingSize,
			MaxPixels:      s.MaxPixels,
			AlphaThreshold: uint8(min(max(s.AlphaThreshold, 0), 255)),
			DarkThreshold:  float32(s.DarkThreshold),
			EdgeThreshold:  float32(s.EdgeThreshold),
			Scale:          float32(s.Scale),
			YOffset:        float32(s.YOffset),
			DepthJitter:    float32(s.DepthJitter),
		},
		LoadDefault: s.LoadDefault,
		Seed:        cfg.Seed,
	}
}

func (mod ImageModule) Install(app *App, cmd *Commands) {
	scene, ok := Resource[Scene](app)
	if !ok {
		panic("ImageModule requires the Scene resource; install SceneModule first")
	}
	targetCount := 0
	if sl, ok := scene.Layer(scene.ImageLayer); ok {
		targetCount = sl.Layer.Count
	}

	seed := mod.Seed
	if seed == 0 {
		seed = scene.Seed
	}
	extractor := &silhouette.Extractor{Params: mod.Params, Log: app.Logger()}
	loader := &ImageLoader{silhouette.NewLoader(context.Background(), extractor, targetCount, seed)}
	cmd.AddResources(loader)
	app.OnShutdown(loader.Close)

	if mod.LoadDefault {
		loader.SubmitImage(silhouette.DefaultAsset())
	}

	app.UseSystem(
		System(imageInstallSystem).
			InStage(PreUpdate),
	)
}

// SubmitDefault queues the bundled silhouette.
func (l *ImageLoader) SubmitDefault() uint64 {
	return l.SubmitImage(silhouette.DefaultAsset())
}

func imageInstallSystem(images *ImageLoader, scene *Scene, cmd *Commands) {
	ps, ok := images.Poll()
	if !ok {
		return
	}
	log := cmd.Logger()
	if !ps.OK() {
		log.Warnf("point set %s (token %d) unusable: %v; keeping fallback", ps.ID, ps.Token, ps.Err)
		return
	}
	if !scene.InstallImage(ps.Points) {
		log.Warnf("point set %s has %d values, image layer %q does not match; ignored",
			ps.ID, len(ps.Points), scene.ImageLayer)
		return
	}
	log.Infof("installed point set %s into %s (%d points, %s)",
		ps.ID, scene.ImageLayer, len(ps.Points)/3, ps.Elapsed)
}
