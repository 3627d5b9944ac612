package lumen

import (
	"context"
	"fmt"
	"time"

	"github.com/gekko3d/lumen/config"
	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/mix"
	"github.com/gekko3d/lumen/morph/shape"
	"github.com/gekko3d/lumen/morph/transition"
	"github.com/gekko3d/lumen/telemetry"
	"golang.org/x/sync/errgroup"
)

const giftLayerPrefix = "gift"

// SceneLayer is one animated group: immutable targets, its blend state,
// its visual treatment and the instances mixed for the current frame.
type SceneLayer struct {
	Layer     *shape.Layer
	State     *transition.State
	Style     mix.Style
	Instances []core.ParticleInstance
	Gift      *shape.GiftBox
}

func (sl *SceneLayer) Weights() mix.Weights {
	return mix.Weights{
		Progress:   sl.State.Progress.Value,
		ImageMix:   sl.State.ImageMix.Value,
		Visibility: sl.State.Visibility.Value,
	}
}

// Scene is the resource holding every layer of the tree.
type Scene struct {
	Layers     []*SceneLayer
	Controller *transition.Controller
	Mixer      *mix.Mixer
	Gifts      []shape.GiftBox
	// ImageLayer names the layer that receives extracted point sets.
	ImageLayer string
	Seed       int64

	index map[string]int
}

func (s *Scene) Layer(name string) (*SceneLayer, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Layers[i], true
}

// Aligned reports whether every layer still has index-aligned buffers.
func (s *Scene) Aligned() bool {
	for _, sl := range s.Layers {
		if !sl.Layer.Aligned() {
			return false
		}
	}
	return true
}

// Advance runs the controller for one frame.
func (s *Scene) Advance(frame transition.FrameContext) bool {
	return s.Controller.Update(frame)
}

// Mix recomputes the instances of every layer.
func (s *Scene) Mix(elapsed float64) {
	for _, sl := range s.Layers {
		sl.Instances = s.Mixer.Mix(sl.Layer, sl.Style, sl.Weights(), elapsed, sl.Instances)
	}
}

// InstallImage hands points to the image layer. It reports false when the
// scene has no image layer or the length does not match that layer.
func (s *Scene) InstallImage(points []float32) bool {
	sl, ok := s.Layer(s.ImageLayer)
	if !ok {
		return false
	}
	return sl.Layer.InstallImage(points)
}

func (s *Scene) add(sl *SceneLayer) {
	s.index[sl.Layer.Name] = len(s.Layers)
	s.Layers = append(s.Layers, sl)
	s.Controller.Register(sl.Layer.Name, sl.State)
}

// BuildScene generates every layer described by cfg. Layers are generated
// concurrently, each from its own seed stream, so the result depends only on
// seed and cfg.
func BuildScene(ctx context.Context, cfg *config.Config, seed int64, log Logger) (*Scene, error) {
	if log == nil {
		log = NewNopLogger()
	}
	start := time.Now()

	layers := make([]*shape.Layer, len(cfg.Layers))
	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.Layers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := core.NewRand(core.DeriveSeed(seed, i))
			layers[i] = shape.Generate(cfg.Layers[i].Name, shapeParams(cfg, i), rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generating layers: %w", err)
	}

	scene := &Scene{
		Controller: transition.NewController(),
		Mixer:      mix.NewMixer(mixParams(cfg)),
		ImageLayer: cfg.Derived.ImageLayer,
		Seed:       seed,
		index:      make(map[string]int),
	}
	mode := cfg.Derived.InitialMode
	for i, l := range layers {
		lc, dl := cfg.Layers[i], cfg.Derived.Layers[i]
		scene.add(&SceneLayer{
			Layer: l,
			State: transition.NewState(transitionProfile(cfg, i), mode),
			Style: mix.Style{
				BaseColor:   dl.BaseColor,
				SizeVarying: lc.SizeVarying,
				Falling:     lc.Falling,
			},
		})
		log.Debugf("layer %s: %s", l.Name, telemetry.Describe(l))
	}

	giftRng := core.NewRand(core.DeriveSeed(seed, len(layers)))
	scene.Gifts = shape.GenerateGifts(giftParams(cfg), treeShape(cfg), giftRng)
	giftProfile := transition.Profile{
		Semantic: transition.TwoWay,
		Rates: transition.Rates{
			Progress:   float32(cfg.Gifts.Rate),
			Visibility: float32(cfg.Transition.VisibilityRate),
		},
	}
	for i := range scene.Gifts {
		box := &scene.Gifts[i]
		scene.add(&SceneLayer{
			Layer: box.Layer(shape.GiftLayerName(giftLayerPrefix, i)),
			State: transition.NewState(giftProfile, mode),
			Style: mix.Style{BaseColor: box.Color},
			Gift:  box,
		})
	}

	log.Infof("built %d layers (%d gifts) in %s, seed %d",
		len(scene.Layers), len(scene.Gifts), time.Since(start).Round(time.Microsecond), seed)
	return scene, nil
}

func treeShape(cfg *config.Config) shape.Tree {
	return shape.Tree{
		Bottom:     float32(cfg.Tree.Bottom),
		Height:     float32(cfg.Tree.Height),
		BaseRadius: float32(cfg.Tree.BaseRadius),
	}
}

func shapeParams(cfg *config.Config, i int) shape.Params {
	lc, dl := cfg.Layers[i], cfg.Derived.Layers[i]
	return shape.Params{
		Kind:         dl.Kind,
		Count:        lc.Count,
		Tree:         treeShape(cfg),
		HeightMin:    float32(lc.HeightMin),
		HeightMax:    float32(lc.HeightMax),
		Offset:       float32(lc.Offset),
		Turns:        float32(lc.Turns),
		Stratified:   lc.Stratified,
		ScatterInner: float32(lc.ScatterInner),
		ScatterOuter: float32(lc.ScatterOuter),
		SizeMin:      float32(lc.SizeMin),
		SizeMax:      float32(lc.SizeMax),
		Rotate:       lc.Rotate,
		Palette:      dl.Palette,
		FloorRadius:  float32(lc.FloorRadius),
		SnowRadius:   float32(lc.SnowRadius),
		SnowTop:      float32(lc.SnowTop),
	}
}

func transitionProfile(cfg *config.Config, i int) transition.Profile {
	lc, dl := cfg.Layers[i], cfg.Derived.Layers[i]
	return transition.Profile{
		Semantic: dl.Semantic,
		Rates: transition.Rates{
			Progress:   float32(lc.Rate),
			ImageMix:   float32(cfg.Transition.ImageRate),
			Visibility: float32(cfg.Transition.VisibilityRate),
		},
		KeepVisibleInImage: lc.KeepVisible,
	}
}

func giftParams(cfg *config.Config) shape.GiftParams {
	return shape.GiftParams{
		Count:        cfg.Gifts.Count,
		SizeMin:      float32(cfg.Gifts.SizeMin),
		SizeMax:      float32(cfg.Gifts.SizeMax),
		ScatterInner: float32(cfg.Gifts.ScatterInner),
		ScatterOuter: float32(cfg.Gifts.ScatterOuter),
		Palette:      cfg.Derived.GiftColors,
		TrimPalette:  cfg.Derived.GiftTrimColors,
	}
}

func mixParams(cfg *config.Config) mix.Params {
	snowBottom, snowTop := float32(cfg.Tree.Bottom), float32(cfg.Tree.Bottom+cfg.Tree.Height)
	for _, lc := range cfg.Layers {
		if lc.Falling && lc.SnowTop != 0 {
			snowTop = float32(lc.SnowTop)
		}
	}
	return mix.Params{
		Sway:           float32(cfg.Mixer.Sway),
		Idle:           float32(cfg.Mixer.Idle),
		NearOne:        float32(cfg.Mixer.NearOne),
		Settle:         float32(cfg.Mixer.Settle),
		ImageSizeScale: float32(cfg.Mixer.ImageSizeScale),
		Highlight:      cfg.Derived.Highlight,
		SnowSpeed:      float32(cfg.Mixer.SnowSpeed),
		SnowBottom:     snowBottom,
		SnowTop:        snowTop,
	}
}

// SceneModule builds the scene from Config and schedules the transition
// and mix systems. Seed 0 falls back to the config seed, then to the clock.
type SceneModule struct {
	Config *config.Config
	Seed   int64
}

func (mod SceneModule) Install(app *App, cmd *Commands) {
	cfg := mod.Config
	if cfg == nil {
		cfg = config.MustLoad("")
	}
	seed := mod.Seed
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scene, err := BuildScene(context.Background(), cfg, seed, app.Logger())
	if err != nil {
		panic(fmt.Sprintf("scene: %v", err))
	}
	cmd.AddResources(scene)

	app.UseSystem(
		System(transitionSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(mixSystem).
			InStage(PostUpdate),
	)
}

func transitionSystem(t *Time, mode *ModeState, scene *Scene, cmd *Commands) {
	frame := transition.FrameContext{Mode: mode.Current(), Dt: t.Dt, Elapsed: t.Elapsed}
	if !scene.Advance(frame) {
		cmd.Logger().Warnf("skipping frame %d: dt %v", cmd.Frame(), t.Dt)
	}
}

func mixSystem(t *Time, scene *Scene) {
	scene.Mix(t.Elapsed)
}
