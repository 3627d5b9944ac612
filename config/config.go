// Package config provides configuration loading for the tree scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/shape"
	"github.com/gekko3d/lumen/morph/transition"
	"github.com/go-gl/mathgl/mgl32"
	css "github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every scene parameter.
type Config struct {
	Seed       int64            `yaml:"seed"`
	Tree       TreeConfig       `yaml:"tree"`
	Transition TransitionConfig `yaml:"transition"`
	Mixer      MixerConfig      `yaml:"mixer"`
	Silhouette SilhouetteConfig `yaml:"silhouette"`
	Time       TimeConfig       `yaml:"time"`
	Log        LogConfig        `yaml:"log"`
	Gifts      GiftConfig       `yaml:"gifts"`
	Layers     []LayerConfig    `yaml:"layers"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// TreeConfig is the cone every formed configuration is swept through.
type TreeConfig struct {
	Bottom     float64 `yaml:"bottom"`
	Height     float64 `yaml:"height"`
	BaseRadius float64 `yaml:"base_radius"`
}

type TransitionConfig struct {
	ImageRate      float64 `yaml:"image_rate"`      // imageMix smoothing rate (1/s)
	VisibilityRate float64 `yaml:"visibility_rate"` // visibility smoothing rate (1/s)
	InitialMode    string  `yaml:"initial_mode"`
}

type MixerConfig struct {
	Sway           float64 `yaml:"sway"`
	Idle           float64 `yaml:"idle"`
	NearOne        float64 `yaml:"near_one"`
	Settle         float64 `yaml:"settle"`
	ImageSizeScale float64 `yaml:"image_size_scale"`
	Highlight      string  `yaml:"highlight"`
	SnowSpeed      float64 `yaml:"snow_speed"`
}

type SilhouetteConfig struct {
	WorkingSize    int     `yaml:"working_size"`
	MaxPixels      int64   `yaml:"max_pixels"` // larger uploads are rejected before decoding
	AlphaThreshold int     `yaml:"alpha_threshold"`
	DarkThreshold  float64 `yaml:"dark_threshold"`
	EdgeThreshold  float64 `yaml:"edge_threshold"`
	Scale          float64 `yaml:"scale"`
	YOffset        float64 `yaml:"y_offset"`
	DepthJitter    float64 `yaml:"depth_jitter"`
	LoadDefault    bool    `yaml:"load_default"` // extract the bundled star at startup
}

type TimeConfig struct {
	MaxFrameDelta float64 `yaml:"max_frame_delta"` // clamp on a single frame's dt
	FixedDt       float64 `yaml:"fixed_dt"`        // >0 ignores the wall clock
}

type LogConfig struct {
	Prefix string `yaml:"prefix"`
	Debug  bool   `yaml:"debug"`
}

type GiftConfig struct {
	Count        int      `yaml:"count"`
	Rate         float64  `yaml:"rate"`
	SizeMin      float64  `yaml:"size_min"`
	SizeMax      float64  `yaml:"size_max"`
	ScatterInner float64  `yaml:"scatter_inner"`
	ScatterOuter float64  `yaml:"scatter_outer"`
	Colors       []string `yaml:"colors"`
	TrimColors   []string `yaml:"trim_colors"`
}

// LayerConfig describes one particle layer. Fields that do not apply to the
// layer's shape are ignored.
type LayerConfig struct {
	Name        string  `yaml:"name"`
	Shape       string  `yaml:"shape"`
	Count       int     `yaml:"count"`
	Rate        float64 `yaml:"rate"`
	Semantic    string  `yaml:"semantic"`     // two_way (default) or three_way
	KeepVisible bool    `yaml:"keep_visible"` // stay visible in image mode
	SizeVarying bool    `yaml:"size_varying"` // shrink toward fine dots in image mode
	Falling     bool    `yaml:"falling"`

	Stratified   bool    `yaml:"stratified"`
	HeightMin    float64 `yaml:"height_min"`
	HeightMax    float64 `yaml:"height_max"`
	Offset       float64 `yaml:"offset"`
	Turns        float64 `yaml:"turns"`
	ScatterInner float64 `yaml:"scatter_inner"`
	ScatterOuter float64 `yaml:"scatter_outer"`
	SizeMin      float64 `yaml:"size_min"`
	SizeMax      float64 `yaml:"size_max"`
	Rotate       bool    `yaml:"rotate"`
	FloorRadius  float64 `yaml:"floor_radius"`
	SnowRadius   float64 `yaml:"snow_radius"`
	SnowTop      float64 `yaml:"snow_top"`

	Color  string   `yaml:"color"`
	Colors []string `yaml:"colors"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	InitialMode      core.Mode
	Highlight        mgl32.Vec3
	Layers           []DerivedLayer // parallel to Config.Layers
	GiftColors       []mgl32.Vec3
	GiftTrimColors   []mgl32.Vec3
	ImageLayer       string // name of the three_way layer, "" if none
	ImageTargetCount int    // particle count of ImageLayer
}

type DerivedLayer struct {
	Kind      shape.Kind
	Semantic  transition.Semantic
	BaseColor mgl32.Vec3
	Palette   []mgl32.Vec3
}

var ErrInvalid = errors.New("config: invalid")

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. A user file that lists
// layers replaces the default layer list as a whole.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse is Load for in-memory YAML layered over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

func (c *Config) computeDerived() error {
	d := DerivedConfig{}

	mode, err := core.ParseMode(c.Transition.InitialMode)
	if c.Transition.InitialMode == "" {
		mode, err = core.Formed, nil
	}
	if err != nil {
		return fmt.Errorf("%w: transition.initial_mode: %v", ErrInvalid, err)
	}
	d.InitialMode = mode

	if d.Highlight, err = ParseColor(c.Mixer.Highlight); err != nil {
		return fmt.Errorf("%w: mixer.highlight: %v", ErrInvalid, err)
	}
	if d.GiftColors, err = ParsePalette(c.Gifts.Colors); err != nil {
		return fmt.Errorf("%w: gifts.colors: %v", ErrInvalid, err)
	}
	if d.GiftTrimColors, err = ParsePalette(c.Gifts.TrimColors); err != nil {
		return fmt.Errorf("%w: gifts.trim_colors: %v", ErrInvalid, err)
	}

	seen := make(map[string]bool, len(c.Layers))
	for i, lc := range c.Layers {
		if lc.Name == "" {
			return fmt.Errorf("%w: layers[%d] has no name", ErrInvalid, i)
		}
		if seen[lc.Name] {
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalid, lc.Name)
		}
		seen[lc.Name] = true
		if lc.Count < 0 {
			return fmt.Errorf("%w: layer %q: negative count", ErrInvalid, lc.Name)
		}
		if lc.Rate < 0 {
			return fmt.Errorf("%w: layer %q: negative rate", ErrInvalid, lc.Name)
		}

		dl := DerivedLayer{BaseColor: mgl32.Vec3{1, 1, 1}}
		if dl.Kind, err = shape.ParseKind(lc.Shape); err != nil {
			return fmt.Errorf("%w: layer %q: %v", ErrInvalid, lc.Name, err)
		}
		if dl.Semantic, err = transition.ParseSemantic(lc.Semantic); err != nil {
			return fmt.Errorf("%w: layer %q: %v", ErrInvalid, lc.Name, err)
		}
		if lc.Color != "" {
			if dl.BaseColor, err = ParseColor(lc.Color); err != nil {
				return fmt.Errorf("%w: layer %q color: %v", ErrInvalid, lc.Name, err)
			}
		}
		if dl.Palette, err = ParsePalette(lc.Colors); err != nil {
			return fmt.Errorf("%w: layer %q colors: %v", ErrInvalid, lc.Name, err)
		}

		if dl.Semantic == transition.ThreeWay {
			if d.ImageLayer != "" {
				return fmt.Errorf("%w: layers %q and %q both render the image", ErrInvalid, d.ImageLayer, lc.Name)
			}
			d.ImageLayer = lc.Name
			d.ImageTargetCount = lc.Count
		}
		d.Layers = append(d.Layers, dl)
	}

	c.Derived = d
	return nil
}

// ParseColor reads a CSS colour ("#ffd700", "gold", "rgb(...)") as rgb in [0,1].
func ParseColor(s string) (mgl32.Vec3, error) {
	c, err := css.Parse(s)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

func ParsePalette(colors []string) ([]mgl32.Vec3, error) {
	if len(colors) == 0 {
		return nil, nil
	}
	out := make([]mgl32.Vec3, 0, len(colors))
	for _, s := range colors {
		c, err := ParseColor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
