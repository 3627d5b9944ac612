package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/shape"
	"github.com/gekko3d/lumen/morph/transition"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 11.0, cfg.Tree.Height)
	assert.Equal(t, core.Formed, cfg.Derived.InitialMode)
	assert.Equal(t, "foliage", cfg.Derived.ImageLayer)
	assert.Equal(t, 6000, cfg.Derived.ImageTargetCount)
	require.Len(t, cfg.Derived.Layers, len(cfg.Layers))

	byName := make(map[string]DerivedLayer)
	for i, lc := range cfg.Layers {
		byName[lc.Name] = cfg.Derived.Layers[i]
	}
	assert.Equal(t, shape.KindSpiral, byName["ribbon"].Kind)
	assert.Equal(t, shape.KindFloor, byName["snow-floor"].Kind)
	assert.Equal(t, transition.ThreeWay, byName["foliage"].Semantic)
	assert.Equal(t, transition.TwoWay, byName["lights"].Semantic)
	assert.Len(t, byName["accents"].Palette, 3)
	assert.Len(t, cfg.Derived.GiftColors, 4)
}

func TestParse_OverridesMerge(t *testing.T) {
	cfg, err := Parse([]byte(`
seed: 99
transition:
  initial_mode: scatter
mixer:
  highlight: gold
`))
	require.NoError(t, err)

	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, core.Scattered, cfg.Derived.InitialMode)
	assert.InDelta(t, 1.0, cfg.Derived.Highlight.X(), 1e-6)
	assert.InDelta(t, 215.0/255, cfg.Derived.Highlight.Y(), 1e-6)
	// Untouched sections keep their defaults.
	assert.Equal(t, 2.6, cfg.Transition.VisibilityRate)
	assert.Equal(t, 200, cfg.Silhouette.WorkingSize)
}

func TestParse_LayersReplaceDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
layers:
  - name: only
    shape: surface
    count: 10
    rate: 1.0
    color: "rgb(255, 0, 0)"
`))
	require.NoError(t, err)
	require.Len(t, cfg.Layers, 1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, cfg.Derived.Layers[0].BaseColor)
	assert.Empty(t, cfg.Derived.ImageLayer)
	assert.Zero(t, cfg.Derived.ImageTargetCount)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown mode", "transition: {initial_mode: wireframe}"},
		{"bad highlight", "mixer: {highlight: notacolour}"},
		{"unnamed layer", "layers: [{shape: cone, count: 1}]"},
		{"duplicate layer", "layers: [{name: a, shape: cone}, {name: a, shape: cone}]"},
		{"negative count", "layers: [{name: a, shape: cone, count: -1}]"},
		{"negative rate", "layers: [{name: a, shape: cone, rate: -2}]"},
		{"unknown shape", "layers: [{name: a, shape: torus}]"},
		{"unknown semantic", "layers: [{name: a, shape: cone, semantic: sideways}]"},
		{"two image layers", "layers: [{name: a, shape: cone, semantic: three_way}, {name: b, shape: cone, semantic: three_way}]"},
		{"bad palette", "layers: [{name: a, shape: cone, colors: ['#zzz']}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoad_FileRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Seed = 1234
	cfg.Layers = cfg.Layers[:2]

	path := filepath.Join(t.TempDir(), "lumen.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), loaded.Seed)
	require.Len(t, loaded.Layers, 2)
	for i := range cfg.Layers {
		assert.Equal(t, cfg.Layers[i].Name, loaded.Layers[i].Name)
		assert.Equal(t, cfg.Layers[i].Count, loaded.Layers[i].Count)
		assert.Equal(t, cfg.Layers[i].Rate, loaded.Layers[i].Rate)
	}
	assert.Equal(t, cfg.Derived.ImageLayer, loaded.Derived.ImageLayer)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMustLoad_PanicsOnBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layers: [{name: a, shape: torus}]"), 0644))
	assert.Panics(t, func() { MustLoad(path) })
}
