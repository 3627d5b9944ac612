package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_Cone(t *testing.T) {
	l := shape.Generate("foliage", shape.Params{
		Kind:         shape.KindCone,
		Count:        4000,
		Tree:         shape.Tree{Bottom: -5, Height: 11, BaseRadius: 4.6},
		ScatterInner: 8,
		ScatterOuter: 16,
	}, core.NewRand(1))

	s := Describe(l)
	assert.Equal(t, 4000, s.Count)
	// Uniform height fraction: mean sits mid-trunk.
	assert.InDelta(t, 0.5, s.HeightMean, 0.2)
	assert.LessOrEqual(t, s.RadiusMax, 4.6+1e-3)
	assert.GreaterOrEqual(t, s.ShellMin, 8-1e-3)
	assert.LessOrEqual(t, s.ShellMax, 16+1e-3)
	assert.Contains(t, s.String(), "n=4000")
}

func TestDescribe_Degenerate(t *testing.T) {
	empty := shape.Generate("empty", shape.Params{Kind: shape.KindCone}, core.NewRand(1))
	assert.Equal(t, LayerStats{Name: "empty"}, Describe(empty))

	one := shape.Generate("one", shape.Params{
		Kind:  shape.KindCone,
		Count: 1,
		Tree:  shape.Tree{Height: 1, BaseRadius: 1},
	}, core.NewRand(1))
	s := Describe(one)
	assert.Equal(t, 0.0, s.HeightStd)
	assert.Equal(t, 0.0, s.RadiusStd)
}

func TestRecorder_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf, 2)

	for frame := uint64(0); frame < 6; frame++ {
		if !r.Due(frame) {
			continue
		}
		r.Add(Sample{Frame: frame, Mode: "formed", Layer: "lights", Progress: 0.5, Visibility: 1})
		r.Add(Sample{Frame: frame, Mode: "formed", Layer: "foliage", Progress: 0.25, ImageMix: 0.75})
		require.NoError(t, r.Flush())
	}
	assert.Equal(t, 6, r.Written())
	assert.Equal(t, 1, strings.Count(buf.String(), "frame,"), "header written once")

	samples, err := ReadSamples(&buf)
	require.NoError(t, err)
	require.Len(t, samples, 6)
	assert.Equal(t, uint64(4), samples[4].Frame)
	assert.Equal(t, "foliage", samples[5].Layer)
	assert.Equal(t, float32(0.75), samples[5].ImageMix)
}

func TestRecorder_NilIsInert(t *testing.T) {
	var r *Recorder
	assert.False(t, r.Due(0))
	assert.NoError(t, r.Flush())
}
