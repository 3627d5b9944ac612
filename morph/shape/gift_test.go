package shape

import (
	"math"
	"testing"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGifts(t *testing.T) {
	p := GiftParams{
		Count:        12,
		SizeMin:      0.5,
		SizeMax:      1.1,
		ScatterInner: 9,
		ScatterOuter: 16,
		Palette:      []mgl32.Vec3{{1, 0, 0}},
		TrimPalette:  []mgl32.Vec3{{1, 1, 0}},
	}
	boxes := GenerateGifts(p, testTree, core.NewRand(13))
	require.Len(t, boxes, 12)

	for i, b := range boxes {
		dist := math.Hypot(float64(b.Position.X()), float64(b.Position.Z()))
		assert.GreaterOrEqual(t, dist, float64(testTree.BaseRadius*giftRingMin)-1e-3)
		assert.LessOrEqual(t, dist, float64(testTree.BaseRadius*giftRingMax)+1e-3)
		// Boxes rest on the floor.
		assert.InDelta(t, testTree.Bottom+b.Extents.Y()/2, b.Position.Y(), 1e-4)
		assert.LessOrEqual(t, math.Abs(float64(b.Tilt)), maxGiftTilt+1e-6)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.Color)
		assert.Equal(t, mgl32.Vec3{1, 1, 0}, b.Trim)

		l := b.Layer(GiftLayerName("gift", i))
		assert.Equal(t, 1, l.Count)
		assert.True(t, l.Aligned())
		assert.Equal(t, b.Position, core.Vec3At(l.Tree, 0))
		assert.Equal(t, b.Scatter, core.Vec3At(l.Scatter, 0))
		assert.Equal(t, []float32{b.Tilt, b.Yaw, 0}, l.Rotations)
	}
	assert.Equal(t, "gift-03", GiftLayerName("gift", 3))
}

func TestGenerateGifts_Empty(t *testing.T) {
	assert.Nil(t, GenerateGifts(GiftParams{}, testTree, core.NewRand(1)))
}
