package shape

import (
	"fmt"
	"math"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/go-gl/mathgl/mgl32"
)

const maxGiftTilt = 0.12

type GiftParams struct {
	Count        int
	SizeMin      float32
	SizeMax      float32
	ScatterInner float32
	ScatterOuter float32
	Palette      []mgl32.Vec3
	TrimPalette  []mgl32.Vec3
}

// GiftBox is a discrete object around the base of the tree. Orientation,
// extents and trim are sampled once and never re-sampled per frame.
type GiftBox struct {
	Position  mgl32.Vec3
	Scatter   mgl32.Vec3
	Extents   mgl32.Vec3
	Yaw       float32
	Tilt      float32
	Color     mgl32.Vec3
	Trim      mgl32.Vec3
	TrimWidth float32
	Seed      float32
}

func GenerateGifts(p GiftParams, tree Tree, rng core.Rand) []GiftBox {
	if p.Count <= 0 {
		return nil
	}
	boxes := make([]GiftBox, p.Count)
	for i := range boxes {
		// Spread boxes around the ring with jitter so they rarely overlap.
		angle := (float32(i) + core.RangeF32(rng, -0.3, 0.3)) / float32(p.Count) * 2 * math.Pi
		dist := tree.BaseRadius * core.RangeF32(rng, giftRingMin, giftRingMax)
		extents := mgl32.Vec3{
			core.RangeF32(rng, p.SizeMin, p.SizeMax),
			core.RangeF32(rng, p.SizeMin, p.SizeMax),
			core.RangeF32(rng, p.SizeMin, p.SizeMax),
		}

		box := GiftBox{
			Position:  polar(dist, angle, tree.Bottom+extents.Y()/2),
			Scatter:   ShellPoint(p.ScatterInner, p.ScatterOuter, rng),
			Extents:   extents,
			Yaw:       2 * math.Pi * rng.Float32(),
			Tilt:      core.RangeF32(rng, -maxGiftTilt, maxGiftTilt),
			TrimWidth: core.RangeF32(rng, 0.12, 0.22) * min(extents.X(), extents.Z()),
			Seed:      rng.Float32(),
		}
		if len(p.Palette) > 0 {
			box.Color = p.Palette[rng.Intn(len(p.Palette))]
		}
		if len(p.TrimPalette) > 0 {
			box.Trim = p.TrimPalette[rng.Intn(len(p.TrimPalette))]
		}
		boxes[i] = box
	}
	return boxes
}

// Layer exposes the box as a single-particle layer.
func (g GiftBox) Layer(name string) *Layer {
	l := newLayer(name, KindGift, 1)
	core.SetVec3(l.Tree, 0, g.Position)
	core.SetVec3(l.Scatter, 0, g.Scatter)
	l.Sizes[0] = max(g.Extents.X(), g.Extents.Y(), g.Extents.Z())
	l.Seeds[0] = g.Seed
	l.Rotations = []float32{g.Tilt, g.Yaw, 0}
	l.Colors = []float32{g.Color.X(), g.Color.Y(), g.Color.Z()}
	l.ResetImage()
	return l
}

func GiftLayerName(prefix string, i int) string {
	return fmt.Sprintf("%s-%02d", prefix, i)
}
