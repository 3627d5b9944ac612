package shape

import "github.com/go-gl/mathgl/mgl32"

// Tree is the shared cone silhouette every formed configuration is swept through.
type Tree struct {
	Bottom     float32 // y of the base
	Height     float32
	BaseRadius float32
}

// At maps a height fraction h in [0,1] to its world y and the cone radius there.
func (t Tree) At(h float32) (y, radius float32) {
	return t.Bottom + h*t.Height, t.BaseRadius * (1 - h)
}

// Params describes one layer. Fields not used by Kind are ignored.
type Params struct {
	Kind  Kind
	Count int
	Tree  Tree

	// Surface/spiral: height band as fractions of the tree, outward offset.
	HeightMin float32
	HeightMax float32
	Offset    float32
	Turns     float32

	// Cone: place heights on an even ladder instead of sampling them.
	Stratified bool

	ScatterInner float32
	ScatterOuter float32

	SizeMin float32
	SizeMax float32
	Rotate  bool

	// One color per particle is drawn from Palette when it is non-empty.
	Palette []mgl32.Vec3

	FloorRadius float32
	SnowRadius  float32
	SnowTop     float32
}

func (p Params) heightBand() (lo, hi float32) {
	lo, hi = p.HeightMin, p.HeightMax
	if hi <= lo {
		return 0, 1
	}
	return lo, hi
}
