package shape

import (
	"fmt"
	"math"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	floorDrop   = 0.2
	floorNoise  = 0.05
	giftRingMin = 0.35
	giftRingMax = 0.9
)

// Generate builds every configuration buffer of a layer from p. Output is
// characterized statistically; nothing is bit-exact across random sources.
func Generate(name string, p Params, rng core.Rand) *Layer {
	l := newLayer(name, p.Kind, p.Count)
	if p.Rotate {
		l.Rotations = make([]float32, 3*l.Count)
	}
	if len(p.Palette) > 0 {
		l.Colors = make([]float32, 3*l.Count)
	}

	for i := 0; i < l.Count; i++ {
		core.SetVec3(l.Tree, i, formedPoint(p, i, l.Count, rng))
		core.SetVec3(l.Scatter, i, ShellPoint(p.ScatterInner, p.ScatterOuter, rng))
		l.Sizes[i] = core.RangeF32(rng, p.SizeMin, p.SizeMax)
		l.Seeds[i] = rng.Float32()

		if l.Rotations != nil {
			core.SetVec3(l.Rotations, i, randomRotation(rng))
		}
		if l.Colors != nil {
			core.SetVec3(l.Colors, i, p.Palette[rng.Intn(len(p.Palette))])
		}
	}

	l.ResetImage()
	return l
}

func formedPoint(p Params, i, count int, rng core.Rand) mgl32.Vec3 {
	switch p.Kind {
	case KindCone:
		h := rng.Float32()
		if p.Stratified {
			h = stratum(i, count)
		}
		y, rMax := p.Tree.At(h)
		return polar(rMax*sqrt32(rng.Float32()), 2*math.Pi*rng.Float32(), y)
	case KindSurface:
		lo, hi := p.heightBand()
		y, rMax := p.Tree.At(core.RangeF32(rng, lo, hi))
		return polar(rMax+p.Offset, 2*math.Pi*rng.Float32(), y)
	case KindSpiral:
		lo, hi := p.heightBand()
		h := core.Lerp(lo, hi, stratum(i, count))
		y, rMax := p.Tree.At(h)
		return polar(rMax+p.Offset, p.Turns*2*math.Pi*h, y)
	case KindFloor:
		y := p.Tree.Bottom - floorDrop + core.RangeF32(rng, -floorNoise, floorNoise)
		return polar(p.FloorRadius*sqrt32(rng.Float32()), 2*math.Pi*rng.Float32(), y)
	case KindSnow:
		y := core.RangeF32(rng, p.Tree.Bottom, p.SnowTop)
		return polar(p.SnowRadius*sqrt32(rng.Float32()), 2*math.Pi*rng.Float32(), y)
	case KindGift:
		r := p.Tree.BaseRadius * core.RangeF32(rng, giftRingMin, giftRingMax)
		return polar(r, 2*math.Pi*rng.Float32(), p.Tree.Bottom)
	default:
		panic(fmt.Sprintf("shape: no generator for %v", p.Kind))
	}
}

// ShellPoint samples a point in the spherical shell [inner, outer] around the
// origin. The polar angle goes through acos so directions are uniform on the
// sphere instead of bunching at the poles.
func ShellPoint(inner, outer float32, rng core.Rand) mgl32.Vec3 {
	if outer < inner {
		inner, outer = outer, inner
	}
	theta := math.Acos(float64(2*rng.Float32() - 1))
	phi := 2 * math.Pi * float64(rng.Float32())
	r := core.RangeF32(rng, inner, outer)

	sinT := float32(math.Sin(theta))
	return mgl32.Vec3{
		r * sinT * float32(math.Cos(phi)),
		r * float32(math.Cos(theta)),
		r * sinT * float32(math.Sin(phi)),
	}
}

// stratum spreads i over [0,1]; a single particle sits at 0.
func stratum(i, count int) float32 {
	if count <= 1 {
		return 0
	}
	return float32(i) / float32(count-1)
}

func polar(radius, angle, y float32) mgl32.Vec3 {
	return mgl32.Vec3{radius * core.Cos32(angle), y, radius * core.Sin32(angle)}
}

func randomRotation(rng core.Rand) mgl32.Vec3 {
	return mgl32.Vec3{
		2 * math.Pi * rng.Float32(),
		2 * math.Pi * rng.Float32(),
		2 * math.Pi * rng.Float32(),
	}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
