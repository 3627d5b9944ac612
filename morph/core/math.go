package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

func Lerp[F constraints.Float](a, b, t F) F {
	return a + (b-a)*t
}

func Clamp[N constraints.Integer | constraints.Float](n, minN, maxN N) N {
	n = min(n, maxN)
	n = max(n, minN)

	return n
}

func Clamp01[F constraints.Float](v F) F {
	return Clamp(v, 0, 1)
}

// Finite reports whether v is neither NaN nor infinite.
func Finite[F constraints.Float](v F) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		Lerp(a[0], b[0], t),
		Lerp(a[1], b[1], t),
		Lerp(a[2], b[2], t),
	}
}

func Sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func Cos32(v float32) float32 { return float32(math.Cos(float64(v))) }
