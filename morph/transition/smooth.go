package transition

import (
	"math"

	"github.com/gekko3d/lumen/morph/core"
)

// Smooth moves value toward target by exponential decay:
//
//	target + (value - target) * exp(-rate * dt)
//
// The result never leaves the interval spanned by value and target, so a
// scalar that starts in [0,1] with a target in [0,1] stays there.
func Smooth(value, target, rate, dt float32) float32 {
	if dt <= 0 || rate <= 0 {
		return value
	}
	decay := math.Exp(-float64(rate) * float64(dt))
	next := float32(float64(target) + float64(value-target)*decay)
	return core.Clamp(next, min(value, target), max(value, target))
}

// Scalar is one smoothed value with its own fixed rate.
type Scalar struct {
	Value  float32
	Target float32
	Rate   float32
}

func (s *Scalar) Step(dt float32) {
	s.Value = core.Clamp01(Smooth(s.Value, s.Target, s.Rate, dt))
}

// Settled reports whether Value is within eps of Target.
func (s Scalar) Settled(eps float32) bool {
	d := s.Value - s.Target
	return d <= eps && d >= -eps
}
