package transition

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmooth_MatchesClosedForm(t *testing.T) {
	got := Smooth(0, 1, 2, 0.5)
	want := 1 - math.Exp(-1)
	assert.InDelta(t, want, got, 1e-6)
}

func TestSmooth_ZeroDeltaIsIdentity(t *testing.T) {
	for _, v := range []float32{0, 0.3, 1} {
		if got := Smooth(v, 1-v, 3, 0); got != v {
			t.Errorf("Smooth(%v, dt=0) = %v, want unchanged", v, got)
		}
		if got := Smooth(v, 1-v, 0, 0.5); got != v {
			t.Errorf("Smooth(%v, rate=0) = %v, want unchanged", v, got)
		}
	}
}

func TestSmooth_NeverOvershoots(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		v, target := rng.Float32(), rng.Float32()
		rate := rng.Float32() * 50
		dt := rng.Float32() * 10
		got := Smooth(v, target, rate, dt)
		lo, hi := min(v, target), max(v, target)
		if got < lo || got > hi {
			t.Fatalf("Smooth(%v, %v, %v, %v) = %v escaped [%v, %v]", v, target, rate, dt, got, lo, hi)
		}
	}
}

func TestScalar_ConvergesMonotonically(t *testing.T) {
	s := Scalar{Value: 0, Target: 1, Rate: 1.6}
	prev := s.Value
	for i := 0; i < 600; i++ {
		s.Step(1.0 / 60)
		if s.Value < prev {
			t.Fatalf("step %d moved away from target: %v < %v", i, s.Value, prev)
		}
		prev = s.Value
	}
	assert.True(t, s.Settled(1e-3), "after 10s at rate 1.6 value is %v", s.Value)
}
