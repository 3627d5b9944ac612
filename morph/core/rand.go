package core

import "math/rand"

// Rand is the random source used by every generator. *rand.Rand satisfies it.
// Implementations are not required to be safe for concurrent use; give each
// goroutine its own.
type Rand interface {
	Float32() float32
	Float64() float64
	Intn(n int) int
}

func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a stream index into a base seed (splitmix64 finalizer) so
// sibling generators built from one scene seed do not share sequences.
func DeriveSeed(seed int64, stream int) int64 {
	z := uint64(seed) + uint64(stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z)
}

// RangeF32 returns a uniform value in [lo, hi).
func RangeF32(r Rand, lo, hi float32) float32 {
	return lo + (hi-lo)*r.Float32()
}
