package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMode_ZeroValueIsFormed(t *testing.T) {
	var m Mode
	assert.Equal(t, Formed, m)
	assert.Equal(t, "formed", m.String())
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	parsed, err := ParseMode("  Scatter ")
	require.NoError(t, err)
	assert.Equal(t, Scattered, parsed)

	_, err = ParseMode("exploded")
	assert.Error(t, err)
}

func TestMode_UnmarshalTextRejectsUnknown(t *testing.T) {
	m := Image
	err := m.UnmarshalText([]byte("wireframe"))
	assert.Error(t, err)
	assert.Equal(t, Image, m, "failed unmarshal must leave the mode untouched")

	require.NoError(t, m.UnmarshalText([]byte("scattered")))
	assert.Equal(t, Scattered, m)
}

func TestDeriveSeed_StreamsDiffer(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 64; i++ {
		s := DeriveSeed(42, i)
		if seen[s] {
			t.Fatalf("stream %d repeated seed %d", i, s)
		}
		seen[s] = true
	}
	assert.Equal(t, DeriveSeed(42, 3), DeriveSeed(42, 3))
	assert.NotEqual(t, DeriveSeed(42, 3), DeriveSeed(43, 3))
}

func TestClampAndFinite(t *testing.T) {
	assert.Equal(t, float32(1), Clamp01(float32(1.5)))
	assert.Equal(t, float32(0), Clamp01(float32(-0.1)))
	assert.Equal(t, 3, Clamp(7, 0, 3))

	var zero float32
	assert.False(t, Finite(zero/zero))
	assert.False(t, Finite(1/zero))
	assert.True(t, Finite(float32(0.25)))
}
