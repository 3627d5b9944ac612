package lumen

import (
	"testing"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/stretchr/testify/assert"
)

func TestModeState_HoldRestoresPrevious(t *testing.T) {
	s := NewModeState(core.Scattered)

	s.Hold(core.Image)
	assert.Equal(t, core.Image, s.Current())
	assert.True(t, s.Holding())

	// A second hold changes the held mode but not what Release restores.
	s.Hold(core.Formed)
	assert.Equal(t, core.Formed, s.Current())

	assert.True(t, s.Release())
	assert.Equal(t, core.Scattered, s.Current())
	assert.False(t, s.Release())
}

func TestModeState_SetEndsHold(t *testing.T) {
	s := NewModeState(core.Formed)
	s.Hold(core.Image)
	s.Set(core.Scattered)

	assert.False(t, s.Holding())
	assert.False(t, s.Release())
	assert.Equal(t, core.Scattered, s.Current())
}

func TestModeState_CountsRealChanges(t *testing.T) {
	s := NewModeState(core.Formed)
	s.Set(core.Formed)
	s.Set(core.Image)
	s.Set(core.Image)
	s.Set(core.Formed)
	assert.Equal(t, uint64(2), s.Changes())
}

func TestModeModule(t *testing.T) {
	app := NewApp().UseModules(ModeModule{Initial: core.Image})
	s, ok := Resource[ModeState](app)
	assert.True(t, ok)
	assert.Equal(t, core.Image, s.Current())
}
