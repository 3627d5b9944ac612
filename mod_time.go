package lumen

import (
	"time"

	"github.com/gekko3d/lumen/morph/core"
)

// Time is the frame clock. Dt is in seconds and already clamped; Elapsed
// only ever advances by Dt, so a stalled or paused wall clock shows up as a
// short frame instead of a jump. Elapsed is float64 so it keeps sub-frame
// resolution over days of uptime.
type Time struct {
	Now      time.Time
	Dt       float32
	RawDt    float32
	Elapsed  float64
	MaxDelta float32
	Fixed    float32

	clock func() time.Time
}

// Advance feeds one frame of raw delta time through the clamp.
func (t *Time) Advance(raw float32) {
	t.RawDt = raw
	dt := raw
	if !core.Finite(dt) || dt < 0 {
		dt = 0
	}
	if t.MaxDelta > 0 && dt > t.MaxDelta {
		dt = t.MaxDelta
	}
	t.Dt = dt
	t.Elapsed += float64(dt)
}

type TimeModule struct {
	MaxFrameDelta float32
	// FixedDt > 0 steps the clock by a constant amount every frame.
	FixedDt float32
	Clock   func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	clock := mod.Clock
	if clock == nil {
		clock = time.Now
	}
	cmd.AddResources(&Time{
		Now:      clock(),
		MaxDelta: mod.MaxFrameDelta,
		Fixed:    mod.FixedDt,
		clock:    clock,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(PreUpdate),
	)
}

func timeSystem(t *Time) {
	if t.Fixed > 0 {
		t.Advance(t.Fixed)
		t.Now = t.Now.Add(time.Duration(float64(t.Fixed) * float64(time.Second)))
		return
	}
	now := t.clock()
	t.Advance(float32(now.Sub(t.Now).Seconds()))
	t.Now = now
}
