package lumen

import (
	"github.com/gekko3d/lumen/telemetry"
)

const traceFlushThreshold = 4096

// Trace records the blend state of every layer to a telemetry.Recorder.
type Trace struct {
	Recorder *telemetry.Recorder
	err      error
}

// Err returns the first write error, if any.
func (t *Trace) Err() error {
	return t.err
}

type TraceModule struct {
	Recorder *telemetry.Recorder
}

func (mod TraceModule) Install(app *App, cmd *Commands) {
	trace := &Trace{Recorder: mod.Recorder}
	cmd.AddResources(trace)
	app.OnShutdown(func() {
		trace.flush(app.Logger())
	})
	app.UseSystem(
		System(traceSystem).
			InStage(PostRender),
	)
	app.UseSystem(
		System(traceFlushSystem).
			InStage(Finale),
	)
}

func (t *Trace) flush(log Logger) {
	if err := t.Recorder.Flush(); err != nil && t.err == nil {
		t.err = err
		log.Errorf("trace: %v", err)
	}
}

func traceSystem(trace *Trace, clock *Time, mode *ModeState, scene *Scene, cmd *Commands) {
	frame := cmd.Frame()
	if trace.Recorder == nil || !trace.Recorder.Due(frame) {
		return
	}
	m := mode.Current().String()
	for _, sl := range scene.Layers {
		if sl.Gift != nil {
			continue
		}
		trace.Recorder.Add(telemetry.Sample{
			Frame:      frame,
			Elapsed:    float32(clock.Elapsed),
			Mode:       m,
			Layer:      sl.Layer.Name,
			Progress:   sl.State.Progress.Value,
			ImageMix:   sl.State.ImageMix.Value,
			Visibility: sl.State.Visibility.Value,
		})
	}
}

// traceFlushSystem writes buffered samples every traceFlushThreshold frames.
func traceFlushSystem(trace *Trace, cmd *Commands) {
	if trace.Recorder == nil || cmd.Frame()%traceFlushThreshold != 0 {
		return
	}
	trace.flush(cmd.Logger())
}
