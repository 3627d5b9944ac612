package lumen

import (
	"bytes"
	"testing"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/shape"
	"github.com/gekko3d/lumen/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	counts map[string]int
	sizes  map[string]int
}

func (r *recordingRenderer) Submit(layer string, instances []core.ParticleInstance) {
	r.counts[layer]++
	r.sizes[layer] = len(instances)
}

func TestRenderModule_SubmitsEveryLayer(t *testing.T) {
	r := &recordingRenderer{counts: map[string]int{}, sizes: map[string]int{}}
	app, _ := newTestApp(t, testConfig(t), RenderModule{Renderer: r})
	scene, _ := Resource[Scene](app)
	target, _ := Resource[RenderTarget](app)

	stepFor(app, 3)

	assert.Equal(t, uint64(3*len(scene.Layers)), target.Submitted)
	for _, sl := range scene.Layers {
		assert.Equal(t, 3, r.counts[sl.Layer.Name])
		assert.Equal(t, sl.Layer.Count, r.sizes[sl.Layer.Name])
	}
}

type detailRenderer struct {
	recordingRenderer
	details map[string]LayerDetail
}

func (r *detailRenderer) SubmitDetail(layer string, detail LayerDetail) {
	r.details[layer] = detail
}

func TestRenderModule_SubmitsStaticDetail(t *testing.T) {
	r := &detailRenderer{
		recordingRenderer: recordingRenderer{counts: map[string]int{}, sizes: map[string]int{}},
		details:           map[string]LayerDetail{},
	}
	app, _ := newTestApp(t, testConfig(t), RenderModule{Renderer: r})
	scene, _ := Resource[Scene](app)
	app.Step()

	ornaments, ok := r.details["ornaments"]
	require.True(t, ok)
	assert.Len(t, ornaments.Rotations, 3*40)
	assert.Nil(t, ornaments.Gift)

	_, ok = r.details["foliage"]
	assert.False(t, ok, "unrotated layers carry no detail")

	for i := range scene.Gifts {
		box := &scene.Gifts[i]
		d, ok := r.details[shapeGiftName(i)]
		require.True(t, ok)
		require.Same(t, box, d.Gift)
		assert.Equal(t, []float32{box.Tilt, box.Yaw, 0}, d.Rotations)
		assert.Greater(t, d.Gift.TrimWidth, float32(0))
		assert.NotZero(t, d.Gift.Extents)
	}
	assert.Equal(t, 1, r.counts["foliage"])
}

func TestTraceModule_WritesSamples(t *testing.T) {
	var buf bytes.Buffer
	recorder := telemetry.NewRecorder(&buf, 2)
	app, _ := newTestApp(t, testConfig(t), TraceModule{Recorder: recorder})
	mode, _ := Resource[ModeState](app)

	mode.Set(core.Scattered)
	app.Step()
	assert.NotZero(t, buf.Len(), "the first frame is flushed at the end of the frame")
	stepFor(app, 9)
	app.Shutdown()

	trace, _ := Resource[Trace](app)
	require.NoError(t, trace.Err())

	samples, err := telemetry.ReadSamples(&buf)
	require.NoError(t, err)
	// Frames 0,2,4,6,8 for the three non-gift layers.
	require.Len(t, samples, 5*3)
	assert.Equal(t, 15, recorder.Written())

	last := samples[len(samples)-1]
	assert.Equal(t, uint64(8), last.Frame)
	assert.Equal(t, "scattered", last.Mode)
	assert.Equal(t, "floor", last.Layer)
	assert.Less(t, last.Progress, float32(1))
}

func shapeGiftName(i int) string {
	return shape.GiftLayerName(giftLayerPrefix, i)
}
