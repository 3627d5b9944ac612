package lumen

import (
	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/shape"
)

// Renderer is the draw collaborator. It receives each layer's instances once
// per frame and must not retain the slice past the call.
type Renderer interface {
	Submit(layer string, instances []core.ParticleInstance)
}

// LayerDetail is the static data sampled once at construction that does not
// fit a ParticleInstance.
type LayerDetail struct {
	// Rotations holds one xyz Euler triple per particle, nil if unrotated.
	Rotations []float32
	// Gift is set for gift box layers: extents, yaw/tilt and trim.
	Gift *shape.GiftBox
}

// DetailRenderer is a Renderer that also draws orientation and gift trim.
// SubmitDetail follows Submit for every layer that has detail.
type DetailRenderer interface {
	Renderer
	SubmitDetail(layer string, detail LayerDetail)
}

type NopRenderer struct{}

func (NopRenderer) Submit(string, []core.ParticleInstance) {}

type RenderTarget struct {
	Renderer  Renderer
	Submitted uint64
}

type RenderModule struct {
	Renderer Renderer
}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	r := mod.Renderer
	if r == nil {
		r = NopRenderer{}
	}
	cmd.AddResources(&RenderTarget{Renderer: r})
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

func renderSystem(target *RenderTarget, scene *Scene) {
	detailed, _ := target.Renderer.(DetailRenderer)
	for _, sl := range scene.Layers {
		target.Renderer.Submit(sl.Layer.Name, sl.Instances)
		target.Submitted++
		if detailed != nil && (sl.Layer.Rotations != nil || sl.Gift != nil) {
			detailed.SubmitDetail(sl.Layer.Name, LayerDetail{Rotations: sl.Layer.Rotations, Gift: sl.Gift})
		}
	}
}
