package core

import "github.com/go-gl/mathgl/mgl32"

// ParticleInstance is the per-particle record handed to the render collaborator.
// Layout mirrors the billboard shader's struct { vec3 pos; float size; vec4 color; }.
type ParticleInstance struct {
	Pos   [3]float32
	Size  float32
	Color [4]float32
}

func (p *ParticleInstance) Set(pos mgl32.Vec3, size float32, rgb mgl32.Vec3, alpha float32) {
	p.Pos = [3]float32{pos[0], pos[1], pos[2]}
	p.Size = size
	p.Color = [4]float32{rgb[0], rgb[1], rgb[2], alpha}
}
