package mix

import (
	"math"

	"github.com/gekko3d/lumen/morph/core"
	"github.com/gekko3d/lumen/morph/shape"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

type Params struct {
	// Sway is the amplitude of the in-flight wobble at progress 0.
	Sway float32
	// Idle is the radius of the resting shimmer orbit.
	Idle float32
	// NearOne is the imageMix above which in-flight motion stops.
	NearOne float32
	// Settle is how close progress must be to 1 to count as formed.
	Settle float32
	// ImageSizeScale is the size multiplier of size-varying layers at imageMix 1.
	ImageSizeScale float32
	Highlight      mgl32.Vec3

	// Falling snow wraps between SnowBottom and SnowTop.
	SnowSpeed  float32
	SnowBottom float32
	SnowTop    float32
}

// Style is the per-layer visual treatment the mixer needs.
type Style struct {
	BaseColor   mgl32.Vec3
	Alpha       float32
	SizeVarying bool
	Falling     bool
}

// Weights are the blended transition scalars of one layer for this frame.
type Weights struct {
	Progress   float32
	ImageMix   float32
	Visibility float32
}

// Mixer turns target buffers and weights into final per-particle instances.
// It never draws.
type Mixer struct {
	Params

	elapsed float64
}

func NewMixer(p Params) *Mixer {
	return &Mixer{Params: p}
}

// Clock returns the elapsed time the mixer is animating with. Non-finite
// input keeps the last finite value so a stalled clock cannot leak NaN.
func (m *Mixer) Clock(elapsed float64) float64 {
	if core.Finite(elapsed) {
		m.elapsed = elapsed
	}
	return m.elapsed
}

// Mix writes one instance per particle into out (grown if needed) and
// returns it.
func (m *Mixer) Mix(l *shape.Layer, style Style, w Weights, elapsed float64, out []core.ParticleInstance) []core.ParticleInstance {
	t := m.Clock(elapsed)
	w = sanitize(w)

	if cap(out) < l.Count {
		out = make([]core.ParticleInstance, l.Count)
	}
	out = out[:l.Count]

	image := l.Image
	if len(image) != 3*l.Count {
		image = l.Tree
	}

	inFlight := w.Progress < 1-m.Settle && w.ImageMix < m.NearOne
	idle := !inFlight && w.Progress >= 1-m.Settle && w.ImageMix < m.Settle
	imageEase := ease.InOutQuad(w.ImageMix, 0, 1, 1)
	color := core.LerpVec3(style.BaseColor, m.Highlight, imageEase)
	alpha := style.Alpha
	if alpha == 0 {
		alpha = 1
	}

	for i := 0; i < l.Count; i++ {
		seed := l.Seeds[i]
		pos := core.LerpVec3(core.Vec3At(l.Scatter, i), core.Vec3At(l.Tree, i), w.Progress)
		pos = core.LerpVec3(pos, core.Vec3At(image, i), w.ImageMix)

		switch {
		case inFlight:
			pos = pos.Add(m.sway(t, seed, 1-w.Progress))
		case idle:
			pos = pos.Add(m.shimmer(t, seed))
		}
		if style.Falling {
			pos[1] = m.fall(pos[1], t, seed, w.Progress)
		}

		size := l.Sizes[i]
		if style.SizeVarying {
			size = core.Lerp(size, size*m.ImageSizeScale, imageEase)
		}
		size *= w.Visibility

		c := color
		if l.Colors != nil {
			c = core.LerpVec3(core.Vec3At(l.Colors, i), m.Highlight, imageEase)
		}
		out[i].Set(pos, size, c, alpha)
	}
	return out
}

// Angles are formed in float64: t grows without bound and float32 would
// quantize the motion after long uptimes.
func (m *Mixer) sway(t float64, seed, amount float32) mgl32.Vec3 {
	phase := float64(seed) * 2 * math.Pi
	return mgl32.Vec3{
		float32(math.Cos(t*0.9+2*phase)) * m.Sway * 0.6 * amount,
		float32(math.Sin(t*1.3+phase)) * m.Sway * amount,
		float32(math.Sin(t*0.7+3*phase)) * m.Sway * 0.4 * amount,
	}
}

func (m *Mixer) shimmer(t float64, seed float32) mgl32.Vec3 {
	phase := t*0.5 + float64(seed)*2*math.Pi
	return mgl32.Vec3{
		float32(math.Cos(phase)) * m.Idle,
		float32(math.Sin(t*1.7+float64(seed)*5)) * m.Idle * 0.5,
		float32(math.Sin(phase)) * m.Idle,
	}
}

// fall drops a formed snow particle through the snow volume, wrapping at
// the bottom. Scattered snow drifts with the rest of the cloud.
func (m *Mixer) fall(y float32, t float64, seed, progress float32) float32 {
	span := m.SnowTop - m.SnowBottom
	if span <= 0 || m.SnowSpeed <= 0 {
		return y
	}
	speed := m.SnowSpeed * (0.6 + 0.8*seed)
	offset := float32(math.Mod(t*float64(speed), float64(span)))
	fallen := y - offset
	if fallen < m.SnowBottom {
		fallen += span
	}
	return core.Lerp(y, fallen, progress)
}

func sanitize(w Weights) Weights {
	fix := func(v float32) float32 {
		if !core.Finite(v) {
			return 0
		}
		return core.Clamp01(v)
	}
	return Weights{
		Progress:   fix(w.Progress),
		ImageMix:   fix(w.ImageMix),
		Visibility: fix(w.Visibility),
	}
}
