package shape

// Layer holds the index-aligned target buffers of one particle group.
// Tree, Scatter and Image are flat xyz buffers of length 3*Count; index i in
// every buffer describes the same particle.
type Layer struct {
	Name  string
	Kind  Kind
	Count int

	Tree    []float32
	Scatter []float32
	Image   []float32

	Sizes     []float32
	Seeds     []float32
	Rotations []float32 // optional, 3*Count
	Colors    []float32 // optional, 3*Count

	imageInstalled bool
}

func newLayer(name string, kind Kind, count int) *Layer {
	if count < 0 {
		count = 0
	}
	return &Layer{
		Name:    name,
		Kind:    kind,
		Count:   count,
		Tree:    make([]float32, 3*count),
		Scatter: make([]float32, 3*count),
		Sizes:   make([]float32, count),
		Seeds:   make([]float32, count),
	}
}

// Aligned reports whether every position buffer matches the particle count.
func (l *Layer) Aligned() bool {
	n := 3 * l.Count
	if len(l.Tree) != n || len(l.Scatter) != n || len(l.Image) != n {
		return false
	}
	if len(l.Sizes) != l.Count || len(l.Seeds) != l.Count {
		return false
	}
	if l.Rotations != nil && len(l.Rotations) != n {
		return false
	}
	return l.Colors == nil || len(l.Colors) == n
}

// InstallImage replaces the image configuration with buf when it holds
// exactly one point per particle. Any other length leaves the layer as is.
func (l *Layer) InstallImage(buf []float32) bool {
	if len(buf) != 3*l.Count {
		return false
	}
	img := make([]float32, len(buf))
	copy(img, buf)
	l.Image = img
	l.imageInstalled = true
	return true
}

// ResetImage restores the fallback, which equals the formed configuration.
func (l *Layer) ResetImage() {
	l.Image = append(l.Image[:0:0], l.Tree...)
	l.imageInstalled = false
}

func (l *Layer) HasImage() bool {
	return l.imageInstalled
}
