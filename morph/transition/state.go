package transition

import (
	"fmt"

	"github.com/gekko3d/lumen/morph/core"
)

type Semantic int

const (
	// TwoWay layers only know formed (1) versus anything else (0).
	TwoWay Semantic = iota
	// ThreeWay layers track formed-vs-scattered in Progress and the image
	// silhouette separately in ImageMix.
	ThreeWay
)

func (s Semantic) String() string {
	switch s {
	case TwoWay:
		return "two_way"
	case ThreeWay:
		return "three_way"
	}
	return fmt.Sprintf("Semantic(%d)", int(s))
}

func ParseSemantic(s string) (Semantic, error) {
	switch s {
	case "", "two_way":
		return TwoWay, nil
	case "three_way":
		return ThreeWay, nil
	}
	return TwoWay, fmt.Errorf("transition: unknown semantic %q", s)
}

type Rates struct {
	Progress   float32
	ImageMix   float32
	Visibility float32
}

// Profile is the fixed transition behaviour of one layer.
type Profile struct {
	Semantic Semantic
	Rates    Rates
	// KeepVisibleInImage exempts the layer from hiding while the image
	// silhouette is shown.
	KeepVisibleInImage bool
}

// State is the blend state of one layer. Only the Controller mutates it.
type State struct {
	Progress   Scalar
	ImageMix   Scalar
	Visibility Scalar

	profile Profile
}

// NewState returns a state already settled on the targets of mode.
func NewState(profile Profile, mode core.Mode) *State {
	st := &State{
		profile:    profile,
		Progress:   Scalar{Rate: max(profile.Rates.Progress, 0)},
		ImageMix:   Scalar{Rate: max(profile.Rates.ImageMix, 0)},
		Visibility: Scalar{Rate: max(profile.Rates.Visibility, 0)},
	}
	st.Retarget(mode)
	st.Progress.Value = st.Progress.Target
	st.ImageMix.Value = st.ImageMix.Target
	st.Visibility.Value = st.Visibility.Target
	return st
}

func (s *State) Profile() Profile {
	return s.profile
}

// Retarget applies the fixed mode -> target mapping.
func (s *State) Retarget(mode core.Mode) {
	s.Progress.Target = progressTarget(s.profile.Semantic, mode)
	s.ImageMix.Target = 0
	if s.profile.Semantic == ThreeWay && mode == core.Image {
		s.ImageMix.Target = 1
	}
	s.Visibility.Target = 1
	if mode == core.Image && !s.profile.KeepVisibleInImage {
		s.Visibility.Target = 0
	}
}

func (s *State) Advance(dt float32) {
	s.Progress.Step(dt)
	s.ImageMix.Step(dt)
	s.Visibility.Step(dt)
}

func (s *State) Settled(eps float32) bool {
	return s.Progress.Settled(eps) && s.ImageMix.Settled(eps) && s.Visibility.Settled(eps)
}

func progressTarget(semantic Semantic, mode core.Mode) float32 {
	switch mode {
	case core.Formed:
		return 1
	case core.Scattered:
		return 0
	case core.Image:
		// The image layer keeps its formed base underneath the silhouette.
		if semantic == ThreeWay {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("transition: unhandled mode %v", mode))
	}
}
