package core

import (
	"fmt"
	"strings"
)

type modeID uint8

const (
	formedID modeID = iota
	scatteredID
	imageID
)

// Mode selects which configuration the particles converge to.
// The field is unexported so only the three values below can exist;
// the zero value is Formed.
type Mode struct {
	id modeID
}

var (
	Formed    = Mode{formedID}
	Scattered = Mode{scatteredID}
	Image     = Mode{imageID}
)

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{Formed, Scattered, Image}
}

func (m Mode) String() string {
	switch m.id {
	case formedID:
		return "formed"
	case scatteredID:
		return "scattered"
	case imageID:
		return "image"
	default:
		panic(fmt.Sprintf("core: invalid mode id %d", m.id))
	}
}

// ParseMode accepts the lower-case names returned by String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "formed", "tree":
		return Formed, nil
	case "scattered", "scatter":
		return Scattered, nil
	case "image", "photo":
		return Image, nil
	}
	return Formed, fmt.Errorf("core: unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
