package shape

import (
	"fmt"
	"strings"
)

// Kind tags the generation rule of a layer.
type Kind int

const (
	KindCone Kind = iota
	KindSurface
	KindSpiral
	KindFloor
	KindSnow
	KindGift
)

var kindNames = map[Kind]string{
	KindCone:    "cone",
	KindSurface: "surface",
	KindSpiral:  "spiral",
	KindFloor:   "floor",
	KindSnow:    "snow",
	KindGift:    "gift",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindCone, fmt.Errorf("shape: unknown kind %q", s)
}
