package sdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind selects the distance function of a WorldObject. The numeric values match
// the "type" slot of the packed uniform layout.
type Kind uint8

const (
	Unknown      Kind = 0
	Sphere       Kind = 1
	WiggleSphere Kind = 2
	Plane        Kind = 3
	Box          Kind = 4
	WigglePlane  Kind = 5
)

// NormalColor is the sentinel placed in Color.X to shade an object by its normal.
const NormalColor = -2.0

var kindNames = map[Kind]string{
	Sphere:       "sphere",
	WiggleSphere: "wiggle_sphere",
	Plane:        "plane",
	Box:          "box",
	WigglePlane:  "wiggle_plane",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Known reports whether k has a distance function.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// KindFromCode maps a packed type value to its Kind. Only the exact codes 1..5 select a
// primitive; fractional, negative or out-of-range values are Unknown.
func KindFromCode(code float64) Kind {
	if code < float64(Sphere) || code > float64(WigglePlane) || code != math.Trunc(code) {
		return Unknown
	}
	return Kind(code)
}

// ParseKind accepts a kind name ("box", "wiggle-sphere", "WigglePlane") or its numeric code.
// Numbers that are not a known code parse as Unknown, which evaluates to empty space.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "sphere":
		return Sphere, nil
	case "wiggle_sphere", "wigglesphere":
		return WiggleSphere, nil
	case "plane":
		return Plane, nil
	case "box":
		return Box, nil
	case "wiggle_plane", "wiggleplane":
		return WigglePlane, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Unknown, fmt.Errorf("unknown object kind %q", s)
	}
	return KindFromCode(f), nil
}

// WorldObject is one primitive of the scene.
//
// Center is the sphere/box center or a point on a plane. Size holds the radius in X for
// spheres, the half-extent for boxes and the plane normal for planar kinds.
type WorldObject struct {
	Kind   Kind
	Center mgl64.Vec3
	Size   mgl64.Vec3
	Color  mgl64.Vec3

	// Negated and Shadow are carried through loading and packing but not evaluated.
	Negated bool
	Shadow  bool

	Reflectivity     float64
	Transparency     float64
	DiffuseIntensity float64
}

// NormalShaded reports whether the object uses the normal-as-color sentinel.
func (o WorldObject) NormalShaded() bool { return o.Color.X() == NormalColor }

// Validate checks the material weights. Unknown kinds are allowed.
func (o WorldObject) Validate() error {
	for _, w := range []struct {
		name string
		v    float64
	}{
		{"reflectivity", o.Reflectivity},
		{"transparency", o.Transparency},
		{"diffuse intensity", o.DiffuseIntensity},
	} {
		if w.v < 0 || w.v > 1 || w.v != w.v {
			return fmt.Errorf("%s %v outside [0,1]", w.name, w.v)
		}
	}
	return nil
}
