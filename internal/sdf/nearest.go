package sdf

import "github.com/go-gl/mathgl/mgl64"

const (
	// NoObject marks a Hit produced by no object.
	NoObject = -1
	// NoExclude disables index exclusion in Nearest.
	NoExclude = -1
)

// Hit is the nearest surface distance at a point and the index of its object.
type Hit struct {
	Distance float64
	Index    int
}

// Nearest scans the active objects of s (skipping exclude) and returns the closest one.
// Ties keep the lower index.
func Nearest(p mgl64.Vec3, s *Scene, phase float64, exclude int) Hit {
	best := Hit{Distance: EmptyDistance, Index: NoObject}
	for i := 0; i < s.count; i++ {
		if i == exclude {
			continue
		}
		if d := Distance(p, s.objects[i], phase); d < best.Distance {
			best = Hit{Distance: d, Index: i}
		}
	}
	return best
}

// normalStep is the central-difference offset used by Normal.
const normalStep = 0.001

// Normal estimates the unit surface normal of obj at p.
func Normal(p mgl64.Vec3, obj WorldObject, phase float64) mgl64.Vec3 {
	var g mgl64.Vec3
	for c := 0; c < 3; c++ {
		var step mgl64.Vec3
		step[c] = normalStep
		g[c] = Distance(p.Add(step), obj, phase) - Distance(p.Sub(step), obj, phase)
	}
	return g.Normalize()
}
