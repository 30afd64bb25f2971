package sdf

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Options bound the sphere-tracing loop and the reflection/transparency recursion.
type Options struct {
	MaxSteps         int
	MinHitDistance   float64
	MaxTraceDistance float64
	// TopFade and BounceFade are the fade divisors of primary and secondary rays.
	TopFade    float64
	BounceFade float64
	// MaxDepth is the number of secondary bounce levels a primary ray may spawn.
	MaxDepth int
}

func DefaultOptions() Options {
	return Options{
		MaxSteps:         256,
		MinHitDistance:   0.01,
		MaxTraceDistance: 100,
		TopFade:          20,
		BounceFade:       5,
		MaxDepth:         2,
	}
}

func (o Options) Validate() error {
	switch {
	case o.MaxSteps <= 0:
		return errors.New("max steps must be positive")
	case o.MinHitDistance <= 0:
		return errors.New("min hit distance must be positive")
	case o.MaxTraceDistance <= 0:
		return errors.New("max trace distance must be positive")
	case o.TopFade <= 0 || o.BounceFade <= 0:
		return errors.New("fade divisors must be positive")
	case o.MaxDepth < 0:
		return errors.New("max depth must not be negative")
	}
	return nil
}

// March is the outcome of one sphere-traced ray.
type March struct {
	Hit      bool
	Index    int
	Position mgl64.Vec3
	Traveled float64
	Steps    int
}

// Tracer renders rays against a scene at a fixed animation phase. A Tracer is read-only
// while rendering and may be shared by goroutines.
type Tracer struct {
	Scene   *Scene
	Phase   float64
	Options Options
}

// Trace walks the ray ro + t*rd until it comes within MinHitDistance of a surface,
// passes MaxTraceDistance or runs out of steps. The object at index exclude is skipped.
func (t *Tracer) Trace(ro, rd mgl64.Vec3, exclude int) March {
	traveled := 0.0
	for step := 0; step < t.Options.MaxSteps; step++ {
		pos := ro.Add(rd.Mul(traveled))
		hit := Nearest(pos, t.Scene, t.Phase, exclude)
		if hit.Distance < t.Options.MinHitDistance {
			return March{Hit: true, Index: hit.Index, Position: pos, Traveled: traveled, Steps: step + 1}
		}
		if traveled > t.Options.MaxTraceDistance {
			return March{Index: NoObject, Traveled: traveled, Steps: step + 1}
		}
		traveled += hit.Distance
	}
	return March{Index: NoObject, Traveled: traveled, Steps: t.Options.MaxSteps}
}

// March returns the color seen along a ray. depth is the number of bounce levels still
// allowed; fade darkens the result by min(1, fade/traveled). Misses are black.
func (t *Tracer) March(ro, rd mgl64.Vec3, exclude int, fade float64, depth int) mgl64.Vec3 {
	m := t.Trace(ro, rd, exclude)
	if !m.Hit {
		return mgl64.Vec3{}
	}
	obj := t.Scene.Object(m.Index)
	n := Normal(m.Position, obj, t.Phase)
	color := Shade(m.Position, obj, n)

	if depth > 0 {
		if r := obj.Reflectivity; r > 0 {
			reflected := t.March(m.Position, Reflect(rd, n), m.Index, t.Options.BounceFade, depth-1)
			color = reflected.Mul(r).Add(color.Mul(1 - r))
		}
		if a := obj.Transparency; a > 0 {
			through := t.March(m.Position, rd, m.Index, t.Options.BounceFade, depth-1)
			color = through.Mul(a).Add(color.Mul(1 - a))
		}
	}
	return color.Mul(math.Min(1, fade/m.Traveled))
}

// Reflect mirrors d about the unit normal n.
func Reflect(d, n mgl64.Vec3) mgl64.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}
