package sdf

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// FarDistance is returned for kinds without a distance function.
	FarDistance = 1e9
	// EmptyDistance seeds the nearest-object scan.
	EmptyDistance = 100000.0
)

// Distance evaluates the signed distance from p to obj. phase animates the wiggle kinds.
func Distance(p mgl64.Vec3, obj WorldObject, phase float64) float64 {
	switch obj.Kind {
	case Sphere:
		return sphereDistance(p, obj.Center, obj.Size.X())
	case WiggleSphere:
		return sphereDistance(p, obj.Center, obj.Size.X()) + wiggleSphere(p, phase)
	case Plane:
		return planeDistance(p, obj.Center, obj.Size)
	case Box:
		return boxDistance(p, obj.Center, obj.Size)
	case WigglePlane:
		return planeDistance(p, obj.Center, obj.Size) + wigglePlane(p, phase)
	}
	return FarDistance
}

func sphereDistance(p, center mgl64.Vec3, radius float64) float64 {
	return p.Sub(center).Len() - radius
}

// planeDistance treats origin as a point on the plane and normal as already normalized.
func planeDistance(p, origin, normal mgl64.Vec3) float64 {
	return p.Dot(normal) - origin.Dot(normal)
}

func boxDistance(p, center, half mgl64.Vec3) float64 {
	d := abs3(p.Sub(center)).Sub(half)
	outside := max3(d, mgl64.Vec3{}).Len()
	inside := math.Min(math.Max(d.X(), math.Max(d.Y(), d.Z())), 0)
	return outside + inside
}

func wiggleSphere(p mgl64.Vec3, phase float64) float64 {
	x, y, z := p.Elem()
	return math.Sin(2*x+phase) * math.Sin(3*y-3*phase) * math.Sin(7*z-0.5*phase) * 0.25
}

func wigglePlane(p mgl64.Vec3, phase float64) float64 {
	x, _, z := p.Elem()
	return math.Sin(2*x+phase) *
		math.Sin(3*x+2.5*z-3*phase) *
		math.Sin(7*z-0.5*phase) * 0.25 *
		math.Cos(x+phase) *
		math.Cos(0.5*x+1.5*z-3*phase) *
		math.Cos(2*z-0.5*phase) * 0.25
}

func abs3(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}

func max3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}
