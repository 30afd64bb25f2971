package sdf

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightPosition is the single point light of every scene.
var LightPosition = mgl64.Vec3{15, 15, -5}

// Shade returns the local color of obj at p with surface normal n.
//
// Normal-shaded objects map n from [-1,1] to [0,1]. Everything else blends its flat color
// with a one-sided Lambert term weighted by DiffuseIntensity.
func Shade(p mgl64.Vec3, obj WorldObject, n mgl64.Vec3) mgl64.Vec3 {
	if obj.NormalShaded() {
		return n.Mul(0.5).Add(mgl64.Vec3{0.5, 0.5, 0.5})
	}
	toLight := p.Sub(LightPosition).Normalize()
	diffuse := math.Max(0, n.Dot(toLight))
	k := obj.DiffuseIntensity
	return obj.Color.Mul(1 - k).Add(obj.Color.Mul(diffuse * k))
}
