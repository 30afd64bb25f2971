package sdf

import "github.com/go-gl/mathgl/mgl64"

// CameraRay builds the primary ray for a window-space fragment coordinate (pixel
// centre, origin at the bottom-left). The direction is (u, v, 1) with u in [-1,1] and
// v in [-h/w, h/w]; it is deliberately left unnormalized.
func CameraRay(frag, resolution mgl64.Vec2, camera mgl64.Vec3) (ro, rd mgl64.Vec3) {
	aspect := resolution.Y() / resolution.X()
	u := frag.X()/resolution.X()*2 - 1
	v := (frag.Y()/resolution.Y()*2 - 1) * aspect
	return camera, mgl64.Vec3{u, v, 1}
}

// RenderPixel shades one fragment with the full bounce budget.
func (t *Tracer) RenderPixel(frag, resolution mgl64.Vec2, camera mgl64.Vec3) mgl64.Vec3 {
	ro, rd := CameraRay(frag, resolution, camera)
	return t.March(ro, rd, NoExclude, t.Options.TopFade, t.Options.MaxDepth)
}
