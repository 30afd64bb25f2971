package sdf

import (
	"math"
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereAt(c mgl64.Vec3, r float64) WorldObject {
	return WorldObject{Kind: Sphere, Center: c, Size: mgl64.Vec3{r, r, r}, Color: mgl64.Vec3{1, 1, 1}}
}

func TestSphereDistanceSign(t *testing.T) {
	s := sphereAt(mgl64.Vec3{1, 2, 3}, 2)
	for _, tc := range []struct {
		name string
		p    mgl64.Vec3
		sign int
	}{
		{"surface +x", mgl64.Vec3{3, 2, 3}, 0},
		{"surface -y", mgl64.Vec3{1, 0, 3}, 0},
		{"surface +z", mgl64.Vec3{1, 2, 5}, 0},
		{"center", mgl64.Vec3{1, 2, 3}, -1},
		{"just inside", mgl64.Vec3{2.5, 2, 3}, -1},
		{"just outside", mgl64.Vec3{3.01, 2, 3}, 1},
		{"far", mgl64.Vec3{-10, 40, 3}, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := Distance(tc.p, s, 0)
			switch tc.sign {
			case 0:
				assert.Equal(t, 0.0, d)
			case -1:
				assert.Less(t, d, 0.0)
			default:
				assert.Greater(t, d, 0.0)
			}
		})
	}
}

func TestBoxDistanceAtCenterIsMinusSmallestHalfExtent(t *testing.T) {
	for _, half := range []mgl64.Vec3{{1, 2, 3}, {5, 0.5, 4}, {2, 2, 2}, {7, 9, 1.5}} {
		b := WorldObject{Kind: Box, Center: mgl64.Vec3{-4, 1, 6}, Size: half}
		want := -math.Min(half.X(), math.Min(half.Y(), half.Z()))
		assert.Equal(t, want, Distance(b.Center, b, 0), "half extent %v", half)
	}
}

func TestBoxDistanceOutside(t *testing.T) {
	b := WorldObject{Kind: Box, Size: mgl64.Vec3{1, 1, 1}}
	assert.InDelta(t, 1.0, Distance(mgl64.Vec3{2, 0, 0}, b, 0), 1e-12)
	// corner region measures euclidean distance to the corner
	assert.InDelta(t, math.Sqrt(3), Distance(mgl64.Vec3{2, 2, 2}, b, 0), 1e-12)
	assert.InDelta(t, 0.0, Distance(mgl64.Vec3{1, 0.3, -0.2}, b, 0), 1e-12)
}

func TestPlaneDistance(t *testing.T) {
	floor := WorldObject{Kind: Plane, Center: mgl64.Vec3{0, -2, 0}, Size: mgl64.Vec3{0, 1, 0}}
	assert.Equal(t, 2.0, Distance(mgl64.Vec3{5, 0, -3}, floor, 0))
	assert.Equal(t, -1.0, Distance(mgl64.Vec3{0, -3, 0}, floor, 0))
	assert.Equal(t, 0.0, Distance(mgl64.Vec3{9, -2, 9}, floor, 0))
}

func TestWiggleDisplacement(t *testing.T) {
	base := sphereAt(mgl64.Vec3{}, 1)
	wiggle := base
	wiggle.Kind = WiggleSphere

	p := mgl64.Vec3{0.3, 1.1, -0.4}
	phase := 1.7
	want := math.Sin(2*p.X()+phase) * math.Sin(3*p.Y()-3*phase) * math.Sin(7*p.Z()-0.5*phase) * 0.25
	assert.InDelta(t, Distance(p, base, phase)+want, Distance(p, wiggle, phase), 1e-12)

	plane := WorldObject{Kind: Plane, Size: mgl64.Vec3{0, 1, 0}}
	wp := plane
	wp.Kind = WigglePlane
	for _, tc := range []struct {
		p     mgl64.Vec3
		phase float64
	}{
		{p, phase},
		{mgl64.Vec3{-2.2, 0.7, 3.1}, -4.3},
	} {
		x, z, ph := tc.p.X(), tc.p.Z(), tc.phase
		want := math.Sin(2*x+ph) * math.Sin(3*x+2.5*z-3*ph) * math.Sin(7*z-0.5*ph) * 0.25 *
			math.Cos(x+ph) * math.Cos(0.5*x+1.5*z-3*ph) * math.Cos(2*z-0.5*ph) * 0.25
		require.NotZero(t, want)
		assert.InDelta(t, Distance(tc.p, plane, ph)+want, Distance(tc.p, wp, ph), 1e-12, "p=%v phase=%v", tc.p, ph)
	}

	// the ripple moves with the phase
	assert.NotEqual(t, Distance(p, wiggle, 0), Distance(p, wiggle, 2))
}

func TestUnknownKindIsEmptySpace(t *testing.T) {
	o := WorldObject{Kind: Kind(9), Size: mgl64.Vec3{1, 1, 1}}
	assert.Equal(t, FarDistance, Distance(mgl64.Vec3{}, o, 0))

	s := MustScene(16, o, sphereAt(mgl64.Vec3{0, 0, 50}, 1))
	h := Nearest(mgl64.Vec3{}, s, 0, NoExclude)
	assert.Equal(t, 1, h.Index)
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"sphere": Sphere, "Wiggle-Sphere": WiggleSphere, "plane": Plane,
		"BOX": Box, "wiggle_plane": WigglePlane, "4": Box, "4.0": Box, "7": Unknown,
	} {
		k, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, k, in)
	}
	_, err := ParseKind("torus")
	assert.Error(t, err)
	assert.Equal(t, "wiggle_plane", WigglePlane.String())
	assert.False(t, Kind(0).Known())
}

func TestMalformedKindCodesAreEmptySpace(t *testing.T) {
	for _, code := range []float64{4.5, 1.25, 1.9, 257, -1, 0, 6, math.NaN()} {
		assert.Equal(t, Unknown, KindFromCode(code), "code %v", code)

		k, err := ParseKind(strconv.FormatFloat(code, 'g', -1, 64))
		require.NoError(t, err, "code %v", code)
		assert.Equal(t, Unknown, k, "code %v", code)

		packed := make([]float32, FloatsPerObject)
		packed[4], packed[5], packed[6] = 1, 1, 1
		packed[11] = float32(code)
		s, err := Unpack(packed, 1, 16)
		require.NoError(t, err)
		assert.Equal(t, Unknown, s.Object(0).Kind, "code %v", code)
		assert.Equal(t, FarDistance, Distance(mgl64.Vec3{}, s.Object(0), 0), "code %v", code)
	}
	for code := Sphere; code <= WigglePlane; code++ {
		assert.Equal(t, code, KindFromCode(float64(code)))
	}
}

func TestValidateMaterial(t *testing.T) {
	o := sphereAt(mgl64.Vec3{}, 1)
	o.Reflectivity, o.Transparency, o.DiffuseIntensity = 1, 0, 0.5
	assert.NoError(t, o.Validate())
	o.Transparency = 1.2
	assert.Error(t, o.Validate())
	o.Transparency = math.NaN()
	assert.Error(t, o.Validate())
}
