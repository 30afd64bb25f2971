package raymarch

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
	"github.com/coreman2200/arcaluminis-raymarch/internal/sdf"
)

func ball(center mgl64.Vec3, r float64) sdf.WorldObject {
	return sdf.WorldObject{Kind: sdf.Sphere, Center: center, Size: mgl64.Vec3{r, r, r}, Color: mgl64.Vec3{1, 0.8, 0.6}, DiffuseIntensity: 0.5}
}

func lit(c render.Color) bool { return c.R+c.G+c.B > 0 }

func TestRenderTopRowIsTopOfImage(t *testing.T) {
	r, err := New(sdf.DefaultOptions(), 4)
	require.NoError(t, err)
	r.SetScene("high", sdf.MustScene(16, ball(mgl64.Vec3{0, 1.2, 0}, 0.5)), mgl64.Vec3{0, 0, -3.5})

	dim := render.Dimensions{W: 32, H: 24}
	dst := make([]render.Color, dim.Count())
	r.Render(dst, dim, &render.Uniforms{Camera: mgl64.Vec3{0, 0, -3.5}})

	var top, bottom int
	for i, c := range dst {
		if !lit(c) {
			continue
		}
		if i/dim.W < dim.H/2 {
			top++
		} else {
			bottom++
		}
	}
	assert.NotZero(t, top)
	assert.Zero(t, bottom)
}

func TestRenderMatchesSerialTrace(t *testing.T) {
	s := sdf.MustScene(16, ball(mgl64.Vec3{}, 1))
	dim := render.Dimensions{W: 16, H: 12}
	u := &render.Uniforms{Camera: mgl64.Vec3{0, 0, -3.5}, Phase: 1}

	par, err := New(sdf.DefaultOptions(), 8)
	require.NoError(t, err)
	par.SetScene("s", s, u.Camera)
	got := make([]render.Color, dim.Count())
	par.Render(got, dim, u)

	tr := &sdf.Tracer{Scene: s, Phase: 1, Options: sdf.DefaultOptions()}
	for row := 0; row < dim.H; row++ {
		for x := 0; x < dim.W; x++ {
			c := tr.RenderPixel(mgl64.Vec2{float64(x) + 0.5, float64(dim.H-1-row) + 0.5}, mgl64.Vec2{16, 12}, u.Camera)
			want := render.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}
			require.Equal(t, want, got[row*dim.W+x], "pixel %d,%d", x, row)
		}
	}
	assert.True(t, lit(got[6*dim.W+8]))
	assert.False(t, lit(got[0]))
}

func TestScenesAndPresets(t *testing.T) {
	r, err := New(sdf.DefaultOptions(), 0)
	require.NoError(t, err)
	assert.Equal(t, Name, r.Name())

	dst := []render.Color{{R: 1, G: 1, B: 1}}
	r.Render(dst, render.Dimensions{W: 1, H: 1}, &render.Uniforms{})
	assert.Equal(t, render.Color{}, dst[0])

	r.SetScene("b", sdf.MustScene(16, ball(mgl64.Vec3{}, 1)), mgl64.Vec3{0, 0, -3.5})
	r.SetScene("a", sdf.MustScene(16), mgl64.Vec3{1, 2, 3})
	assert.Equal(t, []string{"a", "b"}, r.Presets())

	name, s := r.Active()
	assert.Equal(t, "b", name)
	assert.Equal(t, 1, s.Len())

	cam, err := r.Use("a")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, cam)
	_, err = r.Use("zzz")
	assert.ErrorIs(t, err, ErrNoScene)

	u := &render.Uniforms{}
	r.ApplyPreset("b", u)
	r.ApplyPreset("zzz", u)
	assert.Equal(t, "b", u.Preset)
	name, _ = r.Active()
	assert.Equal(t, "a", name, "pinning uniforms does not switch the active scene")

	bad := sdf.DefaultOptions()
	bad.MaxSteps = 0
	_, err = New(bad, 1)
	assert.Error(t, err)
}

func TestArmedUniformsRenderTheirOwnScene(t *testing.T) {
	r, err := New(sdf.DefaultOptions(), 2)
	require.NoError(t, err)
	r.SetScene("ball", sdf.MustScene(16, ball(mgl64.Vec3{}, 1)), mgl64.Vec3{0, 0, -3.5})
	r.SetScene("empty", sdf.MustScene(16), mgl64.Vec3{0, 0, -3.5})

	active := &render.Uniforms{Camera: mgl64.Vec3{0, 0, -3.5}}
	r.ApplyPreset("ball", active)
	next := active.Clone()
	r.ApplyPreset("empty", next)
	assert.Equal(t, "ball", active.Preset)
	assert.Equal(t, "empty", next.Preset)

	dim := render.Dimensions{W: 8, H: 6}
	a := make([]render.Color, dim.Count())
	b := make([]render.Color, dim.Count())
	r.Render(a, dim, active)
	r.Render(b, dim, next)
	assert.True(t, lit(a[3*dim.W+4]))
	assert.False(t, lit(b[3*dim.W+4]))
}
