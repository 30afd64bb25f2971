package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
)

func TestPatterns(t *testing.T) {
	dim := render.Dimensions{W: 3, H: 2}
	dst := make([]render.Color, dim.Count())
	u := &render.Uniforms{Params: map[string]float64{"StepFrames": 1}}
	r := New()

	r.Render(dst, dim, u)
	assert.Equal(t, render.Color{R: 1}, dst[5])
	r.Render(dst, dim, u)
	assert.Equal(t, render.Color{G: 1}, dst[0])

	white := render.Color{R: 1, G: 1, B: 1}
	r.ApplyPreset(RowSweep, u)
	r.Render(dst, dim, u)
	assert.Equal(t, []render.Color{white, white, white, {}, {}, {}}, dst)
	r.Render(dst, dim, u)
	assert.Equal(t, []render.Color{{}, {}, {}, white, white, white}, dst)

	r.ApplyPreset(ColumnSweep, u)
	r.ApplyPreset("plane_z", u)
	r.Render(dst, dim, u)
	r.Render(dst, dim, u)
	assert.Equal(t, []render.Color{{}, white, {}, {}, white, {}}, dst)
}

func TestStepFramesHoldsPattern(t *testing.T) {
	dim := render.Dimensions{W: 1, H: 1}
	dst := make([]render.Color, 1)
	r := New()
	for i := 0; i < 15; i++ {
		r.Render(dst, dim, nil)
		assert.Equal(t, render.Color{R: 1}, dst[0], "frame %d", i)
	}
	r.Render(dst, dim, nil)
	assert.Equal(t, render.Color{G: 1}, dst[0])
}
