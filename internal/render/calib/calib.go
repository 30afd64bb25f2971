// Package calib renders wiring test patterns for LED panels.
package calib

import (
	"sync"

	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
)

const Name = "calib"

const (
	RGBChannels = "rgb_channels" // whole frame cycles red, green, blue
	RowSweep    = "row_sweep"    // one white row walks top to bottom
	ColumnSweep = "column_sweep" // one white column walks left to right
)

// Renderer advances its pattern every StepFrames frames (param, default 15).
type Renderer struct {
	mu     sync.Mutex
	preset string
	frame  int
}

func New() *Renderer { return &Renderer{preset: RGBChannels} }

func (r *Renderer) Name() string      { return Name }
func (r *Renderer) Presets() []string { return []string{RGBChannels, RowSweep, ColumnSweep} }

// ApplyPreset restarts the pattern; unknown names are ignored.
func (r *Renderer) ApplyPreset(p string, _ *render.Uniforms) {
	switch p {
	case RGBChannels, RowSweep, ColumnSweep:
	default:
		return
	}
	r.mu.Lock()
	r.preset = p
	r.frame = 0
	r.mu.Unlock()
}

func stepFrames(u *render.Uniforms) int {
	if u != nil {
		if v, ok := u.Params["StepFrames"]; ok && v >= 1 {
			return int(v)
		}
	}
	return 15
}

func (r *Renderer) Render(dst []render.Color, dim render.Dimensions, u *render.Uniforms) {
	r.mu.Lock()
	step := r.frame / stepFrames(u)
	r.frame++
	preset := r.preset
	r.mu.Unlock()

	clear(dst)
	switch preset {
	case RGBChannels:
		var c render.Color
		switch step % 3 {
		case 0:
			c.R = 1
		case 1:
			c.G = 1
		default:
			c.B = 1
		}
		for i := range dst {
			dst[i] = c
		}
	case RowSweep:
		y := step % dim.H
		for x := 0; x < dim.W; x++ {
			dst[y*dim.W+x] = render.Color{R: 1, G: 1, B: 1}
		}
	case ColumnSweep:
		x := step % dim.W
		for y := 0; y < dim.H; y++ {
			dst[y*dim.W+x] = render.Color{R: 1, G: 1, B: 1}
		}
	}
}
