// Package solid fills the frame with one color. It is used to blank outputs and as a
// crossfade target.
package solid

import (
	"math"

	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
)

const Name = "solid"

// Solid supports named color presets and an optional "PulseHz" param that modulates
// brightness against the frame phase.
type Solid struct {
	c render.Color
}

func New(c render.Color) *Solid { return &Solid{c: c} }

func (s *Solid) Name() string { return Name }

var palette = map[string]render.Color{
	"red":   {R: 1},
	"green": {G: 1},
	"blue":  {B: 1},
	"white": {R: 1, G: 1, B: 1},
	"black": {},
}

func (s *Solid) Presets() []string { return []string{"black", "blue", "green", "red", "white"} }

func (s *Solid) ApplyPreset(name string, _ *render.Uniforms) {
	if c, ok := palette[name]; ok {
		s.c = c
	}
}

func (s *Solid) Render(dst []render.Color, _ render.Dimensions, u *render.Uniforms) {
	scale := float32(1.0)
	if u != nil {
		if hz, ok := u.Params["PulseHz"]; ok && hz > 0 {
			scale = float32(0.5 + 0.5*math.Sin(2*math.Pi*hz*u.Phase))
		}
	}
	c := render.Color{R: s.c.R * scale, G: s.c.G * scale, B: s.c.B * scale}
	for i := range dst {
		dst[i] = c
	}
}
