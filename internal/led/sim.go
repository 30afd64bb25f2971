package led

import (
	"github.com/rs/zerolog"

	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
)

// Sim stands in for hardware in headless runs: it logs the mean frame color every
// Every frames at debug level.
type Sim struct {
	Log   zerolog.Logger
	Every uint64

	Frames uint64
	Mean   render.Color
}

func (s *Sim) Write(f render.Frame) error {
	s.Frames++
	var r, g, b float64
	for _, c := range f.Pix {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
	}
	if n := float64(len(f.Pix)); n > 0 {
		s.Mean = render.Color{R: float32(r / n), G: float32(g / n), B: float32(b / n)}
	}
	every := s.Every
	if every == 0 {
		every = 1
	}
	if s.Frames%every == 0 {
		s.Log.Debug().Uint64("frame", f.ID).Float64("phase", f.Phase).
			Float32("r", s.Mean.R).Float32("g", s.Mean.G).Float32("b", s.Mean.B).
			Msg("sim frame")
	}
	return nil
}
