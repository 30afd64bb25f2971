// Package led pushes rendered frames to addressable LED strips.
package led

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/arcaluminis-raymarch/internal/layout"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
)

// DefaultFreq suits WS2812-class strips driven over SPI.
const DefaultFreq = 2500 * physic.KiloHertz

// Strip resamples frames onto a panel layout and draws them on a periph drawer.
type Strip struct {
	mu     sync.Mutex
	drawer display.Drawer
	closer io.Closer
	layout layout.Layout
	img    *image.NRGBA
}

func newStrip(d display.Drawer, l layout.Layout) *Strip {
	return &Strip{drawer: d, layout: l, img: image.NewNRGBA(image.Rect(0, 0, l.Count(), 1))}
}

// NewSPIStrip drives an nrzled strip on an already opened SPI port.
func NewSPIStrip(p spi.Port, l layout.Layout, freq physic.Frequency) (*Strip, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if freq == 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: l.Count(), Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return newStrip(d, l), nil
}

// NewConsoleStrip prints frames as ANSI colors on the terminal.
func NewConsoleStrip(l layout.Layout) (*Strip, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return newStrip(screen.New(l.Count()), l), nil
}

// Open opens the named SPI port ("" for the first one) and falls back to the console
// when none is available. host.Init must have been called.
func Open(name string, l layout.Layout, freq physic.Frequency) (*Strip, error) {
	p, err := spireg.Open(name)
	if err != nil {
		log.Warn().Err(err).Str("port", name).Msg("no SPI port; drawing LED frames on the console")
		return NewConsoleStrip(l)
	}
	s, err := NewSPIStrip(p, l, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	s.closer = p
	log.Info().Str("port", p.String()).Int("leds", l.Count()).Msg("LED strip ready")
	return s, nil
}

func (s *Strip) Layout() layout.Layout { return s.layout }

// Write resamples the frame to the layout grid (nearest pixel) and draws it.
func (s *Strip) Write(f render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lw, lh := s.layout.Dim.W, s.layout.Dim.H
	if f.Dim.Count() == 0 || len(f.Pix) < f.Dim.Count() {
		return fmt.Errorf("led: frame %d has no pixels", f.ID)
	}
	for y := 0; y < lh; y++ {
		sy := (2*y + 1) * f.Dim.H / (2 * lh)
		for x := 0; x < lw; x++ {
			sx := (2*x + 1) * f.Dim.W / (2 * lw)
			c := f.Pix[sy*f.Dim.W+sx]
			s.img.SetNRGBA(s.layout.Index(x, y), 0, color.NRGBA{R: render.To8(c.R), G: render.To8(c.G), B: render.To8(c.B), A: 0xff})
		}
	}
	return s.drawer.Draw(s.drawer.Bounds(), s.img, image.Point{})
}

// Close blanks the strip and releases the port.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.drawer.Halt()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
