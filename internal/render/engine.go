package render

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coreman2200/arcaluminis-raymarch/internal/control"
)

var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrRendererNotFound  = errors.New("renderer not found")
)

// Frame is one finished, post-processed framebuffer handed to drivers.
// Pix is only valid for the duration of Write.
type Frame struct {
	ID    uint64
	Time  time.Time
	Dim   Dimensions
	Phase float64
	Pix   []Color
}

// Driver abstracts an output (LED strip, websocket preview, etc.).
type Driver interface {
	Write(Frame) error
}

// Engine renders frames using an active Renderer, optional next Renderer for crossfades,
// applies post-processing, then writes to the drivers.
type Engine struct {
	mu sync.Mutex

	Dim     Dimensions
	Drivers []Driver
	Camera  *control.Camera
	Clock   *PhaseClock

	// active + next renderer and uniforms
	RActive Renderer
	RNext   Renderer
	UActive *Uniforms
	UNext   *Uniforms

	// framebuffers
	BufA []Color // active
	BufB []Color // next (during crossfade)
	Out  []Color // mixed + post

	// crossfade
	alpha  float64 // 0..1
	fading bool

	post  PostPipeline
	frame uint64

	// metrics of the last frame
	Last struct {
		RenderMS  float64
		PostMS    float64
		TotalMS   float64
		NonFinite int
	}
}

// PostPipeline groups post stages; all are optional. Non-finite pixels are always
// replaced before the stages run.
type PostPipeline struct {
	ToneMap func([]Color, *Uniforms)
	Limiter func([]Color, *Uniforms)
}

// NewEngine allocates buffers and returns an Engine with the clamp post stage.
func NewEngine(dim Dimensions, cam *control.Camera, r Renderer, u *Uniforms, drivers ...Driver) (*Engine, error) {
	if dim.W <= 0 || dim.H <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, dim.W, dim.H)
	}
	if u == nil {
		u = &Uniforms{TimeScale: 1}
	}
	n := dim.Count()
	e := &Engine{
		Dim:     dim,
		Drivers: drivers,
		Camera:  cam,
		Clock:   NewPhaseClock(),
		RActive: r,
		UActive: u,
		BufA:    make([]Color, n),
		BufB:    make([]Color, n),
		Out:     make([]Color, n),
		post:    PostPipeline{ToneMap: ClampPost},
	}
	return e, nil
}

// RenderOnce renders, post-processes and writes a single frame. The camera and the
// phase are sampled once, before any pixel is computed.
func (e *Engine) RenderOnce() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	scale := 1.0
	if e.UActive != nil && e.UActive.TimeScale != 0 {
		scale = e.UActive.TimeScale
	}
	phase := e.Clock.Advance(scale)
	for _, u := range []*Uniforms{e.UActive, e.UNext} {
		if u == nil {
			continue
		}
		u.Phase = phase
		if e.Camera != nil {
			u.Camera = e.Camera.Snapshot()
		}
	}

	// Render active
	if e.RActive != nil {
		e.RActive.Render(e.BufA, e.Dim, e.UActive)
	} else {
		clear(e.BufA)
	}

	// Render next if fading
	if e.fading && e.RNext != nil {
		e.RNext.Render(e.BufB, e.Dim, e.UNext)
		Mix(e.Out, e.BufA, e.BufB, e.alpha)
	} else {
		copy(e.Out, e.BufA)
	}
	e.Last.RenderMS = ms(time.Since(start))

	// Post
	postStart := time.Now()
	e.Last.NonFinite = SanitizeNonFinite(e.Out)
	if e.post.ToneMap != nil {
		e.post.ToneMap(e.Out, e.UActive)
	}
	if e.post.Limiter != nil {
		e.post.Limiter(e.Out, e.UActive)
	}
	e.Last.PostMS = ms(time.Since(postStart))

	e.frame++
	f := Frame{ID: e.frame, Time: time.Now(), Dim: e.Dim, Phase: phase, Pix: e.Out}
	var errs []error
	for _, d := range e.Drivers {
		if err := d.Write(f); err != nil {
			errs = append(errs, err)
		}
	}
	e.Last.TotalMS = ms(time.Since(start))
	return errors.Join(errs...)
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

func (e *Engine) UseFilmicPost() {
	e.SetPost(PostPipeline{ToneMap: FilmicToneMap, Limiter: DefaultLimiter})
}

// UseLEDPost applies exposure linearly and the current limiter, without a curve.
func (e *Engine) UseLEDPost() {
	e.SetPost(PostPipeline{ToneMap: LinearExposure, Limiter: LimitAndClamp})
}

func (e *Engine) SetPost(p PostPipeline) {
	e.mu.Lock()
	e.post = p
	e.mu.Unlock()
}

// AddDriver attaches another output.
func (e *Engine) AddDriver(d Driver) {
	e.mu.Lock()
	e.Drivers = append(e.Drivers, d)
	e.mu.Unlock()
}

// Snapshot copies the last finished frame.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	pix := make([]Color, len(e.Out))
	copy(pix, e.Out)
	return Frame{ID: e.frame, Dim: e.Dim, Phase: e.Clock.Phase(), Pix: pix}
}

// Status is a point-in-time view for health reporting.
type Status struct {
	Frame    uint64
	Phase    float64
	Renderer string
	Preset   string
	Fading   bool
	Alpha    float64
	RenderMS float64
	TotalMS  float64
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{
		Frame:    e.frame,
		Phase:    e.Clock.Phase(),
		Fading:   e.fading,
		Alpha:    e.alpha,
		RenderMS: e.Last.RenderMS,
		TotalMS:  e.Last.TotalMS,
	}
	if e.RActive != nil {
		s.Renderer = e.RActive.Name()
	}
	if e.UActive != nil {
		s.Preset = e.UActive.Preset
	}
	return s
}

// ---- Hooks that match Player expectations ----

func lookup(reg *Registry, name string) (Renderer, error) {
	if reg == nil {
		return nil, errors.New("registry is nil")
	}
	rr, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRendererNotFound, name)
	}
	return rr, nil
}

// SetRenderer becomes the active renderer immediately.
// If preset != "", ApplyPreset is called on the renderer with UActive.
func (e *Engine) SetRenderer(name string, preset string, reg *Registry) error {
	rr, err := lookup(reg, name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.RActive = rr
	if preset != "" {
		rr.ApplyPreset(preset, e.UActive)
	}
	// reset fade
	e.RNext = nil
	e.fading = false
	e.alpha = 0
	return nil
}

// ArmNext prepares the next renderer for crossfade.
func (e *Engine) ArmNext(name string, preset string, reg *Registry) error {
	rr, err := lookup(reg, name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.RNext = rr
	e.UNext = e.UActive.Clone()
	if preset != "" {
		rr.ApplyPreset(preset, e.UNext)
	}
	e.fading = true
	return nil
}

// SetCrossfade sets mix alpha 0..1. Reaching 1 promotes next to active.
func (e *Engine) SetCrossfade(alpha float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case alpha <= 0:
		e.alpha = 0
		e.fading = false
	case alpha >= 1:
		e.alpha = 0
		e.fading = false
		if e.RNext != nil {
			e.RActive = e.RNext
			e.UActive = e.UNext
		}
		e.RNext = nil
		e.UNext = nil
	default:
		e.alpha = alpha
		e.fading = e.RNext != nil
	}
}

// SetParam updates active uniforms.
func (e *Engine) SetParam(name string, v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range []*Uniforms{e.UActive, e.UNext} {
		if u == nil {
			continue
		}
		if u.Params == nil {
			u.Params = map[string]float64{}
		}
		u.Params[name] = v
	}
}

// SetBool updates active uniforms.
func (e *Engine) SetBool(name string, b bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, u := range []*Uniforms{e.UActive, e.UNext} {
		if u == nil {
			continue
		}
		if u.Bools == nil {
			u.Bools = map[string]bool{}
		}
		u.Bools[name] = b
	}
}

// Param reads an active uniform param.
func (e *Engine) Param(name string) (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.UActive == nil {
		return 0, false
	}
	v, ok := e.UActive.Params[name]
	return v, ok
}
