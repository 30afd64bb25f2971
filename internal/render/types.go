package render

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type Color struct{ R, G, B float32 }

// Dimensions of the framebuffer in pixels. Buffers are row-major, row 0 at the top.
type Dimensions struct{ W, H int }

func (d Dimensions) Count() int { return d.W * d.H }

// Uniforms are the per-frame inputs shared by every pixel of a frame.
type Uniforms struct {
	// Preset selects the renderer's variant for this set of uniforms, so an armed
	// renderer can differ from the active one during a crossfade.
	Preset    string
	Camera    mgl64.Vec3
	Phase     float64
	TimeScale float64
	Params    map[string]float64
	Bools     map[string]bool
}

// Clone returns a deep copy.
func (u *Uniforms) Clone() *Uniforms {
	c := &Uniforms{
		Preset:    u.Preset,
		Camera:    u.Camera,
		Phase:     u.Phase,
		TimeScale: u.TimeScale,
		Params:    make(map[string]float64, len(u.Params)),
		Bools:     make(map[string]bool, len(u.Bools)),
	}
	for k, v := range u.Params {
		c.Params[k] = v
	}
	for k, v := range u.Bools {
		c.Bools[k] = v
	}
	return c
}

type Renderer interface {
	Name() string
	Presets() []string
	ApplyPreset(name string, u *Uniforms)
	Render(dst []Color, dim Dimensions, u *Uniforms)
}

type Registry struct{ m map[string]Renderer }

func NewRegistry() *Registry { return &Registry{m: map[string]Renderer{}} }

func (r *Registry) Register(rr Renderer) {
	if rr == nil {
		return
	}
	r.m[rr.Name()] = rr
}

func (r *Registry) Get(name string) (Renderer, bool) { rr, ok := r.m[name]; return rr, ok }
func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
