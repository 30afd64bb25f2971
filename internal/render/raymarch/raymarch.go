// Package raymarch renders sdf scenes into engine framebuffers.
package raymarch

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
	"github.com/coreman2200/arcaluminis-raymarch/internal/sdf"
)

const Name = "raymarch"

var ErrNoScene = errors.New("no such scene")

type entry struct {
	scene  *sdf.Scene
	camera mgl64.Vec3
}

// Renderer sphere-traces the active scene, one pixel per framebuffer cell. Rows are
// independent and rendered on a bounded worker group.
type Renderer struct {
	mu      sync.RWMutex
	scenes  map[string]entry
	active  string
	opts    sdf.Options
	workers int
}

// New returns an empty renderer. workers <= 0 uses GOMAXPROCS.
func New(opts sdf.Options, workers int) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Renderer{scenes: map[string]entry{}, opts: opts, workers: workers}, nil
}

func (r *Renderer) Name() string { return Name }

// SetScene stores (or replaces) a named scene and its starting camera. The first scene
// added becomes active.
func (r *Renderer) SetScene(name string, s *sdf.Scene, camera mgl64.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenes[name] = entry{scene: s.Clone(), camera: camera}
	if r.active == "" {
		r.active = name
	}
}

// Use makes a stored scene active and returns its starting camera.
func (r *Renderer) Use(name string) (mgl64.Vec3, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.scenes[name]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("%w: %q", ErrNoScene, name)
	}
	r.active = name
	return e.camera, nil
}

// Active returns the active scene name and a copy of its objects.
func (r *Renderer) Active() (string, *sdf.Scene) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.scenes[r.active]
	if !ok {
		return "", nil
	}
	return r.active, e.scene.Clone()
}

func (r *Renderer) Options() sdf.Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opts
}

func (r *Renderer) Presets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.scenes))
	for k := range r.scenes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyPreset pins u to a stored scene; unknown names are ignored. The active scene
// is left alone so an armed crossfade does not take over before it is promoted.
func (r *Renderer) ApplyPreset(name string, u *render.Uniforms) {
	r.mu.RLock()
	_, ok := r.scenes[name]
	r.mu.RUnlock()
	if ok && u != nil {
		u.Preset = name
	}
}

// Render traces every pixel using the frame's camera and phase, against u.Preset or
// the active scene. dst row 0 is the top of the image, which is fragment row H-1.
func (r *Renderer) Render(dst []render.Color, dim render.Dimensions, u *render.Uniforms) {
	r.mu.RLock()
	name := r.active
	if u.Preset != "" {
		name = u.Preset
	}
	e, ok := r.scenes[name]
	opts := r.opts
	r.mu.RUnlock()
	if !ok {
		clear(dst)
		return
	}

	tr := &sdf.Tracer{Scene: e.scene, Phase: u.Phase, Options: opts}
	res := mgl64.Vec2{float64(dim.W), float64(dim.H)}
	cam := u.Camera

	var g errgroup.Group
	g.SetLimit(r.workers)
	for row := 0; row < dim.H; row++ {
		row := row
		g.Go(func() error {
			fy := float64(dim.H-1-row) + 0.5
			line := dst[row*dim.W : (row+1)*dim.W]
			for x := range line {
				c := tr.RenderPixel(mgl64.Vec2{float64(x) + 0.5, fy}, res, cam)
				line[x] = render.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}
			}
			return nil
		})
	}
	_ = g.Wait() // rows never return an error
}
