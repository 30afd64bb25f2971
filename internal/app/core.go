// Package app wires the camera, renderers, engine and show player into a running core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-raymarch/internal/config"
	"github.com/coreman2200/arcaluminis-raymarch/internal/control"
	diag "github.com/coreman2200/arcaluminis-raymarch/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render/calib"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render/raymarch"
	"github.com/coreman2200/arcaluminis-raymarch/internal/render/solid"
	"github.com/coreman2200/arcaluminis-raymarch/internal/scene"
	"github.com/coreman2200/arcaluminis-raymarch/internal/sdf"
	"github.com/coreman2200/arcaluminis-raymarch/internal/show"
	"github.com/coreman2200/arcaluminis-raymarch/internal/ws"
)

// DefaultCamera is used when neither the scene nor the config sets one.
var DefaultCamera = mgl64.Vec3{0, 0, -3.5}

type Core struct {
	Eng    *render.Engine
	Reg    *render.Registry
	Ray    *raymarch.Renderer
	Cam    *control.Camera
	Player *show.Player

	// OnDiag receives every diagnostic after it is logged.
	OnDiag func(diag.Diagnostic)

	cfg   *config.Config
	start time.Time

	mu      sync.Mutex
	fps     float64
	lastErr string
}

func postParams(c *config.Config) map[string]float64 {
	return map[string]float64{
		"ExposureEV":  c.Post.ExposureEV,
		"OutputGamma": c.Post.OutputGamma,
		"Budget_mA":   c.Output.Power.BudgetMA,
		"WhiteCap":    c.Output.Power.WhiteCap,
		"LEDChan_mA":  20,
		"LimiterKnee": 0.9,
	}
}

// InitCore builds every scene preset (plus cfg.Scene.File), registers the renderers and
// selects the starting scene. Frames go to drivers.
func InitCore(ctx context.Context, cfg *config.Config, drivers ...render.Driver) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ray, err := raymarch.New(cfg.Options(), cfg.Render.Workers)
	if err != nil {
		return nil, err
	}
	for _, name := range scene.Presets() {
		d, _ := scene.Preset(name)
		s, err := d.Build()
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		ray.SetScene(name, s, d.CameraOr(DefaultCamera))
	}

	reg := render.NewRegistry()
	reg.Register(ray)
	reg.Register(solid.New(render.Color{}))
	reg.Register(calib.New())

	cam := control.NewCamera(DefaultCamera)
	u := &render.Uniforms{TimeScale: 1, Params: postParams(cfg), Bools: map[string]bool{}}
	eng, err := render.NewEngine(render.Dimensions{W: cfg.Render.Width, H: cfg.Render.Height}, cam, ray, u, drivers...)
	if err != nil {
		return nil, err
	}
	switch cfg.Post.ToneMap {
	case "filmic":
		eng.UseFilmicPost()
	case "led":
		eng.UseLEDPost()
	}

	c := &Core{Eng: eng, Reg: reg, Ray: ray, Cam: cam, cfg: cfg, start: time.Now()}
	c.Player = show.NewPlayer(c.hooks())

	start := cfg.Scene.Preset
	if cfg.Scene.File != "" {
		if start, err = c.LoadSceneFile(cfg.Scene.File); err != nil {
			return nil, err
		}
	} else if err := c.UseScene(start); err != nil {
		return nil, err
	}
	if cfg.Camera != nil {
		cam.Set(mgl64.Vec3(*cfg.Camera))
	}

	if cfg.Show != "" {
		if err := c.LoadShow(cfg.Show); err != nil {
			return nil, err
		}
	}
	log.Info().Str("scene", start).Int("w", cfg.Render.Width).Int("h", cfg.Render.Height).
		Strs("renderers", reg.List()).Msg("core ready")
	return c, nil
}

func (c *Core) hooks() show.Hooks {
	return show.Hooks{
		SetRenderer: func(name, preset string) {
			if name == raymarch.Name && preset != "" {
				if err := c.UseScene(preset); err != nil {
					c.emit(diag.SceneLoadFailed("show", err))
				}
				return
			}
			if err := c.Eng.SetRenderer(name, preset, c.Reg); err != nil {
				log.Warn().Err(err).Msg("show: set renderer")
			}
		},
		ArmNext: func(name, preset string) {
			if err := c.Eng.ArmNext(name, preset, c.Reg); err != nil {
				log.Warn().Err(err).Msg("show: arm next")
			}
		},
		SetCrossfade: c.Eng.SetCrossfade,
		SetParam:     c.Eng.SetParam,
		SetBool:      c.Eng.SetBool,
		SetCameraAxis: func(axis int, v float64) {
			p := c.Cam.Snapshot()
			p[axis] = v
			c.Cam.Set(p)
		},
	}
}

func (c *Core) emit(d diag.Diagnostic) {
	diag.Log(log.Logger, d)
	if c.OnDiag != nil {
		c.OnDiag(d)
	}
}

// Camera implements ws.Controller.
func (c *Core) Camera() *control.Camera { return c.Cam }

// UseScene activates a stored scene and moves the camera to its start position.
func (c *Core) UseScene(name string) error {
	camera, err := c.Ray.Use(name)
	if err != nil {
		return err
	}
	if err := c.Eng.SetRenderer(raymarch.Name, name, c.Reg); err != nil {
		return err
	}
	c.Cam.Set(camera)
	_, s := c.Ray.Active()
	c.emit(diag.SceneSwitched(name, s.Len()))
	return nil
}

// LoadScene parses a scene document, stores it under its name ("custom" when unnamed)
// and activates it.
func (c *Core) LoadScene(doc []byte) error {
	d, err := scene.Parse(doc)
	if err != nil {
		return err
	}
	if d.Name == "" {
		d.Name = "custom"
	}
	return c.store(d)
}

// LoadSceneFile loads a scene document from disk and returns the name it is stored under.
func (c *Core) LoadSceneFile(path string) (string, error) {
	d, err := scene.Load(path)
	if err != nil {
		c.emit(diag.SceneLoadFailed(path, err))
		return "", err
	}
	if d.Name == path {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := c.store(d); err != nil {
		c.emit(diag.SceneLoadFailed(path, err))
		return "", err
	}
	return d.Name, nil
}

func (c *Core) store(d *scene.Description) error {
	s, err := d.Build()
	if err != nil {
		return err
	}
	c.Ray.SetScene(d.Name, s, d.CameraOr(DefaultCamera))
	return c.UseScene(d.Name)
}

// LoadShow loads a show file and starts playing it.
func (c *Core) LoadShow(path string) error {
	s, err := show.LoadFile(path)
	if err == nil {
		err = c.Player.Load(s)
	}
	if err != nil {
		c.emit(diag.ShowFailed(path, err))
		return err
	}
	c.Player.Start()
	log.Info().Str("show", path).Int("shots", len(s.Shots)).Msg("show started")
	return nil
}

func (c *Core) SetParam(name string, v float64) { c.Eng.SetParam(name, v) }

// RunTest switches the output to a wiring test pattern. UseScene returns to rendering.
func (c *Core) RunTest(pattern string) error {
	rr, _ := c.Reg.Get(calib.Name)
	for _, p := range rr.Presets() {
		if p == pattern {
			c.Player.Pause()
			return c.Eng.SetRenderer(calib.Name, pattern, c.Reg)
		}
	}
	return fmt.Errorf("unknown test pattern %q", pattern)
}

// Health implements ws.Controller.
func (c *Core) Health() ws.Health {
	st := c.Eng.Status()
	name, _ := c.Ray.Active()
	if st.Renderer == raymarch.Name && st.Preset != "" {
		name = st.Preset
	}
	c.mu.Lock()
	fps := c.fps
	c.mu.Unlock()
	_, shot, _ := c.Player.Status()
	return ws.Health{
		FrameID:  st.Frame,
		UptimeS:  time.Since(c.start).Seconds(),
		FPS:      fps,
		Width:    c.cfg.Render.Width,
		Height:   c.cfg.Render.Height,
		Camera:   [3]float64(c.Cam.Snapshot()),
		Phase:    st.Phase,
		Scene:    name,
		Renderer: st.Renderer,
		Show:     shot,
	}
}

// Step advances the show by dt and renders one frame.
func (c *Core) Step(dt float64) {
	c.Player.Tick(dt)
	err := c.Eng.RenderOnce()

	c.mu.Lock()
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	changed := msg != c.lastErr
	c.lastErr = msg
	c.mu.Unlock()
	if err != nil && changed {
		c.emit(diag.DriverFailed(err))
	}
	if n := c.Eng.Last.NonFinite; n > 0 {
		c.emit(diag.NonFinitePixels(c.Eng.Status().Frame, n))
	}
}

// Run renders at fps until ctx is done.
func (c *Core) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			c.Step(dt.Seconds())
			if elapsed := now.Sub(last).Seconds(); elapsed > 0 {
				c.mu.Lock()
				c.fps = 0.9*c.fps + 0.1/elapsed
				c.mu.Unlock()
			}
			last = now
		}
	}
}

// Stop halts the show and blanks the outputs with one black frame.
func (c *Core) Stop() {
	c.Player.Stop()
	if err := c.Eng.SetRenderer(solid.Name, "black", c.Reg); err == nil {
		_ = c.Eng.RenderOnce()
	}
}

// DumpScene writes the active scene's packed uniform buffer to path.
func (c *Core) DumpScene(path string) error {
	_, s := c.Ray.Active()
	if s == nil {
		return raymarch.ErrNoScene
	}
	return os.WriteFile(path, sdf.PackBytes(s), 0644)
}
