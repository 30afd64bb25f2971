package show

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrNoShots = errors.New("show has no shots")

// Parse decodes a YAML (or JSON) show and sorts every track by key time.
func Parse(b []byte) (Show, error) {
	var s Show
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Show{}, fmt.Errorf("parse show: %w", err)
	}
	return s, s.normalize()
}

func LoadFile(path string) (Show, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Show{}, err
	}
	s, err := Parse(b)
	if err != nil {
		return Show{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Show) normalize() error {
	if len(s.Shots) == 0 {
		return ErrNoShots
	}
	for i, sh := range s.Shots {
		if sh.Renderer == "" {
			return fmt.Errorf("shot %d (%s): no renderer", i, sh.Name)
		}
		if sh.Duration <= 0 {
			return fmt.Errorf("shot %d (%s): duration must be positive", i, sh.Name)
		}
		if sh.Blend < 0 || sh.Blend > sh.Duration {
			return fmt.Errorf("shot %d (%s): blend %v outside [0, duration]", i, sh.Name, sh.Blend)
		}
		for _, m := range []map[string]Track{sh.Tracks, sh.Flags} {
			for _, tr := range m {
				sort.SliceStable(tr.Keys, func(a, b int) bool { return tr.Keys[a].T < tr.Keys[b].T })
			}
		}
	}
	return nil
}

// Player owns the current Show timeline and drives the engine through Hooks.
// It is safe for concurrent use.
type Player struct {
	mu    sync.Mutex
	state State

	show Show
	now  float64 // seconds since show start
	idx  int     // current shot

	armed     bool
	lastAlpha float64

	hooks Hooks
}

func NewPlayer(h Hooks) *Player {
	return &Player{state: Idle, hooks: h}
}

// Load replaces the current show and resets to Idle.
func (p *Player) Load(s Show) error {
	if err := s.normalize(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.show = s
	p.state = Idle
	p.now = 0
	p.idx = 0
	p.resetFade()
	return nil
}

func (p *Player) resetFade() {
	p.armed = false
	p.lastAlpha = 0
}

// Start moves to Running and selects the current shot.
func (p *Player) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Running || len(p.show.Shots) == 0 {
		return
	}
	p.state = Running
	p.enter()
}

func (p *Player) Pause() {
	p.mu.Lock()
	if p.state == Running {
		p.state = Paused
	}
	p.mu.Unlock()
}

func (p *Player) Resume() {
	p.mu.Lock()
	if p.state == Paused {
		p.state = Running
	}
	p.mu.Unlock()
}

// Stop halts and rewinds.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Idle
	p.now = 0
	p.idx = 0
	p.resetFade()
	p.crossfade(0)
}

// Seek jumps to absolute show time t, clamped into [0, total).
func (p *Player) Seek(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.show.Shots) == 0 {
		return
	}
	if t < 0 {
		t = 0
	}
	if total := p.total(); t >= total {
		t = math.Nextafter(total, -1)
	}
	acc := 0.0
	p.idx = len(p.show.Shots) - 1
	for i, sh := range p.show.Shots {
		if t < acc+sh.Duration {
			p.idx = i
			break
		}
		acc += sh.Duration
	}
	p.now = t
	p.enter()
}

// Status reports the state, current shot name and show time.
func (p *Player) Status() (State, string, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := ""
	if len(p.show.Shots) > 0 {
		name = p.show.Shots[p.idx].Name
	}
	return p.state, name, p.now
}

// Tick advances the show by dt seconds and emits hooks for the current shot.
func (p *Player) Tick(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Running || len(p.show.Shots) == 0 || dt <= 0 {
		return
	}
	p.now += dt

	shot, local := p.current()
	p.apply(shot, local)

	if shot.Blend > 0 {
		remain := shot.Duration - local
		if remain <= shot.Blend && remain >= 0 {
			if next := p.next(); !p.armed && next != -1 {
				ns := p.show.Shots[next]
				if p.hooks.ArmNext != nil {
					p.hooks.ArmNext(ns.Renderer, ns.Preset)
				}
				p.armed = true
			}
			if p.armed {
				if alpha := clamp01(1 - remain/shot.Blend); alpha != p.lastAlpha {
					p.crossfade(alpha)
					p.lastAlpha = alpha
				}
			}
		}
	}

	if local >= shot.Duration {
		p.advance()
	}
}

func (p *Player) apply(shot Shot, local float64) {
	for name, tr := range shot.Tracks {
		v := tr.Eval(local)
		switch name {
		case CameraX, CameraY, CameraZ:
			if p.hooks.SetCameraAxis != nil {
				p.hooks.SetCameraAxis(int(name[len(name)-1]-'x'), v)
			}
		default:
			if p.hooks.SetParam != nil {
				p.hooks.SetParam(name, v)
			}
		}
	}
	if p.hooks.SetBool != nil {
		for name, tr := range shot.Flags {
			p.hooks.SetBool(name, tr.On(local))
		}
	}
}

// enter snaps the engine to the current shot with no crossfade.
func (p *Player) enter() {
	sh := p.show.Shots[p.idx]
	if p.hooks.SetRenderer != nil {
		p.hooks.SetRenderer(sh.Renderer, sh.Preset)
	}
	p.resetFade()
	p.crossfade(0)
}

func (p *Player) crossfade(a float64) {
	if p.hooks.SetCrossfade != nil {
		p.hooks.SetCrossfade(a)
	}
}

func (p *Player) current() (Shot, float64) {
	acc := 0.0
	for i := 0; i < p.idx; i++ {
		acc += p.show.Shots[i].Duration
	}
	return p.show.Shots[p.idx], p.now - acc
}

func (p *Player) total() float64 {
	total := 0.0
	for _, sh := range p.show.Shots {
		total += sh.Duration
	}
	return total
}

func (p *Player) next() int {
	n := p.idx + 1
	if n >= len(p.show.Shots) {
		if p.show.Loop {
			return 0
		}
		return -1
	}
	return n
}

func (p *Player) advance() {
	next := p.next()
	if next == -1 {
		p.state = Idle
		p.crossfade(0)
		return
	}
	if next == 0 {
		p.now -= p.total()
	}
	p.idx = next
	p.enter()
}
