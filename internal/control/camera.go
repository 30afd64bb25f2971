package control

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Command is a discrete one-unit camera translation.
type Command string

const (
	Forward Command = "forward" // +z
	Back    Command = "back"    // -z
	Left    Command = "left"    // -x
	Right   Command = "right"   // +x
	Up      Command = "up"      // +y
	Down    Command = "down"    // -y
)

var steps = map[Command]mgl64.Vec3{
	Forward: {0, 0, 1},
	Back:    {0, 0, -1},
	Left:    {-1, 0, 0},
	Right:   {1, 0, 0},
	Up:      {0, 1, 0},
	Down:    {0, -1, 0},
}

// keyBindings maps DOM KeyboardEvent.key names to commands.
var keyBindings = map[string]Command{
	"ArrowUp":    Forward,
	"ArrowDown":  Back,
	"ArrowLeft":  Left,
	"ArrowRight": Right,
	"Shift":      Up,
	"Control":    Down,
}

// CommandForKey returns the command bound to a key name.
func CommandForKey(key string) (Command, bool) {
	c, ok := keyBindings[key]
	return c, ok
}

// Camera holds the camera position shared between the input side and the frame loop.
// Renderers must call Snapshot once per frame and use that value for every pixel.
type Camera struct {
	mu  sync.RWMutex
	pos mgl64.Vec3
}

func NewCamera(pos mgl64.Vec3) *Camera { return &Camera{pos: pos} }

func (c *Camera) Snapshot() mgl64.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pos
}

func (c *Camera) Set(pos mgl64.Vec3) {
	c.mu.Lock()
	c.pos = pos
	c.mu.Unlock()
}

// Move translates the camera by delta and returns the new position.
func (c *Camera) Move(delta mgl64.Vec3) mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = c.pos.Add(delta)
	return c.pos
}

// Apply executes cmd; unknown commands are ignored and reported as false.
func (c *Camera) Apply(cmd Command) bool {
	d, ok := steps[cmd]
	if !ok {
		return false
	}
	c.Move(d)
	return true
}
