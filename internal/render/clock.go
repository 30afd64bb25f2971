package render

import "math"

const (
	PhaseStart = 1.0
	PhaseStep  = 0.01
	phaseHalf  = 20.0
)

// PhaseClock drives the wiggle animation. The phase advances once per frame and wraps
// into [-20, 20).
type PhaseClock struct {
	phase float64
}

func NewPhaseClock() *PhaseClock { return &PhaseClock{phase: PhaseStart} }

func (c *PhaseClock) Phase() float64 { return c.phase }

func (c *PhaseClock) Set(phase float64) { c.phase = wrapPhase(phase) }

// Advance returns the phase for the current frame, then steps by PhaseStep*scale.
func (c *PhaseClock) Advance(scale float64) float64 {
	cur := c.phase
	c.phase = wrapPhase(c.phase + PhaseStep*scale)
	return cur
}

func wrapPhase(p float64) float64 {
	w := math.Mod(phaseHalf+p, 2*phaseHalf)
	if w < 0 {
		w += 2 * phaseHalf
	}
	return w - phaseHalf
}
