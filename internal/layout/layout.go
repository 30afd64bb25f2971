// Package layout maps 2D panel coordinates to positions along an LED strip.
package layout

import "fmt"

type Dim struct{ W, H int }

// Layout describes a panel wired row by row. With Serpentine set, every odd row runs
// right to left.
type Layout struct {
	Dim        Dim
	Serpentine bool
}

// Index maps x,y (row 0 at the top) to the linear LED index (0..N-1).
func (l Layout) Index(x, y int) int {
	xx := x
	if l.Serpentine && y%2 == 1 {
		xx = l.Dim.W - 1 - x
	}
	return y*l.Dim.W + xx
}

func (l Layout) Count() int {
	return l.Dim.W * l.Dim.H
}

func (l Layout) Validate() error {
	if l.Dim.W <= 0 || l.Dim.H <= 0 {
		return fmt.Errorf("layout %dx%d has no pixels", l.Dim.W, l.Dim.H)
	}
	return nil
}
