package sdf

import (
	"errors"
	"fmt"
)

// MaxObjects is the largest scene capacity the packed layout supports.
const MaxObjects = 32

var (
	ErrSceneFull = errors.New("scene is full")
	ErrCapacity  = errors.New("invalid scene capacity")
	ErrIndex     = errors.New("object index out of range")
)

// Scene is a fixed-capacity, insertion-ordered set of objects. Only the first Len()
// entries are active; an object's index is its identity.
type Scene struct {
	objects  [MaxObjects]WorldObject
	capacity int
	count    int
}

// NewScene returns an empty scene holding at most capacity objects (1..MaxObjects).
func NewScene(capacity int) (*Scene, error) {
	if capacity < 1 || capacity > MaxObjects {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrCapacity, capacity, MaxObjects)
	}
	return &Scene{capacity: capacity}, nil
}

// MustScene builds a scene from objects and panics on overflow. Intended for fixtures.
func MustScene(capacity int, objs ...WorldObject) *Scene {
	s, err := NewScene(capacity)
	if err != nil {
		panic(err)
	}
	for _, o := range objs {
		if _, err := s.Add(o); err != nil {
			panic(err)
		}
	}
	return s
}

// Add appends o and returns its index.
func (s *Scene) Add(o WorldObject) (int, error) {
	if s.count >= s.capacity {
		return -1, fmt.Errorf("%w: capacity %d", ErrSceneFull, s.capacity)
	}
	s.objects[s.count] = o
	s.count++
	return s.count - 1, nil
}

// Set replaces the active object at index i.
func (s *Scene) Set(i int, o WorldObject) error {
	if i < 0 || i >= s.count {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	s.objects[i] = o
	return nil
}

// Object returns the object at index i; i must be < Len().
func (s *Scene) Object(i int) WorldObject { return s.objects[i] }

func (s *Scene) Len() int { return s.count }
func (s *Scene) Cap() int { return s.capacity }

// Objects returns a copy of the active objects.
func (s *Scene) Objects() []WorldObject {
	out := make([]WorldObject, s.count)
	copy(out, s.objects[:s.count])
	return out
}

// Clone returns an independent copy.
func (s *Scene) Clone() *Scene {
	c := *s
	return &c
}
