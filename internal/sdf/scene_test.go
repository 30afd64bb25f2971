package sdf

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneCapacity(t *testing.T) {
	_, err := NewScene(0)
	assert.ErrorIs(t, err, ErrCapacity)
	_, err = NewScene(MaxObjects + 1)
	assert.ErrorIs(t, err, ErrCapacity)

	s, err := NewScene(16)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		idx, err := s.Add(sphereAt(mgl64.Vec3{float64(i), 0, 0}, 0.5))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	_, err = s.Add(sphereAt(mgl64.Vec3{}, 1))
	assert.ErrorIs(t, err, ErrSceneFull)
	assert.Equal(t, 16, s.Len())
	assert.Equal(t, 16, s.Cap())

	assert.ErrorIs(t, s.Set(16, sphereAt(mgl64.Vec3{}, 1)), ErrIndex)
	require.NoError(t, s.Set(3, sphereAt(mgl64.Vec3{}, 9)))
	assert.Equal(t, 9.0, s.Object(3).Size.X())
}

func TestSceneCloneIsIndependent(t *testing.T) {
	s := MustScene(4, sphereAt(mgl64.Vec3{}, 1))
	c := s.Clone()
	require.NoError(t, c.Set(0, sphereAt(mgl64.Vec3{}, 3)))
	assert.Equal(t, 1.0, s.Object(0).Size.X())

	objs := s.Objects()
	objs[0].Size = mgl64.Vec3{}
	assert.Equal(t, 1.0, s.Object(0).Size.X())
}

func TestNearestTieBreakKeepsLowerIndex(t *testing.T) {
	// two spheres equidistant from the origin, on either side
	s := MustScene(16,
		sphereAt(mgl64.Vec3{3, 0, 0}, 1),
		sphereAt(mgl64.Vec3{-3, 0, 0}, 1),
		sphereAt(mgl64.Vec3{0, 3, 0}, 1),
	)
	h := Nearest(mgl64.Vec3{}, s, 0, NoExclude)
	assert.Equal(t, 0, h.Index)
	assert.Equal(t, 2.0, h.Distance)

	h = Nearest(mgl64.Vec3{}, s, 0, 0)
	assert.Equal(t, 1, h.Index)
}

func TestNearestExcludeNeverReturnsExcluded(t *testing.T) {
	s := MustScene(16,
		sphereAt(mgl64.Vec3{0, 0, 1}, 0.5),
		sphereAt(mgl64.Vec3{0, 0, 10}, 0.5),
		WorldObject{Kind: Plane, Center: mgl64.Vec3{0, -5, 0}, Size: mgl64.Vec3{0, 1, 0}},
	)
	for k := 0; k < s.Len(); k++ {
		for _, p := range []mgl64.Vec3{{}, {0, 0, 1}, {0, -5, 0}, {0, 0, 10}} {
			h := Nearest(p, s, 0, k)
			assert.NotEqual(t, k, h.Index, "exclude %d at %v", k, p)
		}
	}
}

func TestNearestOnlyScansActiveObjects(t *testing.T) {
	s := MustScene(16, sphereAt(mgl64.Vec3{0, 0, 30}, 1))
	// an inert slot past Len() must never be selected even if it would be closer
	s.objects[1] = sphereAt(mgl64.Vec3{}, 1)
	h := Nearest(mgl64.Vec3{}, s, 0, NoExclude)
	assert.Equal(t, 0, h.Index)

	empty := MustScene(16)
	h = Nearest(mgl64.Vec3{}, empty, 0, NoExclude)
	assert.Equal(t, Hit{Distance: EmptyDistance, Index: NoObject}, h)
}

func TestPackLayout(t *testing.T) {
	o := WorldObject{
		Kind:             Box,
		Center:           mgl64.Vec3{1, 2, 3},
		Size:             mgl64.Vec3{4, 5, 6},
		Color:            mgl64.Vec3{0.25, 0.5, 0.75},
		Shadow:           true,
		Reflectivity:     0.2,
		Transparency:     0.3,
		DiffuseIntensity: 0.6,
	}
	s := MustScene(32, sphereAt(mgl64.Vec3{}, 1), o)
	f := Pack(s)
	require.Len(t, f, 32*FloatsPerObject)

	got := f[FloatsPerObject : 2*FloatsPerObject]
	want := []float32{1, 2, 3, 0, 4, 5, 6, 0, 0.25, 0.5, 0.75, 4, 0, 1, 0.2, 0.3, 0.6, 0, 0, 0}
	assert.Equal(t, want, got)
	for _, v := range f[2*FloatsPerObject:] {
		require.Zero(t, v)
	}

	b := PackBytes(s)
	require.Len(t, b, 32*80)
	typ := math.Float32frombits(binary.LittleEndian.Uint32(b[80+11*4:]))
	assert.Equal(t, float32(4), typ)

	back, err := Unpack(f, 2, 32)
	require.NoError(t, err)
	assert.Equal(t, Box, back.Object(1).Kind)
	assert.True(t, back.Object(1).Shadow)
	assert.False(t, back.Object(1).Negated)
	assert.InDelta(t, 0.6, back.Object(1).DiffuseIntensity, 1e-6)

	_, err = Unpack(f[:10], 2, 32)
	assert.Error(t, err)
}
