package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	l := Layout{Dim: Dim{W: 4, H: 3}}
	assert.Equal(t, 12, l.Count())
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 5, l.Index(1, 1))

	l.Serpentine = true
	assert.Equal(t, 3, l.Index(3, 0))
	assert.Equal(t, 4, l.Index(3, 1))
	assert.Equal(t, 7, l.Index(0, 1))
	assert.Equal(t, 8, l.Index(0, 2))

	seen := map[int]bool{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			seen[l.Index(x, y)] = true
		}
	}
	assert.Len(t, seen, 12)

	assert.NoError(t, l.Validate())
	assert.Error(t, Layout{}.Validate())
}
