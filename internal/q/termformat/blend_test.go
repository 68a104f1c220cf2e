package termformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlend_Endpoints(t *testing.T) {
	colors := []RGB{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{39, 40, 34},
		{13, 15, 11},
		{1, 254, 127},
	}
	for _, a := range colors {
		for _, b := range colors {
			assert.Equal(t, a, Blend(a, b, 0), "Blend(%v, %v, 0)", a, b)
			assert.Equal(t, b, Blend(a, b, 1), "Blend(%v, %v, 1)", a, b)
		}
	}
}

func TestBlend_Clamps(t *testing.T) {
	a := RGB{10, 20, 30}
	b := RGB{200, 100, 0}
	assert.Equal(t, a, Blend(a, b, -0.5))
	assert.Equal(t, b, Blend(a, b, 1.5))
}

func TestBlend_Midpoint(t *testing.T) {
	got := Blend(RGB{0, 0, 0}, RGB{200, 100, 50}, 0.5)
	assert.Equal(t, RGB{100, 50, 25}, got)
}

func TestBlend_RowTint(t *testing.T) {
	// Tinting red into a dark background stays close to the background.
	got := Blend(RGB{255, 0, 0}, RGB{39, 40, 34}, DefaultRowTintCrossFade)
	assert.InDelta(t, 71, int(got.R), 1)
	assert.InDelta(t, 34, int(got.G), 1)
	assert.InDelta(t, 29, int(got.B), 1)
}

func TestBlender_MemoizesAndMatchesBlend(t *testing.T) {
	bl := NewBlender(4)
	a := RGB{0, 255, 0}
	b := RGB{39, 40, 34}

	first := bl.Blend(a, b, 0.6)
	second := bl.Blend(a, b, 0.6)
	assert.Equal(t, Blend(a, b, 0.6), first)
	assert.Equal(t, first, second)

	hits, misses := bl.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, bl.Len())
}

func TestBlender_BoundedCapacity(t *testing.T) {
	bl := NewBlender(2)
	for i := 0; i < 10; i++ {
		bl.Blend(RGB{uint8(i), 0, 0}, White, 0.4)
	}
	require.Equal(t, 2, bl.Len())

	// Most recent entries survive.
	bl.Blend(RGB{9, 0, 0}, White, 0.4)
	hits, _ := bl.Stats()
	assert.Equal(t, 1, hits)
}

func TestBlender_NoCache(t *testing.T) {
	bl := NewBlender(0)
	assert.Equal(t, Blend(White, RGB{}, 0.3), bl.Blend(White, RGB{}, 0.3))
	assert.Equal(t, 0, bl.Len())

	var nilBlender *Blender
	assert.Equal(t, Blend(White, RGB{}, 0.3), nilBlender.Blend(White, RGB{}, 0.3))
}
