package termformat

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cross-fade defaults used when tinting changed lines.
const (
	// DefaultRowTintCrossFade blends a highlight color into a token's background.
	DefaultRowTintCrossFade = 0.85

	// DefaultMarkerCrossFade blends a highlight color with the pane background for the exact edited span.
	DefaultMarkerCrossFade = 0.6

	// DefaultMarkerForegroundCrossFade blends the marker background toward white to get the marker's foreground.
	DefaultMarkerForegroundCrossFade = 0.8

	// DefaultBlendCacheSize is the number of (a, b, crossFade) results a Blender remembers.
	DefaultBlendCacheSize = 128
)

// Blend linearly interpolates each channel from a to b: a*(1-crossFade) + b*crossFade. crossFade is clamped to [0, 1], so Blend(a, b, 0)
// is a and Blend(a, b, 1) is b.
func Blend(a, b RGB, crossFade float64) RGB {
	switch {
	case crossFade <= 0:
		return a
	case crossFade >= 1:
		return b
	}
	return fromColorful(a.colorful().BlendRgb(b.colorful(), crossFade))
}

type blendKey struct {
	a, b      RGB
	crossFade float64
}

// Blender memoizes Blend. The same few color pairs recur for every highlighted cell in a render, so a small bounded cache removes nearly
// all of the float math. A nil *Blender, or one with no cache, computes every blend directly.
type Blender struct {
	cache  *lru.Cache[blendKey, RGB]
	hits   int
	misses int
}

// NewBlender returns a Blender that remembers at most capacity results, evicting the least recently used. If capacity <= 0, nothing is
// cached.
func NewBlender(capacity int) *Blender {
	b := &Blender{}
	if capacity > 0 {
		cache, err := lru.New[blendKey, RGB](capacity)
		if err != nil {
			panic(err) // only returned for non-positive sizes
		}
		b.cache = cache
	}
	return b
}

// Blend is the memoized form of the package-level Blend.
func (bl *Blender) Blend(a, b RGB, crossFade float64) RGB {
	if bl == nil || bl.cache == nil {
		return Blend(a, b, crossFade)
	}
	key := blendKey{a: a, b: b, crossFade: crossFade}
	if c, ok := bl.cache.Get(key); ok {
		bl.hits++
		return c
	}
	bl.misses++
	c := Blend(a, b, crossFade)
	bl.cache.Add(key, c)
	return c
}

// Len returns the number of cached results.
func (bl *Blender) Len() int {
	if bl == nil || bl.cache == nil {
		return 0
	}
	return bl.cache.Len()
}

// Stats returns cache hits and misses since creation.
func (bl *Blender) Stats() (hits, misses int) {
	if bl == nil {
		return 0, 0
	}
	return bl.hits, bl.misses
}
