package shade

import (
	"testing"

	"g3d-renderer/internal/colix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableShape(t *testing.T) {
	shades := Table(0xFFFF0000, DefaultLighting())
	require.Len(t, shades, Max)
	assert.Equal(t, uint32(0xFFFF0000), shades[Normal])

	red := func(argb uint32) uint32 { return (argb >> 16) & 0xFF }
	grn := func(argb uint32) uint32 { return (argb >> 8) & 0xFF }
	for i := 1; i <= Normal; i++ {
		assert.GreaterOrEqual(t, red(shades[i]), red(shades[i-1]), "ramp up to the base color at %d", i)
	}
	for i := Normal + 1; i < Max; i++ {
		assert.GreaterOrEqual(t, grn(shades[i]), grn(shades[i-1]), "ramp toward white at %d", i)
	}
	assert.Less(t, red(shades[0]), uint32(0xFF))
	assert.Greater(t, grn(shades[Last]), uint32(0x60))
}

func TestTableOfZeroIsEmpty(t *testing.T) {
	for _, s := range Table(0, DefaultLighting()) {
		assert.Zero(t, s)
	}
}

func TestIntensityFollowsLight(t *testing.T) {
	l := DefaultLighting()
	towardLight := l.Intensity(-1, -1, 2.5)
	facing := l.Intensity(0, 0, 1)
	away := l.Intensity(1, 1, -1)
	assert.Greater(t, towardLight, facing)
	assert.Zero(t, away)
	assert.LessOrEqual(t, towardLight, Last)
	assert.Zero(t, l.Intensity(0, 0, 0))
}

func TestDitheredIntensityStaysNear(t *testing.T) {
	l := DefaultLighting()
	n := NewNoise(1)
	exact := l.Intensity(0.3, -0.2, 0.9)
	for i := 0; i < 200; i++ {
		d := l.DitheredIntensity(n, 0.3, -0.2, 0.9, 0.9695359714832659)
		assert.InDelta(t, exact, d, 2)
	}
}

func TestNoiseIsDeterministic(t *testing.T) {
	a, b := NewNoise(42), NewNoise(42)
	for i := 0; i < 100; i++ {
		x := a.Next8()
		assert.Equal(t, x, b.Next8())
		assert.Less(t, x, 256)
	}
	j := a.Jitter(SlabClipped)
	assert.InDelta(t, SlabClipped, j, 3)
}

func TestCacheLazyAndInvalidation(t *testing.T) {
	p := colix.NewPalette()
	c := NewCache(p)
	s1 := c.Shades(colix.Red)
	s2 := c.Shades(colix.Red.WithTranslucency(3))
	assert.Same(t, &s1[0], &s2[0], "translucency does not change the table")

	gen := c.Generation
	l := DefaultLighting()
	l.AmbientPercent = 10
	c.SetLighting(l)
	assert.Greater(t, c.Generation, gen)
	s3 := c.Shades(colix.Red)
	assert.NotSame(t, &s1[0], &s3[0])
	assert.Less(t, s3[0]&0xFF0000, s1[0]&0xFF0000)
}

func TestCacheGreyscale(t *testing.T) {
	p := colix.NewPalette()
	c := NewCache(p)
	color := c.Shades(colix.Red)[Normal]
	c.SetGreyscale(true)
	grey := c.Shades(colix.Red)[Normal]
	assert.Equal(t, uint32(0xFFFF0000), color)
	assert.Equal(t, Greyscale(0xFFFF0000), grey)
	assert.Equal(t, (grey>>16)&0xFF, grey&0xFF)
	c.SetGreyscale(false)
	assert.Equal(t, color, c.Shades(colix.Red)[Normal], "color original untouched")
}

func TestCacheUnsetColix(t *testing.T) {
	c := NewCache(colix.NewPalette())
	for _, s := range c.Shades(colix.None) {
		assert.Zero(t, s)
	}
}
