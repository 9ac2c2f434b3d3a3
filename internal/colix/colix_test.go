package colix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredefinedColorsAreStable(t *testing.T) {
	p := NewPalette()
	assert.Equal(t, uint32(0xFFFF0000), p.Argb(Red))
	assert.Equal(t, uint32(0xFF000000), p.Argb(Black))
	assert.Equal(t, uint32(0xFFFFD700), p.Argb(Gold))
	assert.Equal(t, Red, p.Allocate(0xFFFF0000))
}

func TestZeroColixIsUnset(t *testing.T) {
	p := NewPalette()
	var c Colix
	assert.False(t, c.IsSet())
	assert.Equal(t, None, p.Allocate(0))
	assert.Equal(t, uint32(0), p.Argb(c))
	assert.False(t, InheritAll.IsSet())
}

func TestAllocateRoundTrip(t *testing.T) {
	p := NewPalette()
	argbs := []uint32{0xFF102030, 0xFF123456, 0xFFABCDEF, 0xFF010101}
	var colixes []Colix
	for _, argb := range argbs {
		colixes = append(colixes, p.Allocate(argb))
	}
	for i, c := range colixes {
		require.True(t, c.IsSet())
		assert.Equal(t, argbs[i], p.Argb(c))
		assert.Equal(t, c, p.Allocate(p.Argb(c)), "colix->argb->colix")
	}
}

func TestPaletteGrowth(t *testing.T) {
	p := NewPalette()
	seen := map[Colix]bool{}
	for i := 0; i < 1000; i++ {
		c := p.Allocate(0xFF000000 | uint32(i*7919))
		seen[c] = true
	}
	// i == 0 is black, which is predefined
	assert.Len(t, seen, 1000)
	assert.GreaterOrEqual(t, p.Len(), 1000)
}

func TestPaletteSaturates(t *testing.T) {
	p := NewPalette()
	first := p.Allocate(0xFF000001)
	var last Colix
	for i := 1; i <= 70000; i++ {
		last = p.Allocate(0xFF000000 | uint32(i))
		require.True(t, last.IsSet(), "i=%d", i)
	}
	assert.Equal(t, MaxColors, p.Len())
	assert.Equal(t, uint32(0xFF000001), p.Argb(first))

	// a full palette hands out the closest color it has
	// 70000 is 0x011170; 0x001170 went in long before the palette filled
	assert.Equal(t, uint32(0xFF001170), p.Argb(last))
	assert.Equal(t, White, p.Allocate(0xFFFFFFFE))
	assert.Equal(t, Red, p.Allocate(0xFFFF0000))
}

func TestAlphaBecomesTranslucency(t *testing.T) {
	p := NewPalette()
	c := p.Allocate(0x80FF0000)
	assert.Equal(t, Red.Index(), c.Index())
	assert.Equal(t, Translucency(4), c.Translucency())
	assert.True(t, c.IsTranslucent())
	assert.Equal(t, Red, c.Opaque())
}

func TestTranslucencyLevelsRoundTrip(t *testing.T) {
	for k := 0; k < 8; k++ {
		f := float64(k) / 8
		tr := TranslucencyFromFraction(f)
		assert.Equal(t, k, tr.Level())
		assert.Equal(t, f, tr.Fraction())
	}
	assert.Equal(t, Opaque, TranslucencyFromFraction(0))
	assert.Equal(t, Transparent, TranslucencyFromFraction(1))
	assert.Equal(t, Translucency(7), TranslucencyFromFraction(0.99))
	assert.Equal(t, Translucency(3), TranslucencyFromFraction(0.4))
	assert.Equal(t, Opaque, TranslucencyFromFraction(0.05))
	assert.False(t, Screened.IsBlended())
	assert.False(t, Transparent.IsBlended())
	assert.True(t, Translucency(5).IsBlended())
}

func TestChangeableColix(t *testing.T) {
	p := NewPalette()
	c := p.AllocateChangeable(0xFF00FF00)
	require.True(t, c.IsChangeable())
	assert.Equal(t, uint32(0xFF00FF00), p.Argb(c))

	v := p.Version
	p.SetChangeable(c, 0xFF0000FF)
	assert.Equal(t, uint32(0xFF0000FF), p.Argb(c))
	assert.Greater(t, p.Version, v)

	p.SetChangeable(Red, 0xFF0000FF)
	assert.Equal(t, uint32(0xFFFF0000), p.Argb(Red), "direct colix is not remapped")
}

func TestInherit(t *testing.T) {
	parent := Blue.WithTranslucency(3)
	assert.Equal(t, parent, InheritAll.Inherit(parent))
	assert.Equal(t, Blue.WithTranslucency(Screened), InheritColor.WithTranslucency(Screened).Inherit(parent))
	assert.Equal(t, Red, Red.Inherit(parent))
}
