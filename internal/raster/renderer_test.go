package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/shade"
)

func newTestRenderer(t *testing.T, w, h int) *Renderer {
	t.Helper()
	r := NewRenderer(nil)
	r.BeginFrame(w, h, false)
	r.SetSlabAndDepth(0, 1000, false)
	return r
}

func written(fb *FrameBuffer, x, y int) bool {
	_, z := fb.At(x, y)
	return z != EmptyDepth
}

func TestEmptyFrameSkipsEverything(t *testing.T) {
	r := NewRenderer(nil)
	r.BeginFrame(0, 10, false)
	assert.False(t, r.SetColix(colix.Red))
	r.FillSphere(11, 5, 5, 50)
	r.DrawLine(colix.Red, colix.Red, 0, 0, 0, 9, 9, 0)
	called := false
	r.EndFrame(PresenterFunc(func([]uint32, int, int) { called = true }))
	assert.False(t, called)
}

func TestSetColixPassGating(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	half := colix.Red.WithTranslucency(colix.TranslucencyFromFraction(0.5))

	assert.False(t, r.SetColix(colix.None))
	assert.False(t, r.SetColix(colix.Red.WithTranslucency(colix.Transparent)))
	assert.False(t, r.SetColix(half), "translucent draws only in pass 2")
	assert.True(t, r.HasTranslucent())
	assert.True(t, r.SetColix(colix.Red))
	assert.True(t, r.SetColix(colix.Red.WithTranslucency(colix.Screened)))

	require.True(t, r.BeginTranslucentPass())
	assert.False(t, r.SetColix(colix.Red), "opaque draws only in pass 1")
	assert.True(t, r.SetColix(half))
	assert.False(t, r.BeginTranslucentPass())
}

func TestNoTranslucentPassWithoutTranslucency(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	r.SetColix(colix.Blue)
	r.FillSphere(5, 4, 4, 100)
	assert.False(t, r.BeginTranslucentPass())
}

func TestMergePixel(t *testing.T) {
	assert.Equal(t, uint32(0xFF112233), mergePixel(0xFFABCDEF, 0xFF112233, 0))
	for level := 1; level < 8; level++ {
		assert.Equal(t, uint32(0xFF406080), mergePixel(0xFF406080, 0xFF406080, level),
			"merging a color with itself is a no-op at level %d", level)
	}
	assert.Equal(t, uint32(0xFF800080), mergePixel(0xFF0000FF, 0xFFFF0000, 4))
}

func TestTranslucentOverOpaque(t *testing.T) {
	r := newTestRenderer(t, 64, 64)
	r.SetBackground(0xFF000000)
	half := colix.Red.WithTranslucency(colix.TranslucencyFromFraction(0.5))

	require.True(t, r.SetColix(colix.Blue))
	r.FillSphere(31, 20, 32, 500)
	assert.False(t, r.SetColix(half))
	under, _ := r.Buffer().At(20, 32)

	require.True(t, r.BeginTranslucentPass())
	require.True(t, r.SetColix(half))
	red := r.Context().Shades.Shades(colix.Red)[shade.Normal]
	r.FillCircle(half, 5, 20, 32, 100)
	r.FillCircle(half, 5, 55, 32, 100)
	r.EndFrame(nil)

	fb := r.Buffer()
	got, _ := fb.At(20, 32)
	assert.Equal(t, mergePixel(under, red, 4), got)
	got, z := fb.At(55, 32)
	assert.Equal(t, mergePixel(0xFF000000, red, 4), got, "blends with the background")
	assert.Equal(t, int32(EmptyDepth), z, "depth stays empty over the background")
}

func TestTranslucentZMargin(t *testing.T) {
	r := newTestRenderer(t, 16, 16)
	half := colix.Red.WithTranslucency(colix.TranslucencyFromFraction(0.5))
	halfBlue := colix.Blue.WithTranslucency(colix.TranslucencyFromFraction(0.5))
	r.SetColix(half)
	require.True(t, r.BeginTranslucentPass())
	r.SetZMargin(5)

	r.SetColix(half)
	r.DrawPixel(3, 3, 100)
	r.SetColix(halfBlue)
	blue := r.state.argb
	r.DrawPixel(3, 3, 98)
	c, z := r.translucent.At(3, 3)
	assert.Equal(t, int32(98), z, "within the margin the nearer pixel replaces the front")
	assert.Equal(t, blue&0xFFFFFF|4<<24, c)
	c, _ = r.opaque.At(3, 3)
	assert.Zero(t, c, "the replaced front is not merged")

	r.DrawPixel(3, 3, 101)
	_, z = r.translucent.At(3, 3)
	assert.Equal(t, int32(98), z, "a farther pixel within the margin is dropped")
	c, _ = r.opaque.At(3, 3)
	assert.Zero(t, c)

	r.SetColix(half)
	r.DrawPixel(3, 3, 90)
	_, z = r.translucent.At(3, 3)
	assert.Equal(t, int32(90), z)
	c, _ = r.opaque.At(3, 3)
	assert.NotZero(t, c, "the pushed-back pixel was merged")
}

func TestTwoTranslucentLayersOverBackground(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	r.SetBackground(0xFF000000)
	red := colix.Red.WithTranslucency(colix.TranslucencyFromFraction(0.5))
	blue := colix.Blue.WithTranslucency(colix.TranslucencyFromFraction(0.5))
	r.SetColix(red)
	require.True(t, r.BeginTranslucentPass())

	require.True(t, r.SetColix(red))
	redArgb := r.state.argb
	r.DrawPixel(2, 2, 100)
	require.True(t, r.SetColix(blue))
	blueArgb := r.state.argb
	r.DrawPixel(2, 2, 50)
	r.EndFrame(nil)

	got, z := r.Buffer().At(2, 2)
	want := mergePixel(mergePixel(0xFF000000, redArgb, 4), blueArgb, 4)
	assert.Equal(t, want, got, "both layers survive over an empty pixel")
	assert.Equal(t, int32(EmptyDepth), z)
}

func TestAntialiasFrame(t *testing.T) {
	r := NewRenderer(nil)
	r.BeginFrame(10, 8, true)
	assert.Equal(t, 2, r.Scale())
	assert.Equal(t, 20, r.Width())
	assert.Equal(t, 16, r.Height())
	require.True(t, r.SetColix(colix.Green))
	r.FillSphere(9*r.Scale(), 5*r.Scale(), 4*r.Scale(), 100)

	var gotW, gotH, n int
	r.EndFrame(PresenterFunc(func(p []uint32, w, h int) { gotW, gotH, n = w, h, len(p) }))
	assert.Equal(t, 10, gotW)
	assert.Equal(t, 8, gotH)
	assert.Equal(t, 80, n)
	assert.Equal(t, 1, r.Scale())
	assert.True(t, written(r.Buffer(), 5, 4))
}

func TestAntialiasDownsamplesBeforeTranslucentPass(t *testing.T) {
	r := NewRenderer(nil)
	r.BeginFrame(10, 10, true)
	r.SetColix(colix.Red.WithTranslucency(3))
	require.True(t, r.BeginTranslucentPass())
	assert.Equal(t, 1, r.Scale())
	assert.Equal(t, 10, r.Width())

	r.BeginFrame(10, 10, true)
	r.SetAntialiasTranslucent(true)
	r.SetColix(colix.Red.WithTranslucency(3))
	require.True(t, r.BeginTranslucentPass())
	assert.Equal(t, 2, r.Scale())
	r.EndFrame(nil)
	assert.Equal(t, 10, r.Buffer().Width)
}

func TestDownsample(t *testing.T) {
	var fb FrameBuffer
	fb.resize(4, 2)
	fb.Clear()
	fb.Color[0], fb.Color[1], fb.Color[4], fb.Color[5] = 0xFF000000, 0xFF000000, 0xFFFFFFFF, 0xFFFFFFFF
	fb.Depth[0], fb.Depth[1], fb.Depth[4] = 10, 7, 12
	fb.downsample()
	require.Equal(t, 2, fb.Width)
	require.Equal(t, 1, fb.Height)
	assert.Equal(t, uint32(0xFF808080), fb.Color[0])
	assert.Equal(t, int32(7), fb.Depth[0])
	assert.Equal(t, int32(EmptyDepth), fb.Depth[1])
}

func TestClipLine(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	x1, y1, z1, x2, y2, z2, ok := r.clipLine(-50, 10, 100, 150, 10, 100)
	require.True(t, ok)
	assert.Equal(t, [6]int{0, 10, 100, 99, 10, 100}, [6]int{x1, y1, z1, x2, y2, z2})

	_, _, _, _, _, _, ok = r.clipLine(-50, -10, 100, -5, -20, 100)
	assert.False(t, ok)
}

func TestRoundDiv(t *testing.T) {
	assert.Equal(t, 3, roundDiv(5, 2))
	assert.Equal(t, -3, roundDiv(-5, 2))
	assert.Equal(t, 1, roundDiv(4, 3))
	assert.Equal(t, -1, roundDiv(4, -3))
	assert.Equal(t, 0, roundDiv(7, 0))
}

func TestDepthCue(t *testing.T) {
	r := newTestRenderer(t, 8, 8)
	r.SetBackground(0xFF000000)
	r.SetSlabAndDepth(0, 200, true)
	assert.Equal(t, uint32(0xFFFFFFFF), r.depthCue(0xFFFFFFFF, 50))
	assert.Equal(t, uint32(0xFF7F7F7F), r.depthCue(0xFFFFFFFF, 150))
	assert.Equal(t, uint32(0xFF000000), r.depthCue(0xFFFFFFFF, 200))
}
