package raster

import (
	"image"
	"image/color"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/mathutil"
	"g3d-renderer/internal/shade"
)

func shadesOf(r *Renderer, c colix.Colix) []uint32 {
	return r.Context().Shades.Shades(c)
}

func TestRedLine(t *testing.T) {
	r := newTestRenderer(t, 100, 10)
	r.DrawLine(colix.Red, colix.Red, 0, 0, 100, 99, 0, 100)
	r.EndFrame(nil)
	red := shadesOf(r, colix.Red)[shade.Normal]
	fb := r.Buffer()
	for x := 0; x < 100; x++ {
		c, z := fb.At(x, 0)
		assert.Equal(t, red, c, "x=%d", x)
		assert.Equal(t, int32(100), z, "x=%d", x)
		assert.False(t, written(fb, x, 1))
	}
}

func TestLineSwitchesColorAtMidpointWhenClipped(t *testing.T) {
	r := newTestRenderer(t, 100, 10)
	r.DrawLine(colix.Red, colix.Blue, -50, 5, 100, 150, 5, 100)
	red := shadesOf(r, colix.Red)[shade.Normal]
	blue := shadesOf(r, colix.Blue)[shade.Normal]
	fb := r.Buffer()
	for x := 0; x < 100; x++ {
		c, _ := fb.At(x, 5)
		if x < 50 {
			assert.Equal(t, red, c, "x=%d", x)
		} else {
			assert.Equal(t, blue, c, "x=%d", x)
		}
	}
}

func TestDegenerateLineIsOnePixel(t *testing.T) {
	r := newTestRenderer(t, 10, 10)
	r.DrawLine(colix.Red, colix.Blue, 4, 4, 30, 4, 4, 20)
	fb := r.Buffer()
	c, z := fb.At(4, 4)
	assert.Equal(t, shadesOf(r, colix.Red)[shade.Normal], c)
	assert.Equal(t, int32(20), z)
	count := 0
	for _, d := range fb.Depth {
		if d != EmptyDepth {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDashedLine(t *testing.T) {
	r := newTestRenderer(t, 12, 2)
	r.DrawDashedLine(2, 2, colix.Red, colix.Red, 0, 0, 10, 11, 0, 10)
	fb := r.Buffer()
	for x := 0; x < 12; x++ {
		assert.Equal(t, x%4 < 2, written(fb, x, 0), "x=%d", x)
	}
}

func TestScreenedCircleIsCheckerboard(t *testing.T) {
	r := newTestRenderer(t, 40, 40)
	r.FillCircle(colix.Red.WithTranslucency(colix.Screened), 9, 20, 20, 100)
	fb := r.Buffer()
	assert.True(t, written(fb, 20, 20))
	assert.False(t, written(fb, 21, 20))
	assert.True(t, written(fb, 21, 21))
}

func TestCircleOutline(t *testing.T) {
	r := newTestRenderer(t, 40, 40)
	r.DrawCircle(colix.Red, 11, 20, 20, 100)
	fb := r.Buffer()
	assert.True(t, written(fb, 25, 20))
	assert.True(t, written(fb, 15, 20))
	assert.True(t, written(fb, 20, 25))
	assert.False(t, written(fb, 20, 20))
}

func coverage(fb *FrameBuffer) map[[2]int]int32 {
	m := map[[2]int]int32{}
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if _, z := fb.At(x, y); z != EmptyDepth {
				m[[2]int{x, y}] = z
			}
		}
	}
	return m
}

func TestSphereSymmetry(t *testing.T) {
	cases := []struct {
		name     string
		diameter int
		size     int
	}{
		{"odd cached", 15, 80},
		{"even cached", 16, 80},
		{"large", 201, 300},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRenderer(t, tc.size, tc.size)
			c := tc.size / 2
			require.True(t, r.SetColix(colix.Green))
			r.FillSphere(tc.diameter, c, c, 500)
			cov := coverage(r.Buffer())
			require.NotEmpty(t, cov)
			// odd diameters mirror about c, even ones about c-0.5
			m := 2 * c
			if tc.diameter&1 == 0 {
				m = 2*c - 1
			}
			for p, z := range cov {
				assert.Equal(t, z, cov[[2]int{m - p[0], p[1]}], "x mirror of %v", p)
				assert.Equal(t, z, cov[[2]int{p[0], m - p[1]}], "y mirror of %v", p)
			}
			z, ok := cov[[2]int{c, c}]
			require.True(t, ok)
			assert.Less(t, z, int32(500))
		})
	}
}

func TestOverlappingSpheres(t *testing.T) {
	r := NewRenderer(nil)
	solo := func(c colix.Colix, x, z int) *FrameBuffer {
		r.BeginFrame(100, 100, false)
		r.SetSlabAndDepth(0, 1000, false)
		r.SetColix(c)
		r.FillSphere(21, x, 50, z)
		r.EndFrame(nil)
		fb := *r.Buffer()
		fb.Color = slices.Clone(fb.Color)
		fb.Depth = slices.Clone(fb.Depth)
		return &fb
	}
	a := solo(colix.Red, 45, 100)
	b := solo(colix.Red, 55, 95)

	r.BeginFrame(100, 100, false)
	r.SetSlabAndDepth(0, 1000, false)
	r.SetColix(colix.Red)
	r.FillSphere(21, 45, 50, 100)
	r.FillSphere(21, 55, 50, 95)
	both := r.Buffer()

	for i := range both.Depth {
		want, wantColor := a.Depth[i], a.Color[i]
		if b.Depth[i] < want {
			want, wantColor = b.Depth[i], b.Color[i]
		}
		require.Equal(t, want, both.Depth[i], "pixel %d", i)
		if want != EmptyDepth {
			require.Equal(t, wantColor, both.Color[i], "pixel %d", i)
		}
	}
}

func TestSphereSlabCore(t *testing.T) {
	r := newTestRenderer(t, 80, 80)
	r.SetSlabAndDepth(95, 1000, false)
	r.SetColix(colix.Red)
	r.FillSphere(41, 40, 40, 100)
	fb := r.Buffer()
	_, z := fb.At(40, 40)
	assert.Equal(t, int32(95), z, "the cut face lies on the near plane")
	_, z = fb.At(40+20, 40)
	assert.Equal(t, int32(100), z, "the rim is untouched")
}

func TestClipInvariant(t *testing.T) {
	const slab, depth = 40, 160
	r := NewRenderer(nil)
	r.BeginFrame(64, 48, false)
	r.SetSlabAndDepth(slab, depth, false)
	rng := rand.New(rand.NewPCG(1, 2))
	coord := func() int { return rng.IntN(140) - 40 }
	zc := func() int { return rng.IntN(220) - 10 }
	t3 := func() Point3i { return Point3i{coord(), coord(), zc()} }
	for i := 0; i < 300; i++ {
		d := 1 + rng.IntN(60)
		r.SetColix(colix.Orange)
		switch i % 7 {
		case 0:
			r.FillSphere(d, coord(), coord(), zc())
		case 1:
			r.DrawLine(colix.Red, colix.Blue, coord(), coord(), zc(), coord(), coord(), zc())
		case 2:
			r.FillCylinder(colix.Red, colix.Blue, Endcap(rng.IntN(5)), d, coord(), coord(), zc(), coord(), coord(), zc())
		case 3:
			r.FillTriangleScreen(t3(), t3(), t3())
		case 4:
			r.FillCone(colix.Cyan, EndcapFlat, d, coord(), coord(), zc(), coord(), coord(), zc(), true)
		case 5:
			axes := [3]mathutil.Vec3{{float64(d), 0, 0}, {0, float64(d) / 2, 0}, {0, 0, float64(d) / 3}}
			r.RenderEllipsoid(coord(), coord(), zc(), axes, rng.IntN(9))
		case 6:
			r.FillCircle(colix.Gold, d, coord(), coord(), zc())
		}
	}
	for i, z := range r.Buffer().Depth {
		if z == EmptyDepth {
			continue
		}
		require.GreaterOrEqual(t, z, int32(slab), "pixel %d", i)
		require.LessOrEqual(t, z, int32(depth), "pixel %d", i)
	}
}

func TestThinCylinderIsLine(t *testing.T) {
	r := NewRenderer(nil)
	frame := func(draw func()) []uint32 {
		r.BeginFrame(60, 60, false)
		r.SetSlabAndDepth(0, 1000, false)
		draw()
		r.EndFrame(nil)
		return slices.Clone(r.Buffer().Color)
	}
	line := frame(func() { r.DrawLine(colix.Red, colix.Blue, 3, 7, 10, 51, 40, 90) })
	cyl := frame(func() { r.FillCylinder(colix.Red, colix.Blue, EndcapFlat, 1, 3, 7, 10, 51, 40, 90) })
	assert.Equal(t, line, cyl)
}

func TestCylinderHalves(t *testing.T) {
	r := newTestRenderer(t, 100, 60)
	r.FillCylinder(colix.Red, colix.Blue, EndcapNone, 10, 20, 30, 100, 80, 30, 100)
	fb := r.Buffer()
	c, _ := fb.At(25, 30)
	assert.Contains(t, shadesOf(r, colix.Red), c)
	c, _ = fb.At(75, 30)
	assert.Contains(t, shadesOf(r, colix.Blue), c)
	assert.True(t, written(fb, 50, 27))
	assert.False(t, written(fb, 50, 20))
}

func TestCylinderFlatCapEndOn(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	r.FillCylinder(colix.Red, colix.Red, EndcapFlat, 11, 50, 50, 100, 50, 50, 200)
	fb := r.Buffer()
	_, z := fb.At(50, 50)
	assert.Equal(t, int32(100), z)
	assert.True(t, written(fb, 53, 50))
	assert.False(t, written(fb, 58, 50))
}

func TestCone(t *testing.T) {
	r := newTestRenderer(t, 100, 100)
	r.FillCone(colix.Red, EndcapFlat, 20, 30, 50, 100, 70, 50, 100, true)
	fb := r.Buffer()
	assert.True(t, written(fb, 70, 50))
	assert.True(t, written(fb, 31, 50))
	assert.True(t, written(fb, 31, 58))
	assert.False(t, written(fb, 69, 58))
}

func TestTrianglesShareEdgesWithoutCracks(t *testing.T) {
	r := newTestRenderer(t, 40, 40)
	r.SetColix(colix.Red)
	r.FillTriangleScreen(Point3i{10, 10, 100}, Point3i{30, 10, 100}, Point3i{30, 30, 100})
	r.FillTriangleScreen(Point3i{10, 10, 100}, Point3i{10, 30, 100}, Point3i{30, 30, 100})
	fb := r.Buffer()
	for y := 10; y <= 30; y++ {
		for x := 10; x <= 30; x++ {
			require.True(t, written(fb, x, y), "(%d,%d)", x, y)
		}
	}
	assert.False(t, written(fb, 31, 20))
	assert.False(t, written(fb, 20, 9))
}

func TestTallTriangleFillsVisibleRows(t *testing.T) {
	r := newTestRenderer(t, 40, 40)
	r.SetColix(colix.Red)
	// ten times the viewport height, straddling it
	r.FillTriangleScreen(Point3i{-50, -100, 100}, Point3i{60, -100, 100}, Point3i{5, 300, 100})
	fb := r.Buffer()
	for _, p := range [][2]int{{0, 0}, {39, 0}, {20, 20}, {0, 39}, {39, 39}} {
		assert.True(t, written(fb, p[0], p[1]), "(%d,%d)", p[0], p[1])
	}

	r = newTestRenderer(t, 40, 40)
	r.SetColix(colix.Red)
	r.FillTriangleScreen(Point3i{0, 50, 100}, Point3i{30, 60, 100}, Point3i{10, 400, 100})
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			require.False(t, written(r.Buffer(), x, y), "(%d,%d)", x, y)
		}
	}
}

func TestTriangleColixVertexColor(t *testing.T) {
	r := newTestRenderer(t, 60, 60)
	n := r.Context().Normix.Quantize(mathutil.Vec3{0, 0, 1})
	r.FillTriangleColix(Point3i{10, 10, 100}, colix.Red, n,
		Point3i{50, 10, 100}, colix.Blue, n,
		Point3i{10, 50, 100}, colix.Blue, n)
	i := r.Context().Normix.Intensity(n)
	c, _ := r.Buffer().At(10, 10)
	assert.Equal(t, shadesOf(r, colix.Red)[i], c)
	c, _ = r.Buffer().At(49, 10)
	assert.Greater(t, c&0xFF, c>>16&0xFF, "blue dominates near b")
}

func TestEllipsoid(t *testing.T) {
	axes := [3]mathutil.Vec3{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}
	r := newTestRenderer(t, 100, 100)
	r.SetColix(colix.Red)
	r.RenderEllipsoid(50, 50, 100, axes, -1)
	fb := r.Buffer()
	_, z := fb.At(50, 50)
	assert.Equal(t, int32(90), z)
	_, z = fb.At(53, 53)
	assert.Equal(t, int32(91), z)
	assert.False(t, written(fb, 61, 50))

	r.BeginFrame(100, 100, false)
	r.SetColix(colix.Red)
	r.RenderEllipsoid(50, 50, 100, axes, 4)
	_, z = r.Buffer().At(53, 53)
	assert.Equal(t, int32(100), z, "the cut octant shows its wall")
	_, z = r.Buffer().At(47, 47)
	assert.Equal(t, int32(91), z)
}

func TestHermiteIsContinuous(t *testing.T) {
	r := newTestRenderer(t, 64, 20)
	r.SetColix(colix.Red)
	p := [4]Point3i{{0, 10, 100}, {10, 10, 100}, {50, 10, 100}, {60, 10, 100}}
	r.DrawHermite(4, p)
	fb := r.Buffer()
	for x := 10; x <= 50; x++ {
		assert.True(t, written(fb, x, 10), "x=%d", x)
	}
	assert.False(t, written(fb, 55, 10))
}

func TestFillHermiteRope(t *testing.T) {
	r := newTestRenderer(t, 64, 40)
	r.SetColix(colix.Red)
	p := [4]Point3i{{0, 20, 100}, {10, 20, 100}, {50, 20, 100}, {60, 20, 100}}
	r.FillHermite(4, 4, 8, 4, p)
	fb := r.Buffer()
	assert.True(t, written(fb, 30, 23))
	assert.False(t, written(fb, 30, 30))
}

func TestHermiteRibbon(t *testing.T) {
	top := [4]Point3i{{0, 10, 100}, {10, 10, 100}, {50, 10, 100}, {60, 10, 100}}
	bottom := [4]Point3i{{0, 20, 100}, {10, 20, 100}, {50, 20, 100}, {60, 20, 100}}

	r := newTestRenderer(t, 64, 32)
	r.SetColix(colix.Red)
	r.FillHermiteRibbon(4, top, bottom, true, 0)
	_, z := r.Buffer().At(30, 15)
	assert.Equal(t, int32(100), z)

	r.BeginFrame(64, 32, false)
	r.SetColix(colix.Red)
	r.FillHermiteRibbon(4, top, bottom, false, 0.5)
	_, z = r.Buffer().At(30, 15)
	assert.Equal(t, int32(97), z, "the extruded face is nearer")

	r.BeginFrame(64, 32, false)
	r.SetColix(colix.Red)
	r.DrawHermiteRibbon(4, top, bottom)
	assert.True(t, written(r.Buffer(), 30, 10))
	assert.True(t, written(r.Buffer(), 10, 15))
	assert.False(t, written(r.Buffer(), 30, 15))
}

type boxGlyphs struct{ calls int }

func (g *boxGlyphs) Bitmap(text string, f Font) (*Bitmap, bool) {
	g.calls++
	b := NewBitmap(3, 2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			b.Set(x, y)
		}
	}
	return b, true
}

func TestDrawText(t *testing.T) {
	g := &boxGlyphs{}
	r := newTestRenderer(t, 20, 20)
	r.SetGlyphSource(g)
	r.SetColix(colix.Red)
	f := Font{Face: "mono", Size: 12}
	r.DrawText(10, 10, 50, f, "x")
	r.DrawText(10, 10, 50, f, "x")
	fb := r.Buffer()
	assert.Equal(t, 1, g.calls, "bitmaps are cached")
	assert.True(t, written(fb, 10, 8))
	assert.True(t, written(fb, 12, 9))
	assert.False(t, written(fb, 12, 10))
	assert.False(t, written(fb, 13, 9))
}

func TestDrawImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 200, 0, 255})
		}
	}
	img.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 0})

	r := newTestRenderer(t, 20, 20)
	require.True(t, r.SetColix(colix.White))
	r.DrawImage(img, 5, 5, 50, 4, 4)
	fb := r.Buffer()
	c, z := fb.At(5, 5)
	assert.Equal(t, uint32(0xFF00C800), c)
	assert.Equal(t, int32(50), z)
	assert.False(t, written(fb, 8, 8), "transparent texels are skipped")
	assert.False(t, written(fb, 9, 5))
}
