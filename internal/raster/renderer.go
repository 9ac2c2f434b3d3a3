// Package raster is a software rasterizer for screen-space primitives:
// lines, circles, spheres, ellipsoids, cylinders, cones, triangles,
// Hermite curves, text and images. Pixels are z-tested into an owned
// color/depth buffer pair with an optional single translucent layer and
// 2×2 supersampling.
//
// Screen space has x to the right, y down and z growing away from the
// viewer; smaller z is nearer.
package raster

import (
	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/normix"
	"g3d-renderer/internal/shade"
)

// Presenter receives the finished frame. pixels is only valid during the
// call.
type Presenter interface {
	Present(pixels []uint32, width, height int)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(pixels []uint32, width, height int)

func (f PresenterFunc) Present(pixels []uint32, width, height int) { f(pixels, width, height) }

// Default slab and depth planes. Callers normally set their own.
const (
	DefaultSlab  = 0
	DefaultDepth = 1 << 20
)

// Renderer draws one frame at a time into buffers it owns.
//
// A frame is BeginFrame, opaque draws, optionally BeginTranslucentPass and
// the same draws again, then EndFrame. Every draw goes through SetColix,
// which drops the object in the pass that does not own it.
type Renderer struct {
	ctx *Context

	windowWidth  int
	windowHeight int
	width        int
	height       int

	antialias            bool // requested for this frame
	supersampled         bool // buffers are currently 2×
	antialiasTranslucent bool

	opaque      FrameBuffer
	translucent FrameBuffer

	frameOpen      bool
	isPass2        bool
	hasTranslucent bool

	state renderState

	lines     lineRasterizer
	spheres   sphereRasterizer
	cylinders cylinderRasterizer
	triangles triangleRasterizer
	hermites  hermiteRasterizer
	glyphs    GlyphSource
}

// NewRenderer returns a renderer drawing with ctx. A nil ctx gets a fresh
// Context at the default geodesic level.
func NewRenderer(ctx *Context) *Renderer {
	if ctx == nil {
		ctx = NewContext(normix.DefaultLevel)
	}
	r := &Renderer{ctx: ctx}
	r.state.slab = DefaultSlab
	r.state.depth = DefaultDepth
	r.lines.r = r
	r.spheres.r = r
	r.cylinders.r = r
	r.triangles.r = r
	r.hermites.r = r
	return r
}

// Context returns the tables the renderer draws with.
func (r *Renderer) Context() *Context { return r.ctx }

// SetBackground sets the color blended under translucent pixels that land
// on empty opaque pixels, and the depth-cue target.
func (r *Renderer) SetBackground(argb uint32) { r.state.background = argb }

// SetSlabAndDepth sets the near and far clip planes. With zShade on,
// pixels in the far half fade toward the background.
func (r *Renderer) SetSlabAndDepth(slab, depth int, zShade bool) {
	r.state.slab = slab
	r.state.depth = depth
	r.state.zShade = zShade
}

// SetZMargin sets the depth tolerance under which two translucent pixels
// count as the same surface.
func (r *Renderer) SetZMargin(m int) { r.state.zMargin = max(m, 0) }

// SetAntialiasTranslucent keeps the translucent pass supersampled instead
// of downsampling before it.
func (r *Renderer) SetAntialiasTranslucent(on bool) { r.antialiasTranslucent = on }

// SetGlyphSource installs the text rasterizer used by DrawText.
func (r *Renderer) SetGlyphSource(g GlyphSource) { r.glyphs = g }

// Width and Height return the current drawing size, which is doubled
// while a supersampled pass is active.
func (r *Renderer) Width() int  { return r.width }
func (r *Renderer) Height() int { return r.height }

// Scale is the factor between window and drawing coordinates for the
// current pass: 2 while supersampled, 1 otherwise.
func (r *Renderer) Scale() int {
	if r.supersampled {
		return 2
	}
	return 1
}

// IsPass2 reports whether the translucent pass is active.
func (r *Renderer) IsPass2() bool { return r.isPass2 }

// BeginFrame starts a frame of width×height window pixels. Non-positive
// sizes start an empty frame in which every draw is skipped.
func (r *Renderer) BeginFrame(width, height int, antialias bool) {
	r.isPass2 = false
	r.hasTranslucent = false
	r.state.colix = colix.None
	r.state.shades = nil
	if width <= 0 || height <= 0 {
		r.frameOpen = false
		r.width, r.height = 0, 0
		return
	}
	r.ctx.checkShadeGeneration()
	if width != r.windowWidth || height != r.windowHeight || antialias != r.antialias {
		Logger().Debug("raster: frame size changed",
			"width", width, "height", height, "antialias", antialias)
		r.translucent.release()
	}
	r.windowWidth, r.windowHeight = width, height
	r.antialias = antialias
	r.supersampled = antialias
	r.width, r.height = width, height
	if antialias {
		r.width, r.height = 2*width, 2*height
	}
	if r.opaque.resize(r.width, r.height) {
		Logger().Debug("raster: allocated opaque buffers", "width", r.width, "height", r.height)
	}
	r.opaque.Clear()
	r.frameOpen = true
}

// SetColix makes c current. It reports false, and the caller should skip
// the object, when c does not draw in this pass: unset and fully
// transparent colixes never draw, blended translucent ones draw only in
// pass 2, opaque and screened ones only in pass 1.
func (r *Renderer) SetColix(c colix.Colix) bool {
	p := r.paintFor(c)
	if !p.ok() {
		return false
	}
	r.state.colix = c
	r.use(p)
	r.state.setIntensity(shade.Normal)
	return true
}

// paintFor resolves c for the active pass, recording translucent content
// on the way.
func (r *Renderer) paintFor(c colix.Colix) paint {
	if !r.frameOpen || !c.IsSet() {
		return paint{}
	}
	t := c.Translucency()
	if t == colix.Transparent {
		return paint{}
	}
	blended := t.IsBlended()
	if blended {
		r.hasTranslucent = true
	}
	if blended != r.isPass2 {
		return paint{}
	}
	shades := r.ctx.Shades.Shades(c)
	if shades[shade.Normal] == 0 {
		return paint{}
	}
	return paint{shades: shades, level: t.Level(), screened: t == colix.Screened}
}

// SetIntensity selects shade i (0..63) of the current colix.
func (r *Renderer) SetIntensity(i int) {
	if r.state.shades != nil {
		r.state.setIntensity(i)
	}
}

// HasTranslucent reports whether a translucent colix was offered to
// SetColix during this frame.
func (r *Renderer) HasTranslucent() bool { return r.hasTranslucent }

// BeginTranslucentPass switches to pass 2. It reports false when the frame
// had no translucent content. A supersampled frame is downsampled first
// unless SetAntialiasTranslucent(true) was called.
func (r *Renderer) BeginTranslucentPass() bool {
	if !r.frameOpen || r.isPass2 || !r.hasTranslucent {
		return false
	}
	if r.supersampled && !r.antialiasTranslucent {
		r.opaque.downsample()
		r.supersampled = false
		r.width, r.height = r.windowWidth, r.windowHeight
	}
	if r.translucent.resize(r.width, r.height) {
		Logger().Debug("raster: allocated translucent buffers", "width", r.width, "height", r.height)
	}
	r.translucent.Clear()
	r.isPass2 = true
	r.state.colix = colix.None
	r.state.shades = nil
	return true
}

// EndFrame merges the translucent layer, downsamples a supersampled frame
// and hands the pixels to p, which may be nil.
func (r *Renderer) EndFrame(p Presenter) {
	if !r.frameOpen {
		return
	}
	if r.isPass2 {
		r.mergeTranslucent()
	}
	if r.supersampled {
		r.opaque.downsample()
		r.supersampled = false
		r.width, r.height = r.windowWidth, r.windowHeight
	}
	r.frameOpen = false
	r.isPass2 = false
	if p != nil {
		p.Present(r.opaque.Color, r.opaque.Width, r.opaque.Height)
	}
}

// Buffer returns the opaque color/depth pair. After EndFrame it holds the
// finished frame at window size.
func (r *Renderer) Buffer() *FrameBuffer { return &r.opaque }

// Release drops every buffer. The next BeginFrame reallocates.
func (r *Renderer) Release() {
	r.opaque.release()
	r.translucent.release()
	r.windowWidth, r.windowHeight = 0, 0
}
