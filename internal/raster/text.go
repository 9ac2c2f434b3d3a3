package raster

// FontStyle is the weight/slant of a Font.
type FontStyle int

const (
	StylePlain FontStyle = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
)

// Font names a face, style and pixel size for a GlyphSource.
type Font struct {
	Face  string
	Style FontStyle
	Size  float64
}

// Bitmap is a 1-bit text image. Rows are Stride bytes, most significant
// bit first. Ascent is the number of rows above the baseline.
type Bitmap struct {
	Width  int
	Height int
	Ascent int
	Stride int
	Bits   []byte
}

// NewBitmap allocates an empty w×h bitmap.
func NewBitmap(w, h, ascent int) *Bitmap {
	stride := (w + 7) / 8
	return &Bitmap{Width: w, Height: h, Ascent: ascent, Stride: stride, Bits: make([]byte, stride*h)}
}

// Set marks pixel (x, y).
func (b *Bitmap) Set(x, y int) {
	b.Bits[y*b.Stride+x/8] |= 0x80 >> (x % 8)
}

// IsSet reports whether pixel (x, y) is on.
func (b *Bitmap) IsSet(x, y int) bool {
	return b.Bits[y*b.Stride+x/8]&(0x80>>(x%8)) != 0
}

// GlyphSource rasterizes a string. ok is false when the font or text
// cannot be rendered.
type GlyphSource interface {
	Bitmap(text string, f Font) (*Bitmap, bool)
}

type glyphKey struct {
	font      Font
	text      string
	antialias bool
}

// maxCachedGlyphs bounds the per-context bitmap cache.
const maxCachedGlyphs = 1024

func (r *Renderer) glyphBitmap(f Font, text string) (*Bitmap, bool) {
	if r.glyphs == nil {
		return nil, false
	}
	key := glyphKey{font: f, text: text, antialias: r.supersampled}
	ctx := r.ctx
	if b, ok := ctx.glyphs[key]; ok {
		return b, b != nil
	}
	if r.supersampled {
		f.Size *= 2
	}
	b, ok := r.glyphs.Bitmap(text, f)
	if !ok {
		Logger().Warn("raster: glyph source failed", "text", text, "face", f.Face, "size", f.Size)
		b = nil
	}
	if ctx.glyphs == nil || len(ctx.glyphs) >= maxCachedGlyphs {
		ctx.glyphs = make(map[glyphKey]*Bitmap)
	}
	ctx.glyphs[key] = b
	return b, b != nil
}

// DrawText draws text in the current colix with its baseline at y and its
// left edge at x, all pixels at depth z.
func (r *Renderer) DrawText(x, y, z int, f Font, text string) {
	if !r.frameOpen || r.state.shades == nil || text == "" || r.isClippedZ(z) {
		return
	}
	b, ok := r.glyphBitmap(f, text)
	if !ok {
		return
	}
	top := y - b.Ascent
	if x+b.Width <= 0 || x >= r.width || top+b.Height <= 0 || top >= r.height {
		return
	}
	argb := r.state.argb
	for j := 0; j < b.Height; j++ {
		py := top + j
		if py < 0 || py >= r.height {
			continue
		}
		for i := 0; i < b.Width; i++ {
			px := x + i
			if px < 0 || px >= r.width || !b.IsSet(i, j) {
				continue
			}
			r.plot(px, py, z, argb)
		}
	}
}
