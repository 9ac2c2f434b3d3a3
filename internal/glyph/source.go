// Package glyph rasterizes text into 1-bit bitmaps for raster.DrawText
// using the Go fonts.
package glyph

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"g3d-renderer/internal/raster"
)

// Face names understood by Source. Anything else falls back to FaceSans.
const (
	FaceSans  = "sans"
	FaceMono  = "mono"
	FaceBasic = "basic" // fixed 7x13 bitmap font, size ignored
)

// coverageThreshold is the alpha at which an antialiased glyph pixel
// becomes a set bit.
const coverageThreshold = 0x80

type faceKey struct {
	name  string
	style raster.FontStyle
	size  float64
}

// Source implements raster.GlyphSource. It is safe for concurrent use so
// that batch workers can share one.
type Source struct {
	mu    sync.Mutex
	fonts map[string][4]*opentype.Font
	faces map[faceKey]font.Face
}

// NewSource parses the embedded Go fonts.
func NewSource() (*Source, error) {
	families := map[string][4][]byte{
		FaceSans: {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
		FaceMono: {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
	}
	s := &Source{
		fonts: make(map[string][4]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
	for name, ttfs := range families {
		var set [4]*opentype.Font
		for i, ttf := range ttfs {
			f, err := opentype.Parse(ttf)
			if err != nil {
				return nil, fmt.Errorf("glyph: parse %s style %d: %w", name, i, err)
			}
			set[i] = f
		}
		s.fonts[name] = set
	}
	return s, nil
}

func (s *Source) face(f raster.Font) (font.Face, error) {
	if f.Face == FaceBasic {
		return basicfont.Face7x13, nil
	}
	name := f.Face
	if _, ok := s.fonts[name]; !ok {
		name = FaceSans
	}
	style := f.Style
	if style < raster.StylePlain || style > raster.StyleBoldItalic {
		style = raster.StylePlain
	}
	key := faceKey{name: name, style: style, size: f.Size}
	if face, ok := s.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(s.fonts[name][style], &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("glyph: face %s %.1f: %w", name, f.Size, err)
	}
	s.faces[key] = face
	return face, nil
}

// Bitmap renders text on a single line. ok is false for empty text,
// non-positive sizes or a face that fails to load.
func (s *Source) Bitmap(text string, f raster.Font) (*raster.Bitmap, bool) {
	if text == "" || (f.Face != FaceBasic && f.Size <= 0) {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	face, err := s.face(f)
	if err != nil {
		raster.Logger().Warn("glyph: load face", "err", err)
		return nil, false
	}
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	width := font.MeasureString(face, text).Ceil()
	if width <= 0 || height <= 0 {
		return nil, false
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	b := raster.NewBitmap(width, height, ascent)
	for y := 0; y < height; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+width]
		for x, a := range row {
			if a >= coverageThreshold {
				b.Set(x, y)
			}
		}
	}
	return b, true
}

// Close releases the cached faces.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, face := range s.faces {
		_ = face.Close()
		delete(s.faces, k)
	}
	return nil
}
