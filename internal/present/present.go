// Package present turns finished raster frames into images and files.
package present

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
)

// Output formats.
const (
	FormatWebP = "webp"
	FormatPNG  = "png"
)

// Capture is a raster.Presenter that keeps a copy of the last frame
// composited over Background.
type Capture struct {
	Background uint32
	Image      *image.NRGBA
}

// Present converts the packed ARGB pixels into c.Image.
func (c *Capture) Present(pixels []uint32, width, height int) {
	c.Image = ToNRGBA(pixels, width, height, c.Background)
}

// ToNRGBA composites frame pixels over background and converts them to
// an NRGBA image. Frame pixels are alpha-premultiplied: empty pixels are
// zero and antialiased edges carry partial coverage in alpha.
func ToNRGBA(pixels []uint32, width, height int, background uint32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	ba := background >> 24
	bg := [3]uint32{(background >> 16) & 0xFF * ba / 255, (background >> 8) & 0xFF * ba / 255, background & 0xFF * ba / 255}
	for i, p := range pixels[:width*height] {
		a := p >> 24
		inv := 255 - a
		outA := a + ba*inv/255
		o := i * 4
		img.Pix[o+3] = uint8(outA)
		if outA == 0 {
			continue
		}
		for ch := 0; ch < 3; ch++ {
			c := (p>>(16-8*ch))&0xFF + bg[ch]*inv/255
			img.Pix[o+ch] = uint8(min(c*255/outA, 255))
		}
	}
	return img
}

// Ext returns the file extension for format.
func Ext(format string) string {
	if format == FormatPNG {
		return ".png"
	}
	return ".webp"
}

// Encode writes img to w as WebP (lossless) or PNG.
func Encode(w io.Writer, img *image.NRGBA, format string) error {
	switch format {
	case FormatWebP, "":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("present: webp encode: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("present: png encode: %w", err)
		}
	default:
		return fmt.Errorf("present: unknown format %q", format)
	}
	return nil
}

// Save encodes img into path, creating parent directories.
func Save(path string, img *image.NRGBA, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("present: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("present: create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
