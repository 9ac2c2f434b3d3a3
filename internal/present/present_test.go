package present

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func TestCaptureConvertsARGB(t *testing.T) {
	c := Capture{Background: 0xFF0000FF}
	c.Present([]uint32{0xFF102030, 0x80808080, 0, 0xFF000000}, 2, 2)
	require.NotNil(t, c.Image)
	assert.Equal(t, color.NRGBA{0x10, 0x20, 0x30, 0xFF}, c.Image.NRGBAAt(0, 0))
	// half coverage of grey over blue
	assert.Equal(t, color.NRGBA{0x80, 0x80, 0xFF, 0xFF}, c.Image.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0xFF, 0xFF}, c.Image.NRGBAAt(0, 1))
	assert.Equal(t, color.NRGBA{0, 0, 0, 0xFF}, c.Image.NRGBAAt(1, 1))
}

func TestToNRGBATransparentBackground(t *testing.T) {
	img := ToNRGBA([]uint32{0, 0x80808080}, 2, 1, 0)
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0xFF, 0xFF, 0xFF, 0x80}, img.NRGBAAt(1, 0))
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestScale(t *testing.T) {
	img := solid(8, 6, color.NRGBA{200, 100, 50, 255})
	assert.Same(t, img, Scale(img, 1))

	half := Scale(img, 0.5)
	assert.Equal(t, image.Rect(0, 0, 4, 3), half.Bounds())
	assert.Equal(t, color.NRGBA{200, 100, 50, 255}, half.NRGBAAt(1, 1))

	double := Scale(img, 2)
	assert.Equal(t, image.Rect(0, 0, 16, 12), double.Bounds())
}

func TestScaleKeepsTransparentEdgesClean(t *testing.T) {
	img := solid(8, 8, color.NRGBA{})
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	out := Scale(img, 0.5)
	for x := 0; x < 4; x++ {
		c := out.NRGBAAt(x, 2)
		if c.A > 0 {
			assert.Equal(t, uint8(255), c.R, "x=%d", x)
		}
	}
}

func TestEncodeFormats(t *testing.T) {
	img := solid(4, 4, color.NRGBA{1, 2, 3, 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG))
	back, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), back.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatWebP))
	assert.Equal(t, "RIFF", string(buf.Bytes()[:4]))
	decoded, err := webp.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	assert.Error(t, Encode(&buf, img, "gif"))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "frame"+Ext(FormatPNG))
	require.NoError(t, Save(path, solid(2, 2, color.NRGBA{A: 255}), FormatPNG))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Equal(t, ".webp", Ext(FormatWebP))
}

func TestCrop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 8))
	img.SetNRGBA(3, 2, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(5, 4, color.NRGBA{0, 255, 0, 10})

	out := Crop(img, 0)
	assert.Equal(t, image.Rect(0, 0, 3, 3), out.Bounds())
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 255, 0, 10}, out.NRGBAAt(2, 2))

	out = Crop(img, 1)
	assert.Equal(t, image.Rect(0, 0, 5, 5), out.Bounds())
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, out.NRGBAAt(1, 1))

	assert.Equal(t, image.Rect(0, 0, 10, 8), Crop(img, 20).Bounds())

	empty := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, empty, Crop(empty, 0))
}
