package present

import "image"

// Crop trims img to the bounding box of its non-transparent pixels plus
// margin pixels on every side, clamped to the image. Fully transparent
// images are returned unchanged.
func Crop(img *image.NRGBA, margin int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return img
	}

	margin = max(margin, 0)
	minX, minY = max(minX-margin, 0), max(minY-margin, 0)
	maxX, maxY = min(maxX+margin, w-1), min(maxY+margin, h-1)

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	if cropW == w && cropH == h {
		return img
	}
	cropped := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	for y := 0; y < cropH; y++ {
		srcOff := (minY+y)*img.Stride + minX*4
		dstOff := y * cropped.Stride
		copy(cropped.Pix[dstOff:dstOff+cropW*4], img.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped
}
