package raster

import "image"

// DrawImage blits img scaled to width×height with its top-left corner at
// (x, y), every pixel at depth z. Non-positive sizes use the image size.
// Pixels with alpha below one half are skipped. The pass and translucency
// come from the current colix, so call SetColix first.
func (r *Renderer) DrawImage(img *image.NRGBA, x, y, z, width, height int) {
	if !r.frameOpen || r.state.shades == nil || img == nil || r.isClippedZ(z) {
		return
	}
	iw, ih := img.Rect.Dx(), img.Rect.Dy()
	if iw == 0 || ih == 0 {
		return
	}
	if width <= 0 || height <= 0 {
		width, height = iw, ih
	}
	x0, x1 := max(x, 0), min(x+width, r.width)
	y0, y1 := max(y, 0), min(y+height, r.height)
	for py := y0; py < y1; py++ {
		v := (float64(py-y) + 0.5) / float64(height)
		for px := x0; px < x1; px++ {
			u := (float64(px-x) + 0.5) / float64(width)
			cr, cg, cb, ca := sampleBilinear(img, u, v)
			if ca < 0x80 {
				continue
			}
			r.plot(px, py, z, 0xFF000000|uint32(cr)<<16|uint32(cg)<<8|uint32(cb))
		}
	}
}

// sampleBilinear filters img at (u, v) in [0,1]² with edge clamping. It
// reads Pix directly.
func sampleBilinear(img *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()

	fx := min(max(u*float64(w)-0.5, 0), float64(w-1))
	fy := min(max(v*float64(h)-0.5, 0), float64(h-1))
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := img.Stride
	pix := img.Pix

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	ch := func(o int) uint8 {
		f := float64(pix[i00+o])*w00 + float64(pix[i10+o])*w10 + float64(pix[i01+o])*w01 + float64(pix[i11+o])*w11
		return uint8(f + 0.5)
	}
	return ch(0), ch(1), ch(2), ch(3)
}
