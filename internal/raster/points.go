package raster

import "g3d-renderer/internal/colix"

// DrawPixel plots one pixel in the current colix.
func (r *Renderer) DrawPixel(x, y, z int) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	r.plotClipped(x, y, z, r.state.argb)
}

// DrawPoints plots each point as one pixel in c.
func (r *Renderer) DrawPoints(c colix.Colix, pts []Point3i) {
	if !r.SetColix(c) {
		return
	}
	for _, p := range pts {
		r.plotClipped(p.X, p.Y, p.Z, r.state.argb)
	}
}

// FillRect fills a flat screen-aligned rectangle at depth z in the current
// colix, as used behind labels.
func (r *Renderer) FillRect(x, y, z, width, height int) {
	if !r.frameOpen || r.state.shades == nil || width <= 0 || height <= 0 || r.isClippedZ(z) {
		return
	}
	argb := r.state.argb
	for py := max(y, 0); py < min(y+height, r.height); py++ {
		r.hspan(x, x+width-1, py, z, argb, true)
	}
}

// DrawRect outlines a screen-aligned rectangle in c.
func (r *Renderer) DrawRect(c colix.Colix, x, y, z, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	x1, y1 := x+width-1, y+height-1
	r.DrawLine(c, c, x, y, z, x1, y, z)
	r.DrawLine(c, c, x1, y, z, x1, y1, z)
	r.DrawLine(c, c, x1, y1, z, x, y1, z)
	r.DrawLine(c, c, x, y1, z, x, y, z)
}
