package raster

import "g3d-renderer/internal/colix"

// DrawCircle draws the outline of a flat circle at depth z.
func (r *Renderer) DrawCircle(c colix.Colix, diameter, x, y, z int) {
	if r.SetColix(c) {
		r.circle(diameter, x, y, z, false)
	}
}

// FillCircle fills a flat disk at depth z.
func (r *Renderer) FillCircle(c colix.Colix, diameter, x, y, z int) {
	if r.SetColix(c) {
		r.circle(diameter, x, y, z, true)
	}
}

// circle runs the midpoint algorithm with eight-way symmetry. Even
// diameters are centred half a pixel up and left of (x, y).
func (r *Renderer) circle(diameter, x, y, z int, fill bool) {
	if diameter <= 0 || r.isClippedZ(z) || r.isClippedBox(diameter, x, y) {
		return
	}
	argb := r.state.argb
	if diameter == 1 {
		r.plotClipped(x, y, z, argb)
		return
	}
	radius := diameter / 2
	sizeCorrection := 1 - diameter&1
	clipped := x-radius < 0 || x+radius >= r.width || y-radius < 0 || y+radius >= r.height

	xx, yy := radius, 0
	xChange, yChange := 1-2*radius, 1
	radiusError := 0
	for xx >= yy {
		if fill {
			r.circleSpans(x, y, z, xx, yy, sizeCorrection, argb, clipped)
		} else if clipped {
			r.circlePointsClipped(x, y, z, xx, yy, sizeCorrection, argb)
		} else {
			r.circlePoints(x, y, z, xx, yy, sizeCorrection, argb)
		}
		yy++
		radiusError += yChange
		yChange += 2
		if 2*radiusError+xChange > 0 {
			xx--
			radiusError += xChange
			xChange += 2
		}
	}
}

func (r *Renderer) circlePoints(xC, yC, z, x, y, sc int, argb uint32) {
	r.plot(xC+x-sc, yC+y-sc, z, argb)
	r.plot(xC+x-sc, yC-y, z, argb)
	r.plot(xC-x, yC+y-sc, z, argb)
	r.plot(xC-x, yC-y, z, argb)

	r.plot(xC+y-sc, yC+x-sc, z, argb)
	r.plot(xC+y-sc, yC-x, z, argb)
	r.plot(xC-y, yC+x-sc, z, argb)
	r.plot(xC-y, yC-x, z, argb)
}

func (r *Renderer) circlePointsClipped(xC, yC, z, x, y, sc int, argb uint32) {
	r.plotClipped(xC+x-sc, yC+y-sc, z, argb)
	r.plotClipped(xC+x-sc, yC-y, z, argb)
	r.plotClipped(xC-x, yC+y-sc, z, argb)
	r.plotClipped(xC-x, yC-y, z, argb)

	r.plotClipped(xC+y-sc, yC+x-sc, z, argb)
	r.plotClipped(xC+y-sc, yC-x, z, argb)
	r.plotClipped(xC-y, yC+x-sc, z, argb)
	r.plotClipped(xC-y, yC-x, z, argb)
}

func (r *Renderer) circleSpans(xC, yC, z, x, y, sc int, argb uint32, clipped bool) {
	r.hspan(xC-x, xC+x-sc, yC+y-sc, z, argb, clipped)
	r.hspan(xC-x, xC+x-sc, yC-y, z, argb, clipped)
	r.hspan(xC-y, xC+y-sc, yC+x-sc, z, argb, clipped)
	r.hspan(xC-y, xC+y-sc, yC-x, z, argb, clipped)
}

// hspan fills [x0, x1] on row y at constant depth.
func (r *Renderer) hspan(x0, x1, y, z int, argb uint32, clipped bool) {
	if clipped {
		if y < 0 || y >= r.height {
			return
		}
		x0 = max(x0, 0)
		x1 = min(x1, r.width-1)
	}
	for x := x0; x <= x1; x++ {
		r.plot(x, y, z, argb)
	}
}
