package raster

// Outcode bits: one per violated half-space of the view volume.
const (
	clipXLow = 1 << iota
	clipXHigh
	clipYLow
	clipYHigh
	clipZNear
	clipZFar
)

// maxClipIterations bounds clipLine; each pass removes at least one bit
// for well-formed input.
const maxClipIterations = 8

func (r *Renderer) clipCode(x, y, z int) int {
	code := 0
	if x < 0 {
		code |= clipXLow
	} else if x >= r.width {
		code |= clipXHigh
	}
	if y < 0 {
		code |= clipYLow
	} else if y >= r.height {
		code |= clipYHigh
	}
	if z < r.state.slab {
		code |= clipZNear
	} else if z > r.state.depth {
		code |= clipZFar
	}
	return code
}

func (r *Renderer) isClipped(x, y, z int) bool {
	return x < 0 || x >= r.width || y < 0 || y >= r.height || z < r.state.slab || z > r.state.depth
}

func (r *Renderer) isClippedXY(x, y int) bool {
	return x < 0 || x >= r.width || y < 0 || y >= r.height
}

func (r *Renderer) isClippedZ(z int) bool {
	return z < r.state.slab || z > r.state.depth
}

// isClippedBox reports whether the square of side diameter centred on
// (x, y) misses the viewport entirely.
func (r *Renderer) isClippedBox(diameter, x, y int) bool {
	rr := (diameter + 1) / 2
	return x+rr < 0 || x-rr >= r.width || y+rr < 0 || y-rr >= r.height
}

// clipLine moves the endpoints of a segment onto the view volume one
// violated plane at a time. It reports false when the segment turns out to
// lie entirely outside.
func (r *Renderer) clipLine(x1, y1, z1, x2, y2, z2 int) (int, int, int, int, int, int, bool) {
	cc1 := r.clipCode(x1, y1, z1)
	cc2 := r.clipCode(x2, y2, z2)
	for i := 0; i < maxClipIterations; i++ {
		if cc1|cc2 == 0 {
			return x1, y1, z1, x2, y2, z2, true
		}
		if cc1&cc2 != 0 {
			return 0, 0, 0, 0, 0, 0, false
		}
		dx, dy, dz := x2-x1, y2-y1, z2-z1
		if cc1 != 0 {
			x1, y1, z1 = r.clipPoint(cc1, x1, y1, z1, dx, dy, dz)
			cc1 = r.clipCode(x1, y1, z1)
		} else {
			x2, y2, z2 = r.clipPoint(cc2, x2, y2, z2, dx, dy, dz)
			cc2 = r.clipCode(x2, y2, z2)
		}
	}
	return 0, 0, 0, 0, 0, 0, false
}

// clipPoint slides (x, y, z) along (dx, dy, dz) onto the first plane named
// in code.
func (r *Renderer) clipPoint(code, x, y, z, dx, dy, dz int) (int, int, int) {
	switch {
	case code&clipXLow != 0:
		return 0, y + roundDiv(-x*dy, dx), z + roundDiv(-x*dz, dx)
	case code&clipXHigh != 0:
		t := r.width - 1 - x
		return r.width - 1, y + roundDiv(t*dy, dx), z + roundDiv(t*dz, dx)
	case code&clipYLow != 0:
		return x + roundDiv(-y*dx, dy), 0, z + roundDiv(-y*dz, dy)
	case code&clipYHigh != 0:
		t := r.height - 1 - y
		return x + roundDiv(t*dx, dy), r.height - 1, z + roundDiv(t*dz, dy)
	case code&clipZNear != 0:
		t := r.state.slab - z
		return x + roundDiv(t*dx, dz), y + roundDiv(t*dy, dz), r.state.slab
	default:
		t := r.state.depth - z
		return x + roundDiv(t*dx, dz), y + roundDiv(t*dy, dz), r.state.depth
	}
}

// roundDiv divides rounding half away from zero. A zero divisor returns 0.
func roundDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	if b < 0 {
		a, b = -a, -b
	}
	if a >= 0 {
		return (2*a + b) / (2 * b)
	}
	return -((-2*a + b) / (2 * b))
}
