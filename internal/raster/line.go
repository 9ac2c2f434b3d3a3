package raster

import (
	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/shade"
)

// lineEnd is the color of one half of a line. With shaded set the pixel
// color is drawn from paint.shades around intensity with ±1 noise.
type lineEnd struct {
	paint
	argb      uint32
	intensity int
	shaded    bool
}

type lineRasterizer struct {
	r *Renderer
}

// DrawLine draws a one-pixel line in colixA up to the midpoint and colixB
// after it. Halves whose colix does not draw in this pass are skipped.
func (r *Renderer) DrawLine(colixA, colixB colix.Colix, x1, y1, z1, x2, y2, z2 int) {
	r.drawLine(colixA, colixB, 0, 0, x1, y1, z1, x2, y2, z2)
}

// DrawDashedLine draws run pixels on and rise pixels off, repeating.
func (r *Renderer) DrawDashedLine(run, rise int, colixA, colixB colix.Colix, x1, y1, z1, x2, y2, z2 int) {
	if run <= 0 {
		return
	}
	r.drawLine(colixA, colixB, run, max(rise, 0), x1, y1, z1, x2, y2, z2)
}

// DrawDottedLine draws every other pixel.
func (r *Renderer) DrawDottedLine(colixA, colixB colix.Colix, x1, y1, z1, x2, y2, z2 int) {
	r.drawLine(colixA, colixB, 1, 1, x1, y1, z1, x2, y2, z2)
}

func (r *Renderer) drawLine(colixA, colixB colix.Colix, run, rise, x1, y1, z1, x2, y2, z2 int) {
	a := r.flatEnd(colixA)
	b := r.flatEnd(colixB)
	if !a.ok() && !b.ok() {
		return
	}
	saved := r.state
	r.lines.plot(a, b, run, rise, x1, y1, z1, x2, y2, z2)
	r.state = saved
}

func (r *Renderer) flatEnd(c colix.Colix) lineEnd {
	p := r.paintFor(c)
	if !p.ok() {
		return lineEnd{}
	}
	return lineEnd{paint: p, argb: p.shades[shade.Normal]}
}

// plot walks the segment with an integer DDA. Depth advances in 10-bit
// fixed point. The color switches where the walk passes the midpoint of
// the segment as given, so clipping does not move the switch.
func (l *lineRasterizer) plot(a, b lineEnd, run, rise, x1, y1, z1, x2, y2, z2 int) {
	r := l.r
	if x1 == x2 && y1 == y2 {
		end := a
		if !end.ok() {
			end = b
		}
		if r.isClipped(x1, y1, min(z1, z2)) {
			return
		}
		r.use(end.paint)
		r.pixel(y1*r.width+x1, min(z1, z2), l.color(end))
		return
	}

	dxAll, dyAll := x2-x1, y2-y1
	xMajor := abs(dxAll) >= abs(dyAll)
	mid2 := x1 + x2
	dirMajor := sign(dxAll)
	if !xMajor {
		mid2 = y1 + y2
		dirMajor = sign(dyAll)
	}

	cc1, cc2 := r.clipCode(x1, y1, z1), r.clipCode(x2, y2, z2)
	clipped := cc1|cc2 != 0
	if clipped {
		if cc1&cc2 != 0 {
			return
		}
		var ok bool
		if x1, y1, z1, x2, y2, z2, ok = r.clipLine(x1, y1, z1, x2, y2, z2); !ok {
			return
		}
	}

	dx, dy, dz := x2-x1, y2-y1, z2-z1
	xInc, yInc := sign(dx), sign(dy)
	adx, ady := abs(dx), abs(dy)
	n := max(adx, ady)
	zFP := z1<<10 + 1<<9
	zInc := 0
	if n > 0 {
		zInc = (dz << 10) / n
	}

	period := run + rise
	flip := (x1^y1)&1 == 0
	current := -1 // 0 = a, 1 = b
	x, y := x1, y1
	errAcc := 0
	for i := 0; i <= n; i++ {
		major := x
		if !xMajor {
			major = y
		}
		half := 0
		if (2*major-mid2)*dirMajor >= 0 {
			half = 1
		}
		end := a
		if half == 1 {
			end = b
		}
		visible := end.ok() && (period == 0 || i%period < run)
		if visible && end.screened && !flip {
			visible = false
		}
		if visible {
			z := zFP >> 10
			if !clipped || !r.isClipped(x, y, z) {
				if half != current {
					r.use(end.paint)
					current = half
				}
				r.pixel(y*r.width+x, z, l.color(end))
			}
		}
		flip = !flip
		zFP += zInc
		if adx >= ady {
			x += xInc
			errAcc += 2 * ady
			if errAcc > adx {
				y += yInc
				errAcc -= 2 * adx
			}
		} else {
			y += yInc
			errAcc += 2 * adx
			if errAcc > ady {
				x += xInc
				errAcc -= 2 * ady
			}
		}
	}
}

func (l *lineRasterizer) color(end lineEnd) uint32 {
	if !end.shaded {
		return end.argb
	}
	i := end.intensity
	switch n := l.r.ctx.noise.Next8(); {
	case n < 85 && i > 0:
		i--
	case n > 170 && i < shade.Last:
		i++
	}
	return end.shades[i]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
