package raster

import (
	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/normix"
)

// Point3i is a screen-space point.
type Point3i struct {
	X, Y, Z int
}

// triangleZMargin is the translucent z margin in effect while filling, so
// neighbouring triangles of one surface do not blend twice along shared
// edges.
const triangleZMargin = 5

type triangleRasterizer struct {
	r *Renderer

	x, y, z [3]int
	colors  [3]rgb16

	// edge tables hold rows lo..hi of the triangle, the visible ones
	lo, hi         int
	xW, zW, xE, zE []int
	gW, gE         []rgb16
}

// FillTriangle fills abc in the current colix with Gouraud shading from
// per-vertex normixes. Equal normixes fill flat.
func (r *Renderer) FillTriangle(a, b, c Point3i, na, nb, nc normix.Normix) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	t := r.ctx.Normix
	if na == nb && nb == nc {
		r.state.setIntensity(t.Intensity(na))
		r.triangles.fill(a, b, c, false)
		return
	}
	s := r.state.shades
	r.triangles.colors = [3]rgb16{
		rgb16From(s[t.Intensity(na)]),
		rgb16From(s[t.Intensity(nb)]),
		rgb16From(s[t.Intensity(nc)]),
	}
	r.triangles.fill(a, b, c, true)
}

// FillTriangleFlat fills abc with the single shade of n.
func (r *Renderer) FillTriangleFlat(a, b, c Point3i, n normix.Normix) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	r.state.setIntensity(r.ctx.Normix.Intensity(n))
	r.triangles.fill(a, b, c, false)
}

// FillTriangleScreen fills abc flat, shaded by its screen-space normal
// turned toward the viewer.
func (r *Renderer) FillTriangleScreen(a, b, c Point3i) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	r.state.setIntensity(r.screenIntensity(a, b, c))
	r.triangles.fill(a, b, c, false)
}

// FillTriangleColix fills abc with per-vertex colixes and normixes. The
// pass is decided by colix a; vertices whose colix does not draw in this
// pass borrow a's shades.
func (r *Renderer) FillTriangleColix(a Point3i, ca colix.Colix, na normix.Normix,
	b Point3i, cb colix.Colix, nb normix.Normix, c Point3i, cc colix.Colix, nc normix.Normix) {
	if !r.SetColix(ca) {
		return
	}
	t := r.ctx.Normix
	shadesOf := func(cx colix.Colix) []uint32 {
		if cx == ca || !cx.IsSet() {
			return r.state.shades
		}
		return r.ctx.Shades.Shades(cx)
	}
	r.triangles.colors = [3]rgb16{
		rgb16From(r.state.shades[t.Intensity(na)]),
		rgb16From(shadesOf(cb)[t.Intensity(nb)]),
		rgb16From(shadesOf(cc)[t.Intensity(nc)]),
	}
	r.triangles.fill(a, b, c, true)
}

// DrawTriangle outlines abc in the current colix.
func (r *Renderer) DrawTriangle(c colix.Colix, a, b, d Point3i) {
	r.DrawLine(c, c, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	r.DrawLine(c, c, b.X, b.Y, b.Z, d.X, d.Y, d.Z)
	r.DrawLine(c, c, d.X, d.Y, d.Z, a.X, a.Y, a.Z)
}

// FillQuadrilateral fills abcd as the triangles abc and acd, each shaded
// by its screen normal.
func (r *Renderer) FillQuadrilateral(a, b, c, d Point3i) {
	r.FillTriangleScreen(a, b, c)
	r.FillTriangleScreen(a, c, d)
}

// DrawQuadrilateral outlines abcd.
func (r *Renderer) DrawQuadrilateral(cx colix.Colix, a, b, c, d Point3i) {
	r.DrawLine(cx, cx, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	r.DrawLine(cx, cx, b.X, b.Y, b.Z, c.X, c.Y, c.Z)
	r.DrawLine(cx, cx, c.X, c.Y, c.Z, d.X, d.Y, d.Z)
	r.DrawLine(cx, cx, d.X, d.Y, d.Z, a.X, a.Y, a.Z)
}

func (r *Renderer) screenIntensity(a, b, c Point3i) int {
	v1x, v1y, v1z := float64(b.X-a.X), float64(b.Y-a.Y), float64(b.Z-a.Z)
	v2x, v2y, v2z := float64(c.X-a.X), float64(c.Y-a.Y), float64(c.Z-a.Z)
	nx := v1y*v2z - v1z*v2y
	ny := v1z*v2x - v1x*v2z
	nz := v1x*v2y - v1y*v2x
	// lighting z points at the viewer
	nz = -nz
	if nz < 0 {
		nx, ny, nz = -nx, -ny, -nz
	}
	return r.ctx.Lighting().Intensity(nx, ny, nz)
}

// fill rasterizes the triangle by building a west and an east edge table
// over its rows and filling the span between them on each row.
func (t *triangleRasterizer) fill(a, b, c Point3i, gouraud bool) {
	r := t.r
	cc0 := r.clipCode(a.X, a.Y, a.Z)
	cc1 := r.clipCode(b.X, b.Y, b.Z)
	cc2 := r.clipCode(c.X, c.Y, c.Z)
	if cc0&cc1&cc2 != 0 {
		return
	}
	clipped := cc0|cc1|cc2 != 0
	t.x = [3]int{a.X, b.X, c.X}
	t.y = [3]int{a.Y, b.Y, c.Y}
	t.z = [3]int{a.Z, b.Z, c.Z}

	iMin, iMid, iMax := 0, 1, 2
	if t.y[iMin] > t.y[iMid] {
		iMin, iMid = iMid, iMin
	}
	if t.y[iMid] > t.y[iMax] {
		iMid, iMax = iMax, iMid
	}
	if t.y[iMin] > t.y[iMid] {
		iMin, iMid = iMid, iMin
	}
	yMin, yMid, yMax := t.y[iMin], t.y[iMid], t.y[iMax]
	nLines := yMax - yMin + 1
	t.lo = max(0, -yMin)
	t.hi = min(nLines-1, r.height-1-yMin)
	if t.lo > t.hi {
		return
	}
	t.ensure(t.hi-t.lo+1, gouraud)

	switch {
	case yMin == yMid:
		if t.x[iMid] < t.x[iMin] {
			iMin, iMid = iMid, iMin
		}
		t.edge(iMin, iMax, nLines, 0, t.xW, t.zW, t.gW, gouraud)
		t.edge(iMid, iMax, nLines, 0, t.xE, t.zE, t.gE, gouraud)
	case yMid == yMax:
		if t.x[iMax] < t.x[iMid] {
			iMid, iMax = iMax, iMid
		}
		t.edge(iMin, iMid, nLines, 0, t.xW, t.zW, t.gW, gouraud)
		t.edge(iMin, iMax, nLines, 0, t.xE, t.zE, t.gE, gouraud)
	default:
		dyMid := yMid - yMin
		xSplit := t.x[iMin] + roundDiv((t.x[iMax]-t.x[iMin])*dyMid, yMax-yMin)
		if xSplit < t.x[iMid] {
			t.edge(iMin, iMax, nLines, 0, t.xW, t.zW, t.gW, gouraud)
			t.edge(iMin, iMid, dyMid+1, 0, t.xE, t.zE, t.gE, gouraud)
			t.edge(iMid, iMax, nLines-dyMid, dyMid, t.xE, t.zE, t.gE, gouraud)
		} else {
			t.edge(iMin, iMid, dyMid+1, 0, t.xW, t.zW, t.gW, gouraud)
			t.edge(iMid, iMax, nLines-dyMid, dyMid, t.xW, t.zW, t.gW, gouraud)
			t.edge(iMin, iMax, nLines, 0, t.xE, t.zE, t.gE, gouraud)
		}
	}

	margin := r.state.zMargin
	r.state.zMargin = triangleZMargin
	t.spans(yMin, gouraud, clipped)
	r.state.zMargin = margin
}

func (t *triangleRasterizer) ensure(n int, gouraud bool) {
	if len(t.xW) < n {
		t.xW = make([]int, n)
		t.zW = make([]int, n)
		t.xE = make([]int, n)
		t.zE = make([]int, n)
	}
	if gouraud && len(t.gW) < n {
		t.gW = make([]rgb16, n)
		t.gE = make([]rgb16, n)
	}
}

// edge writes lines rows of the edge from vertex iN down to vertex iS
// starting at row start, keeping only rows lo..hi. Positions are derived
// from the end points alone, so edges shared by two triangles rasterize
// identically.
func (t *triangleRasterizer) edge(iN, iS, lines, start int, xs, zs []int, gs []rgb16, gouraud bool) {
	xN, zN := t.x[iN], t.z[iN]
	dx, dz := t.x[iS]-xN, t.z[iS]-zN
	dy := t.y[iS] - t.y[iN]
	kFrom := max(0, t.lo-start)
	kTo := min(lines, t.hi-start+1)
	for k := kFrom; k < kTo; k++ {
		row := start + k - t.lo
		xs[row] = xN + roundDiv(dx*k, dy)
		zs[row] = zN + roundDiv(dz*k, dy)
		if gouraud {
			gs[row] = t.colors[iN].lerp(t.colors[iS], k, dy)
		}
	}
}

func (t *triangleRasterizer) spans(yMin int, gouraud, clipped bool) {
	for i := 0; i <= t.hi-t.lo; i++ {
		y := yMin + t.lo + i
		xW, xE, zW, zE := t.xW[i], t.xE[i], t.zW[i], t.zE[i]
		var gW, gE rgb16
		if gouraud {
			gW, gE = t.gW[i], t.gE[i]
		}
		if xW > xE {
			xW, xE, zW, zE, gW, gE = xE, xW, zE, zW, gE, gW
		}
		t.span(xW, xE, y, zW, zE, gW, gE, gouraud, clipped)
	}
}

// span fills [xW, xE] on row y, interpolating depth in 10-bit fixed point
// and color in 16.8.
func (t *triangleRasterizer) span(xW, xE, y, zW, zE int, gW, gE rgb16, gouraud, clipped bool) {
	r := t.r
	count := xE - xW
	zFP := zW<<10 + 1<<9
	zInc := 0
	var gInc rgb16
	if count > 0 {
		zInc = ((zE - zW) << 10) / count
		if gouraud {
			gInc = gW.step(gE, count)
		}
	}
	g := gW
	if clipped {
		if xW < 0 {
			zFP += zInc * -xW
			g = g.addN(gInc, -xW)
			xW = 0
		}
		xE = min(xE, r.width-1)
	}
	noise := r.ctx.noise
	for x := xW; x <= xE; x++ {
		z := zFP >> 10
		if !clipped || !r.isClipped(x, y, z) {
			var argb uint32
			switch {
			case gouraud:
				argb = g.argb()
			default:
				switch n := noise.Next8(); {
				case n < 64:
					argb = r.state.argbNoisyDn
				case n > 191:
					argb = r.state.argbNoisyUp
				default:
					argb = r.state.argb
				}
			}
			r.plot(x, y, z, argb)
		}
		zFP += zInc
		g = g.add(gInc)
	}
}
