package raster

import (
	"math"

	"g3d-renderer/internal/mathutil"
)

// hermiteStackSize bounds the subdivision of one segment.
const hermiteStackSize = 16

type hermiteRasterizer struct {
	r *Renderer

	stack []hermiteSpan
}

// hermiteSpan is a parameter interval with the curve points at its ends,
// one pair per strand.
type hermiteSpan struct {
	s0, s1 float64
	a0, a1 Point3i
	b0, b1 Point3i
}

// hermiteCurve evaluates the segment p1..p2 of a Catmull-Rom style
// Hermite spline whose tangents come from p0 and p3 scaled by tension/8.
type hermiteCurve struct {
	p1, p2 mathutil.Vec3
	t1, t2 mathutil.Vec3
}

func newHermiteCurve(tension int, p [4]Point3i) hermiteCurve {
	f := float64(tension) / 8
	v := func(q Point3i) mathutil.Vec3 { return mathutil.Vec3{float64(q.X), float64(q.Y), float64(q.Z)} }
	return hermiteCurve{
		p1: v(p[1]),
		p2: v(p[2]),
		t1: v(p[2]).Sub(v(p[0])).Scale(f),
		t2: v(p[3]).Sub(v(p[1])).Scale(f),
	}
}

func (h hermiteCurve) at(s float64) Point3i {
	s2 := s * s
	s3 := s2 * s
	h1 := 2*s3 - 3*s2 + 1
	h2 := -2*s3 + 3*s2
	h3 := s3 - 2*s2 + s
	h4 := s3 - s2
	p := h.p1.Scale(h1).Add(h.p2.Scale(h2)).Add(h.t1.Scale(h3)).Add(h.t2.Scale(h4))
	return Point3i{round(p[0]), round(p[1]), round(p[2])}
}

func round(v float64) int { return int(math.Floor(v + 0.5)) }

func adjacent(a, b Point3i) bool {
	return abs(a.X-b.X) <= 1 && abs(a.Y-b.Y) <= 1
}

// walk subdivides the parameter range of one or two curves until the
// points of every strand touch, calling emit for each finished interval
// in order of increasing s.
func (h *hermiteRasterizer) walk(a, b hermiteCurve, twoStrands bool, emit func(hermiteSpan)) {
	h.stack = append(h.stack[:0], hermiteSpan{
		s0: 0, s1: 1,
		a0: a.at(0), a1: a.at(1),
		b0: b.at(0), b1: b.at(1),
	})
	for len(h.stack) > 0 {
		top := h.stack[len(h.stack)-1]
		done := adjacent(top.a0, top.a1) && (!twoStrands || adjacent(top.b0, top.b1))
		if done || len(h.stack) >= hermiteStackSize {
			h.stack = h.stack[:len(h.stack)-1]
			emit(top)
			continue
		}
		sMid := (top.s0 + top.s1) / 2
		aMid := a.at(sMid)
		var bMid Point3i
		if twoStrands {
			bMid = b.at(sMid)
		}
		// replace top by its two halves, first half on top
		h.stack[len(h.stack)-1] = hermiteSpan{s0: sMid, s1: top.s1, a0: aMid, a1: top.a1, b0: bMid, b1: top.b1}
		h.stack = append(h.stack, hermiteSpan{s0: top.s0, s1: sMid, a0: top.a0, a1: aMid, b0: top.b0, b1: bMid})
	}
}

// DrawHermite plots the curve from p[1] to p[2] as pixels in the current
// colix.
func (r *Renderer) DrawHermite(tension int, p [4]Point3i) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	if r.isClippedZ(p[1].Z) || r.isClippedZ(p[2].Z) {
		return
	}
	c := newHermiteCurve(tension, p)
	argb := r.state.argb
	r.plotClipped(p[1].X, p[1].Y, p[1].Z, argb)
	r.hermites.walk(c, c, false, func(s hermiteSpan) {
		r.plotClipped(s.a1.X, s.a1.Y, s.a1.Z, argb)
	})
}

// FillHermite draws the curve from p[1] to p[2] as a rope of spheres whose
// diameter goes from dBeg through dMid at the middle to dEnd.
func (r *Renderer) FillHermite(tension, dBeg, dMid, dEnd int, p [4]Point3i) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	if r.isClippedZ(p[1].Z) || r.isClippedZ(p[2].Z) {
		return
	}
	c := newHermiteCurve(tension, p)
	diameterAt := func(s float64) int {
		if s < 0.5 {
			return dBeg + round(float64(dMid-dBeg)*s*2)
		}
		return dMid + round(float64(dEnd-dMid)*(s-0.5)*2)
	}
	r.FillSphere(dBeg, p[1].X, p[1].Y, p[1].Z)
	r.hermites.walk(c, c, false, func(s hermiteSpan) {
		r.FillSphere(diameterAt(s.s1), s.a1.X, s.a1.Y, s.a1.Z)
	})
}

// DrawHermiteRibbon outlines the ribbon between the strands top and
// bottom: both edge curves plus the lines closing its ends.
func (r *Renderer) DrawHermiteRibbon(tension int, top, bottom [4]Point3i) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	if r.isClippedZ(top[1].Z) || r.isClippedZ(top[2].Z) {
		return
	}
	r.DrawHermite(tension, top)
	r.DrawHermite(tension, bottom)
	c := r.state.colix
	r.DrawLine(c, c, top[1].X, top[1].Y, top[1].Z, bottom[1].X, bottom[1].Y, bottom[1].Z)
	r.DrawLine(c, c, top[2].X, top[2].Y, top[2].Z, bottom[2].X, bottom[2].Y, bottom[2].Z)
}

// FillHermiteRibbon fills the surface between the strands top and bottom
// with screen-shaded quadrilaterals. border darkens the two edges. A
// positive aspectRatio extrudes the ribbon into a slab whose thickness is
// that fraction of its width.
func (r *Renderer) FillHermiteRibbon(tension int, top, bottom [4]Point3i, border bool, aspectRatio float64) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	if r.isClippedZ(top[1].Z) || r.isClippedZ(top[2].Z) {
		return
	}
	a := newHermiteCurve(tension, top)
	b := newHermiteCurve(tension, bottom)
	edge := r.state.shades[max(r.state.intensity-20, 0)]
	var normal mathutil.Vec3
	r.hermites.walk(a, b, true, func(s hermiteSpan) {
		if aspectRatio > 0 {
			normal = extrusion(s, aspectRatio, normal)
			r.fillSlab(s, normal)
		} else {
			r.FillQuadrilateral(s.a0, s.a1, s.b1, s.b0)
		}
		if border {
			r.lines.plot(lineEnd{paint: r.currentPaint(), argb: edge}, lineEnd{paint: r.currentPaint(), argb: edge},
				0, 0, s.a0.X, s.a0.Y, s.a0.Z, s.a1.X, s.a1.Y, s.a1.Z)
			r.lines.plot(lineEnd{paint: r.currentPaint(), argb: edge}, lineEnd{paint: r.currentPaint(), argb: edge},
				0, 0, s.b0.X, s.b0.Y, s.b0.Z, s.b1.X, s.b1.Y, s.b1.Z)
		}
	})
}

func (r *Renderer) currentPaint() paint {
	return paint{shades: r.state.shades, level: r.state.level, screened: r.state.screened}
}

// extrusion returns half the slab thickness along the ribbon normal of
// span s. Degenerate spans keep the previous normal.
func extrusion(s hermiteSpan, aspectRatio float64, prev mathutil.Vec3) mathutil.Vec3 {
	v := func(q Point3i) mathutil.Vec3 { return mathutil.Vec3{float64(q.X), float64(q.Y), float64(q.Z)} }
	along := v(s.a1).Sub(v(s.a0))
	if along.Len2() == 0 {
		along = v(s.b1).Sub(v(s.b0))
	}
	across := v(s.b0).Sub(v(s.a0))
	n := along.Cross(across)
	if n.Len2() == 0 {
		return prev
	}
	return n.Normalize().Scale(across.Len() * aspectRatio / 2)
}

// fillSlab draws the two faces and two sides of one extruded span.
func (r *Renderer) fillSlab(s hermiteSpan, n mathutil.Vec3) {
	off := Point3i{round(n[0]), round(n[1]), round(n[2])}
	up := func(p Point3i) Point3i { return Point3i{p.X + off.X, p.Y + off.Y, p.Z + off.Z} }
	dn := func(p Point3i) Point3i { return Point3i{p.X - off.X, p.Y - off.Y, p.Z - off.Z} }
	r.FillQuadrilateral(up(s.a0), up(s.a1), up(s.b1), up(s.b0))
	r.FillQuadrilateral(dn(s.a0), dn(s.a1), dn(s.b1), dn(s.b0))
	r.FillQuadrilateral(up(s.a0), up(s.a1), dn(s.a1), dn(s.a0))
	r.FillQuadrilateral(up(s.b0), up(s.b1), dn(s.b1), dn(s.b0))
}
