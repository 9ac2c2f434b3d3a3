package raster

import (
	"math"

	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/shade"
)

// Endcap selects how the ends of a cylinder or the base of a cone are
// closed.
type Endcap int

const (
	EndcapNone Endcap = iota
	EndcapOpen
	EndcapFlat
	EndcapSpherical
	EndcapOpenEnd
)

func (e Endcap) String() string {
	switch e {
	case EndcapOpen:
		return "open"
	case EndcapFlat:
		return "flat"
	case EndcapSpherical:
		return "spherical"
	case EndcapOpenEnd:
		return "openend"
	}
	return "none"
}

// ParseEndcap maps a name from String back to an Endcap. Unknown names
// give EndcapNone.
func ParseEndcap(s string) Endcap {
	for e := EndcapNone; e <= EndcapOpenEnd; e++ {
		if e.String() == s {
			return e
		}
	}
	return EndcapNone
}

// maxRasterDepth caps the bisection of the cross-section.
const maxRasterDepth = 16

// rasterPoint is one sample of the front half of the cross-section,
// relative to the axis. z is the height toward the viewer.
type rasterPoint struct {
	t       float64
	x, y, z int
	fp8     int
	fp8Back int
}

type cylinderRasterizer struct {
	r *Renderer

	radius, radius2          float64
	cosTheta, cosPhi, sinPhi float64
	even                     bool

	points         []rasterPoint
	work           []rasterSpan
	rowMin, rowMax []int
}

type rasterSpan struct{ lo, hi, depth int }

// FillCylinder draws a shaded cylinder from A to B, colixA on the A half
// and colixB on the B half. Diameters of one pixel or less draw a plain
// line.
func (r *Renderer) FillCylinder(colixA, colixB colix.Colix, endcaps Endcap, diameter int,
	xA, yA, zA, xB, yB, zB int) {
	if !r.frameOpen || diameter <= 0 {
		return
	}
	rr := diameter/2 + 1
	codeMinA := r.clipCode(xA-rr, yA-rr, zA-rr)
	codeMaxA := r.clipCode(xA+rr, yA+rr, zA+rr)
	codeMinB := r.clipCode(xB-rr, yB-rr, zB-rr)
	codeMaxB := r.clipCode(xB+rr, yB+rr, zB+rr)
	if codeMinA&codeMaxA&codeMinB&codeMaxB != 0 {
		return
	}
	if diameter <= 1 {
		r.DrawLine(colixA, colixB, xA, yA, zA, xB, yB, zB)
		return
	}
	clipped := (codeMinA | codeMaxA | codeMinB | codeMaxB) != 0
	a := r.paintFor(colixA)
	b := r.paintFor(colixB)
	if !a.ok() && !b.ok() {
		return
	}
	saved := r.state
	defer func() { r.state = saved }()
	c := &r.cylinders
	dx, dy, dz := xB-xA, yB-yA, zB-zA
	c.generate(diameter, dx, dy, dz)
	backside := clipped || endcaps != EndcapSpherical
	if endcaps == EndcapFlat {
		c.flatCap(a, b, xA, yA, zA, dx, dy, dz)
	}
	for _, p := range c.points {
		c.line(a, b, p.fp8, xA+p.x, yA+p.y, zA-p.z, dx, dy, dz)
		if backside {
			c.line(a, b, p.fp8Back, xA-p.x, yA-p.y, zA+p.z, dx, dy, dz)
		}
	}
	switch endcaps {
	case EndcapOpen, EndcapOpenEnd:
		c.rim(a, b, endcaps == EndcapOpenEnd, xA, yA, zA, dx, dy, dz)
	case EndcapSpherical:
		if a.ok() {
			r.SetColix(colixA)
			r.FillSphere(diameter, xA, yA, zA)
		}
		if b.ok() {
			r.SetColix(colixB)
			r.FillSphere(diameter, xB, yB, zB)
		}
	}
}

// FillCone draws a shaded cone from a base of the given diameter at A to
// an apex at the tip. filled thickens the surface with three parallel
// edges per sample.
func (r *Renderer) FillCone(c colix.Colix, endcap Endcap, diameter int,
	xA, yA, zA, xTip, yTip, zTip int, filled bool) {
	if !r.frameOpen || diameter <= 0 {
		return
	}
	rr := diameter/2 + 1
	codeMin := r.clipCode(xA-rr, yA-rr, zA-rr)
	codeMax := r.clipCode(xA+rr, yA+rr, zA+rr)
	codeTip := r.clipCode(xTip, yTip, zTip)
	if codeMin&codeMax&codeTip != 0 {
		return
	}
	if diameter <= 1 {
		r.DrawLine(c, c, xA, yA, zA, xTip, yTip, zTip)
		return
	}
	p := r.paintFor(c)
	if !p.ok() {
		return
	}
	saved := r.state
	defer func() { r.state = saved }()
	clipped := (codeMin | codeMax | codeTip) != 0
	cyl := &r.cylinders
	dx, dy, dz := xTip-xA, yTip-yA, zTip-zA
	cyl.generate(diameter, dx, dy, dz)
	if endcap == EndcapFlat {
		cyl.flatCap(p, p, xA, yA, zA, dx, dy, dz)
	}
	backside := clipped || endcap != EndcapSpherical
	offsets := [][2]int{{0, 0}}
	if filled {
		offsets = [][2]int{{0, 0}, {1, 0}, {0, 1}}
	}
	for _, pt := range cyl.points {
		for _, o := range offsets {
			x0, y0, z0 := xA+pt.x+o[0], yA+pt.y+o[1], zA-pt.z
			cyl.cone(p, pt.fp8, x0, y0, z0, xTip+o[0], yTip+o[1], zTip)
			if backside {
				x0, y0, z0 = xA-pt.x+o[0], yA-pt.y+o[1], zA+pt.z
				cyl.cone(p, pt.fp8Back, x0, y0, z0, xTip+o[0], yTip+o[1], zTip)
			}
		}
	}
}

func shadedEnd(p paint, fp8 int) lineEnd {
	if !p.ok() {
		return lineEnd{}
	}
	return lineEnd{paint: p, intensity: min(max(fp8>>8, 0), shade.Last), shaded: true}
}

func (c *cylinderRasterizer) line(a, b paint, fp8, x, y, z, dx, dy, dz int) {
	c.r.lines.plot(shadedEnd(a, fp8), shadedEnd(b, fp8), 0, 0, x, y, z, x+dx, y+dy, z+dz)
}

func (c *cylinderRasterizer) cone(p paint, fp8, x, y, z, xTip, yTip, zTip int) {
	e := shadedEnd(p, fp8)
	c.r.lines.plot(e, e, 0, 0, x, y, z, xTip, yTip, zTip)
}

// generate samples the cross-section of a cylinder with axis (dx, dy, dz)
// into c.points: t=0, 0.5, 1 and then bisection until neighbouring
// samples touch.
func (c *cylinderRasterizer) generate(diameter, dx, dy, dz int) {
	c.radius = float64(diameter) / 2
	c.radius2 = c.radius * c.radius
	c.even = diameter&1 == 0
	mag2d := math.Sqrt(float64(dx*dx + dy*dy))
	mag3d := math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	if mag3d == 0 {
		c.cosTheta, c.cosPhi, c.sinPhi = 1, 1, 0
	} else if mag2d == 0 {
		c.cosTheta, c.cosPhi, c.sinPhi = float64(dz)/mag3d, 1, 0
	} else {
		c.cosTheta = float64(dz) / mag3d
		c.cosPhi = float64(dx) / mag2d
		c.sinPhi = float64(dy) / mag2d
	}

	c.points = c.points[:0]
	c.points = append(c.points, c.rotated(0), c.rotated(0.5), c.rotated(1))
	c.work = append(c.work[:0], rasterSpan{1, 2, 0}, rasterSpan{0, 1, 0})
	for len(c.work) > 0 {
		s := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]
		c.bisect(s)
	}
}

// bisect refines one span. A midpoint landing on an end pixel is folded
// into that end by averaging its intensity; a midpoint on a new pixel
// splits the span in two.
func (c *cylinderRasterizer) bisect(s rasterSpan) {
	lo, hi := c.points[s.lo], c.points[s.hi]
	if abs(hi.x-lo.x)+abs(hi.y-lo.y) <= 1 {
		return
	}
	tLo, tHi := lo.t, hi.t
	for iter := 0; iter < 4; iter++ {
		mid := c.rotated((tLo + tHi) / 2)
		lo, hi = c.points[s.lo], c.points[s.hi]
		switch {
		case mid.x == lo.x && mid.y == lo.y:
			c.points[s.lo].fp8 = (lo.fp8 + mid.fp8) / 2
			c.points[s.lo].fp8Back = (lo.fp8Back + mid.fp8Back) / 2
			tLo = mid.t
		case mid.x == hi.x && mid.y == hi.y:
			c.points[s.hi].fp8 = (hi.fp8 + mid.fp8) / 2
			c.points[s.hi].fp8Back = (hi.fp8Back + mid.fp8Back) / 2
			tHi = mid.t
		default:
			c.points = append(c.points, mid)
			m := len(c.points) - 1
			if s.depth < maxRasterDepth {
				c.work = append(c.work, rasterSpan{m, s.hi, s.depth + 1}, rasterSpan{s.lo, m, s.depth + 1})
			}
			return
		}
	}
	// the ends are diagonal neighbours: fill the corner
	corner := c.rotated((tLo + tHi) / 2)
	corner.x, corner.y = lo.x, hi.y
	c.points = append(c.points, corner)
}

// rotated returns the cross-section sample at parameter t in [0, 1],
// sweeping the half facing the viewer.
func (c *cylinderRasterizer) rotated(t float64) rasterPoint {
	sinT, cosT := math.Sincos(t * math.Pi)
	xT := sinT * c.cosTheta
	yT := cosT
	xR := c.radius * (xT*c.cosPhi - yT*c.sinPhi)
	yR := c.radius * (xT*c.sinPhi + yT*c.cosPhi)
	zR := 0.0
	if z2 := c.radius2 - (xR*xR + yR*yR); z2 > 0 {
		zR = math.Sqrt(z2)
	}
	l := c.lighting()
	p := rasterPoint{
		t:       t,
		fp8:     l.Fp8Intensity(xR, yR, zR),
		fp8Back: l.Fp8Intensity(-xR, -yR, zR),
	}
	if c.even {
		xR -= 0.5
		yR -= 0.5
	}
	p.x = int(math.Floor(xR))
	p.y = int(math.Floor(yR))
	p.z = int(math.Floor(zR + 0.5))
	return p
}

func (c *cylinderRasterizer) lighting() shade.Lighting { return c.r.ctx.Lighting() }

// capEnd picks the end whose outward face points at the viewer.
func capEnd(a, b paint, xA, yA, zA, dx, dy, dz int) (paint, int, int, int, float64, bool) {
	if dz == 0 {
		return paint{}, 0, 0, 0, 0, false
	}
	if dz > 0 {
		return a, xA, yA, zA, -1, true
	}
	return b, xA + dx, yA + dy, zA + dz, 1, true
}

// flatCap fills the visible end disk row by row between the outermost
// cross-section samples, with depth taken from the cap plane.
func (c *cylinderRasterizer) flatCap(a, b paint, xA, yA, zA, dx, dy, dz int) {
	p, xT, yT, zT, s, ok := capEnd(a, b, xA, yA, zA, dx, dy, dz)
	if !ok || !p.ok() {
		return
	}
	r := c.r
	l := c.lighting()
	// outward normal s*axis, screen z flipped for lighting
	argb := p.shades[l.Intensity(s*float64(dx), s*float64(dy), -s*float64(dz))]
	rows := 2*int(c.radius) + 4
	yBase := -rows / 2
	c.rowMin = resizeInts(c.rowMin, rows, math.MaxInt)
	c.rowMax = resizeInts(c.rowMax, rows, math.MinInt)
	mark := func(x, y int) {
		i := y - yBase
		if i < 0 || i >= rows {
			return
		}
		c.rowMin[i] = min(c.rowMin[i], x)
		c.rowMax[i] = max(c.rowMax[i], x)
	}
	for _, pt := range c.points {
		mark(pt.x, pt.y)
		mark(-pt.x, -pt.y)
	}
	r.use(p)
	for i := 0; i < rows; i++ {
		if c.rowMin[i] > c.rowMax[i] {
			continue
		}
		y := yT + yBase + i
		for x := xT + c.rowMin[i]; x <= xT+c.rowMax[i]; x++ {
			z := zT - roundDiv(dx*(x-xT)+dy*(y-yT), dz)
			r.plotClipped(x, y, z, argb)
		}
	}
}

// rim outlines the visible open end. interiorOnly keeps the far half of
// the rim, which is what shows through an open end.
func (c *cylinderRasterizer) rim(a, b paint, interiorOnly bool, xA, yA, zA, dx, dy, dz int) {
	p, xT, yT, zT, _, ok := capEnd(a, b, xA, yA, zA, dx, dy, dz)
	if !ok || !p.ok() {
		return
	}
	r := c.r
	r.use(p)
	argb := p.shades[shade.Normal/2]
	for _, pt := range c.points {
		if !interiorOnly {
			r.plotClipped(xT+pt.x, yT+pt.y, zT-pt.z-1, argb)
		}
		r.plotClipped(xT-pt.x, yT-pt.y, zT+pt.z-1, argb)
	}
}

func resizeInts(s []int, n, fill int) []int {
	if cap(s) < n {
		s = make([]int, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = fill
	}
	return s
}
