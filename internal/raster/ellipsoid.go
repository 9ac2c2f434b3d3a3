package raster

import (
	"math"

	"g3d-renderer/internal/mathutil"
	"g3d-renderer/internal/shade"
)

// ellipsoid shade cube: i and j span -20..19, k spans 0..39.
const (
	cubeHalf = 20
	cubeSize = 2 * cubeHalf
)

// RenderEllipsoid draws a shaded ellipsoid in the current colix centred at
// (x, y, z). axes are the three semi-axis vectors in screen units and
// must be mutually orthogonal. selectedOctant in 0..7 cuts that octant
// away and draws its three wall planes; any other value draws the whole
// surface. Octant bit i is set when the point lies on the negative side
// of axes[i].
func (r *Renderer) RenderEllipsoid(x, y, z int, axes [3]mathutil.Vec3, selectedOctant int) {
	if !r.frameOpen || r.state.shades == nil {
		return
	}
	var q mathutil.Mat3
	maxLen := 0.0
	for _, a := range axes {
		l2 := a.Len2()
		if l2 == 0 {
			return
		}
		q = q.Add(mathutil.OuterScaled(a, 1/(l2*l2)))
		maxLen = max(maxLen, math.Sqrt(l2))
	}
	var ext [3]float64
	for c := 0; c < 3; c++ {
		ext[c] = math.Sqrt(axes[0][c]*axes[0][c] + axes[1][c]*axes[1][c] + axes[2][c]*axes[2][c])
	}
	if float64(z)+ext[2] < float64(r.state.slab) || float64(z)-ext[2] > float64(r.state.depth) {
		return
	}
	xMin := max(x-int(math.Ceil(ext[0])), 0)
	xMax := min(x+int(math.Ceil(ext[0])), r.width-1)
	yMin := max(y-int(math.Ceil(ext[1])), 0)
	yMax := min(y+int(math.Ceil(ext[1])), r.height-1)
	if xMin > xMax || yMin > yMax {
		return
	}

	e := ellipsoidDraw{r: r, q: q, axes: axes, octant: -1, radius: maxLen}
	if selectedOctant >= 0 && selectedOctant < 8 {
		e.octant = selectedOctant
		e.wallShades(r.ctx.Lighting())
	}
	cube := r.ctx.ellipsoidCube()
	for py := yMin; py <= yMax; py++ {
		for px := xMin; px <= xMax; px++ {
			e.pixel(cube, px, py, x, y, z)
		}
	}
}

type ellipsoidDraw struct {
	r      *Renderer
	q      mathutil.Mat3
	axes   [3]mathutil.Vec3
	octant int
	radius float64
	walls  [3]int
}

// quadricZ solves the quadric for the two surface depths under pixel
// offset (dx, dy). ok is false outside the silhouette.
func (e *ellipsoidDraw) quadricZ(dx, dy float64) (front, back float64, ok bool) {
	q := e.q
	a := q.At(2, 2)
	b := q.At(0, 2)*dx + q.At(1, 2)*dy
	c := q.At(0, 0)*dx*dx + 2*q.At(0, 1)*dx*dy + q.At(1, 1)*dy*dy - 1
	disc := b*b - a*c
	if disc < 0 || a == 0 {
		return 0, 0, false
	}
	s := math.Sqrt(disc)
	return (-b - s) / a, (-b + s) / a, true
}

func (e *ellipsoidDraw) octantOf(p mathutil.Vec3) int {
	o := 0
	for i, a := range e.axes {
		if p.Dot(a) < 0 {
			o |= 1 << i
		}
	}
	return o
}

// wallShades computes the flat shade of each octant wall, facing the
// viewer.
func (e *ellipsoidDraw) wallShades(l shade.Lighting) {
	for i, a := range e.axes {
		n := a
		if e.octant&(1<<i) != 0 {
			n = n.Scale(-1)
		}
		// screen z grows away, lighting z toward the viewer
		lx, ly, lz := n[0], n[1], -n[2]
		if lz < 0 {
			lx, ly, lz = -lx, -ly, -lz
		}
		e.walls[i] = l.Intensity(lx, ly, lz)
	}
}

func (e *ellipsoidDraw) pixel(cube []uint8, px, py, x, y, z int) {
	r := e.r
	dx, dy := float64(px-x), float64(py-y)
	front, back, ok := e.quadricZ(dx, dy)
	if !ok {
		return
	}
	p := mathutil.Vec3{dx, dy, front}
	idx := -1
	if e.octant >= 0 && e.octantOf(p) == e.octant {
		t, wall, hit := e.cutAway(dx, dy, front, back)
		if !hit {
			return
		}
		front = t
		idx = e.walls[wall]
	}
	zPixel := z + int(math.Floor(front+0.5))
	if zPixel < r.state.slab {
		if float64(z)+back < float64(r.state.slab) {
			return
		}
		zPixel = r.state.slab
		idx = r.ctx.noise.Jitter(shade.SlabClipped)
	}
	if zPixel > r.state.depth {
		return
	}
	if idx < 0 {
		idx = e.surfaceShade(cube, p)
	}
	r.plot(px, py, zPixel, r.state.shades[idx])
}

// cutAway finds the nearest wall of the removed octant along the view ray
// that lies inside the ellipsoid.
func (e *ellipsoidDraw) cutAway(dx, dy, front, back float64) (float64, int, bool) {
	best, wall := math.Inf(1), -1
	for i, a := range e.axes {
		if a[2] == 0 {
			continue
		}
		t := -(a[0]*dx + a[1]*dy) / a[2]
		if t < front || t > back || t >= best {
			continue
		}
		q := mathutil.Vec3{dx, dy, t}
		inside := true
		for j, b := range e.axes {
			if j == i {
				continue
			}
			d := q.Dot(b)
			if (e.octant&(1<<j) != 0 && d > 0) || (e.octant&(1<<j) == 0 && d < 0) {
				inside = false
				break
			}
		}
		if inside {
			best, wall = t, i
		}
	}
	return best, wall, wall >= 0
}

// surfaceShade looks up the gradient normal at p in the shade cube,
// halving the vector until it fits and falling back to the closed form.
func (e *ellipsoidDraw) surfaceShade(cube []uint8, p mathutil.Vec3) int {
	n := e.q.MulVec3(p)
	lx, ly, lz := n[0], n[1], -n[2]
	mag := math.Sqrt(lx*lx + ly*ly + lz*lz)
	if mag == 0 {
		return shade.Normal
	}
	f := min(e.radius/2, 45) / mag
	i, j, k := int(lx*f), int(ly*f), int(lz*f)
	outside := func() bool {
		return i < -cubeHalf || i >= cubeHalf || j < -cubeHalf || j >= cubeHalf || k < 0 || k >= cubeSize
	}
	if outside() {
		for i%2 == 0 && j%2 == 0 && k%2 == 0 && i+j+k > 0 {
			i >>= 1
			j >>= 1
			k >>= 1
		}
		if outside() {
			return e.r.ctx.Lighting().DitheredIntensity(e.r.ctx.noise, lx, ly, lz, mag)
		}
	}
	return int(cube[((i+cubeHalf)*cubeSize+(j+cubeHalf))*cubeSize+k])
}

// ellipsoidCube returns the 40³ table of dithered shades indexed by a
// small integer normal.
func (c *Context) ellipsoidCube() []uint8 {
	if c.ellipsoidShades != nil {
		return c.ellipsoidShades
	}
	l := c.Shades.Lighting()
	cube := make([]uint8, cubeSize*cubeSize*cubeSize)
	for ii := 0; ii < cubeSize; ii++ {
		x := float64(ii - cubeHalf)
		for jj := 0; jj < cubeSize; jj++ {
			y := float64(jj - cubeHalf)
			for k := 0; k < cubeSize; k++ {
				z := float64(k)
				mag := math.Sqrt(x*x + y*y + z*z)
				cube[(ii*cubeSize+jj)*cubeSize+k] = uint8(l.DitheredIntensity(c.noise, x, y, z, mag))
			}
		}
	}
	c.ellipsoidShades = cube
	return cube
}
