package raster

import (
	"math"

	"g3d-renderer/internal/shade"
)

type sphereRasterizer struct {
	r *Renderer
}

// FillSphere draws a shaded sphere in the current colix. Odd diameters
// are centred on (x, y); even ones on (x-0.5, y-0.5). Where the sphere
// crosses the near plane its cut face is drawn as a flat dithered disk.
func (r *Renderer) FillSphere(diameter, x, y, z int) {
	if !r.frameOpen || r.state.shades == nil || diameter <= 0 {
		return
	}
	if diameter == 1 {
		r.plotClipped(x, y, z, r.state.argb)
		return
	}
	r.spheres.render(diameter, x, y, z)
}

func (s *sphereRasterizer) render(diameter, x, y, z int) {
	r := s.r
	radius := (diameter + 1) / 2
	if r.isClippedBox(diameter, x, y) || z-radius > r.state.depth || z+radius < r.state.slab {
		return
	}
	clippedXY := x-radius < 0 || x+radius >= r.width || y-radius < 0 || y+radius >= r.height
	if diameter <= maxCachedSphere && z-radius >= r.state.slab {
		shape := r.ctx.sphereShape(diameter)
		if clippedXY || z > r.state.depth {
			s.shapeClipped(shape, diameter, x, y, z)
		} else {
			s.shapeUnclipped(shape, diameter, x, y, z)
		}
		return
	}
	s.large(diameter, x, y, z)
}

// shapeUnclipped replicates the cached quadrant into all four quadrants
// walking four buffer offsets at once.
func (s *sphereRasterizer) shapeUnclipped(shape []sphereCell, diameter, x, y, z int) {
	r := s.r
	shades := r.state.shades
	depth := r.opaque.Depth
	w := r.width
	even := 1 - diameter&1
	mask := !r.state.addAllPixels

	ySouth, yNorth := y, y-even
	offSouth := ySouth*w + x
	offNorth := yNorth*w + x
	offSE, offSW := offSouth, offSouth-even
	offNE, offNW := offNorth, offNorth-even
	j := 0
	for _, cell := range shape {
		zPixel := z - cell.height()
		if int32(zPixel) < depth[offSE] && !(mask && (x+j+ySouth)&1 != 0) {
			r.writePixel(offSE, zPixel, shades[cell.shade(quadSE)])
		}
		if int32(zPixel) < depth[offSW] && !(mask && (x-even-j+ySouth)&1 != 0) {
			r.writePixel(offSW, zPixel, shades[cell.shade(quadSW)])
		}
		if int32(zPixel) < depth[offNE] && !(mask && (x+j+yNorth)&1 != 0) {
			r.writePixel(offNE, zPixel, shades[cell.shade(quadNE)])
		}
		if int32(zPixel) < depth[offNW] && !(mask && (x-even-j+yNorth)&1 != 0) {
			r.writePixel(offNW, zPixel, shades[cell.shade(quadNW)])
		}
		if cell.endOfRow() {
			ySouth++
			yNorth--
			offSouth += w
			offNorth -= w
			offSE, offSW = offSouth, offSouth-even
			offNE, offNW = offNorth, offNorth-even
			j = 0
			continue
		}
		offSE++
		offSW--
		offNE++
		offNW--
		j++
	}
}

// shapeClipped is shapeUnclipped with a bounds and far-plane test per
// pixel.
func (s *sphereRasterizer) shapeClipped(shape []sphereCell, diameter, x, y, z int) {
	r := s.r
	shades := r.state.shades
	even := 1 - diameter&1
	depth := r.state.depth
	i, j := 0, 0
	for _, cell := range shape {
		zPixel := z - cell.height()
		if zPixel <= depth {
			xE, xW := x+j, x-even-j
			yS, yN := y+i, y-even-i
			s.clippedPixel(xE, yS, zPixel, shades[cell.shade(quadSE)])
			s.clippedPixel(xW, yS, zPixel, shades[cell.shade(quadSW)])
			s.clippedPixel(xE, yN, zPixel, shades[cell.shade(quadNE)])
			s.clippedPixel(xW, yN, zPixel, shades[cell.shade(quadNW)])
		}
		if cell.endOfRow() {
			i++
			j = 0
		} else {
			j++
		}
	}
}

func (s *sphereRasterizer) clippedPixel(x, y, z int, argb uint32) {
	if s.r.isClippedXY(x, y) {
		return
	}
	s.r.plot(x, y, z, argb)
}

// large draws spheres too big for the shape cache, or cut by the near
// plane, one quadrant at a time using the shared intensity table.
func (s *sphereRasterizer) large(diameter, x, y, z int) {
	intensities := s.r.ctx.sphereIntensityTable()
	radius := diameter / 2
	for _, q := range [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}} {
		s.quadrant(intensities, radius, x, y, z, q[0], q[1])
	}
}

func (s *sphereRasterizer) quadrant(intensities []uint8, radius, xC, yC, zC, xSign, ySign int) {
	r := s.r
	shades := r.state.shades
	noise := r.ctx.noise
	slab, depth := r.state.slab, r.state.depth
	r2 := radius * radius
	divisor := 2*radius + 1
	for i := 0; i*i <= r2; i++ {
		y := yC + i*ySign
		if y < 0 || y >= r.height {
			if (y < 0) == (ySign < 0) {
				break
			}
			continue
		}
		s2 := r2 - i*i
		y8 := ((i*ySign + radius) << 8) / divisor
		for j := 0; j*j <= s2; j++ {
			x := xC + j*xSign
			if x < 0 || x >= r.width {
				if (x < 0) == (xSign < 0) {
					break
				}
				continue
			}
			// quadrants share their axes; draw them once
			if (i == 0 && ySign < 0) || (j == 0 && xSign < 0) {
				continue
			}
			k := int(math.Sqrt(float64(s2 - j*j)))
			zPixel := zC - k
			core := false
			if zPixel < slab {
				if zC+k < slab {
					continue
				}
				zPixel = slab
				core = true
			}
			if zPixel > depth {
				continue
			}
			var idx int
			if core {
				idx = noise.Jitter(shade.SlabClipped)
			} else {
				x8 := ((j*xSign + radius) << 8) / divisor
				idx = int(intensities[y8<<8+x8])
			}
			r.plot(x, y, zPixel, shades[idx])
		}
	}
}
