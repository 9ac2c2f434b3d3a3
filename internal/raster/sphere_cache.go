package raster

import (
	"math"

	"g3d-renderer/internal/shade"
)

// maxCachedSphere is the largest diameter kept as a precomputed shape.
const maxCachedSphere = 128

// sphereCell packs one pixel of a quadrant shape: the surface height above
// the centre plane, the shade index seen in each of the four quadrants
// and an end-of-row flag.
//
//	bits  0..6   height
//	bits  7..12  SE shade
//	bits 13..18  SW shade
//	bits 19..24  NE shade
//	bits 25..30  NW shade
//	bit  31      last cell of the row
type sphereCell uint32

type quadrant uint

const (
	quadSE quadrant = iota
	quadSW
	quadNE
	quadNW
)

const (
	cellHeightBits = 7
	cellShadeBits  = 6
	cellEndOfRow   = sphereCell(1) << 31
)

func makeSphereCell(height int, se, sw, ne, nw int) sphereCell {
	c := sphereCell(height)
	for q, s := range [4]int{se, sw, ne, nw} {
		c |= sphereCell(s) << (cellHeightBits + cellShadeBits*q)
	}
	return c
}

func (c sphereCell) height() int { return int(c & (1<<cellHeightBits - 1)) }

func (c sphereCell) shade(q quadrant) int {
	return int(c>>(cellHeightBits+cellShadeBits*uint(q))) & (1<<cellShadeBits - 1)
}

func (c sphereCell) endOfRow() bool { return c&cellEndOfRow != 0 }

// sphereShape returns the cached quadrant shape for diameter, building it
// on first use.
func (c *Context) sphereShape(diameter int) []sphereCell {
	if s, ok := c.sphereShapes[diameter]; ok {
		return s
	}
	if c.sphereShapes == nil {
		c.sphereShapes = make(map[int][]sphereCell)
	}
	s := buildSphereShape(diameter, c.Shades.Lighting(), c.noise)
	c.sphereShapes[diameter] = s
	Logger().Debug("raster: built sphere shape", "diameter", diameter, "cells", len(s))
	return s
}

// buildSphereShape samples one quadrant of a sphere of the given diameter.
// Even diameters sample at half-pixel offsets so the four mirrored
// quadrants tile without a shared centre row or column.
func buildSphereShape(diameter int, l shade.Lighting, noise *shade.Noise) []sphereCell {
	radius := float64(diameter) / 2
	r2 := radius * radius
	rows := (diameter + 1) / 2
	offset := 0.0
	if diameter&1 == 0 {
		offset = 0.5
	}
	cells := make([]sphereCell, 0, rows*rows)
	for i := 0; i < rows; i++ {
		y := float64(i) + offset
		y2 := y * y
		for j := 0; ; j++ {
			x := float64(j) + offset
			z2 := r2 - y2 - x*x
			if z2 < 0 {
				break
			}
			z := math.Sqrt(z2)
			cell := makeSphereCell(int(z+0.5),
				l.DitheredIntensity(noise, x, y, z, radius),
				l.DitheredIntensity(noise, -x, y, z, radius),
				l.DitheredIntensity(noise, x, -y, z, radius),
				l.DitheredIntensity(noise, -x, -y, z, radius))
			cells = append(cells, cell)
		}
		cells[len(cells)-1] |= cellEndOfRow
	}
	return cells
}

// sphereIntensityTable returns shade indexes for a unit hemisphere sampled
// on a 256×256 grid, row-major by y.
func (c *Context) sphereIntensityTable() []uint8 {
	if c.sphereIntensities != nil {
		return c.sphereIntensities
	}
	const r = 130.0
	l := c.Shades.Lighting()
	t := make([]uint8, 256*256)
	for j := 0; j < 256; j++ {
		y := float64(j) - 127.5
		for i := 0; i < 256; i++ {
			x := float64(i) - 127.5
			z2 := r*r - x*x - y*y
			if z2 > 0 {
				t[j<<8+i] = uint8(l.DitheredIntensity(c.noise, x, y, math.Sqrt(z2), r))
			}
		}
	}
	c.sphereIntensities = t
	return t
}
