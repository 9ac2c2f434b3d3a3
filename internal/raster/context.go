package raster

import (
	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/normix"
	"g3d-renderer/internal/shade"
)

// Context holds the tables shared by every draw call of one Renderer:
// palette, shade tables, normal quantizer and the sphere and ellipsoid
// shading caches. It is not safe for concurrent use; give each render
// goroutine its own Context.
type Context struct {
	Palette *colix.Palette
	Shades  *shade.Cache
	Normix  *normix.Table

	noise *shade.Noise

	// shading caches, valid for shadeGen
	shadeGen          uint64
	sphereShapes      map[int][]sphereCell
	sphereIntensities []uint8
	ellipsoidShades   []uint8

	glyphs map[glyphKey]*Bitmap
}

// NewContext returns a context with a fresh palette, default lighting and
// a normal table at geodesicLevel.
func NewContext(geodesicLevel int) *Context {
	p := colix.NewPalette()
	return &Context{
		Palette: p,
		Shades:  shade.NewCache(p),
		Normix:  normix.NewTable(normix.NewGeodesic(), geodesicLevel),
		noise:   shade.NewNoise(0),
	}
}

// Lighting returns the active lighting parameters.
func (c *Context) Lighting() shade.Lighting { return c.Shades.Lighting() }

// SetLighting updates shade tables and normal intensities together.
func (c *Context) SetLighting(l shade.Lighting) {
	c.Shades.SetLighting(l)
	c.Normix.SetLighting(l)
}

// checkShadeGeneration drops every cache that embeds shade indexes when the
// lighting changed since it was built.
func (c *Context) checkShadeGeneration() {
	if c.shadeGen == c.Shades.Generation {
		return
	}
	Logger().Debug("raster: lighting changed, dropping shading caches",
		"generation", c.Shades.Generation)
	c.shadeGen = c.Shades.Generation
	c.sphereShapes = nil
	c.sphereIntensities = nil
	c.ellipsoidShades = nil
}
