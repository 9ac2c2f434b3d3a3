package shade

import "g3d-renderer/internal/colix"

// Table computes the shades of one base color under l. Index 0 is the
// ambient-darkened color, Normal is the color itself and Last approaches
// white by the specular power fraction.
func Table(rgb uint32, l Lighting) []uint32 {
	shades := make([]uint32, Max)
	if rgb == 0 {
		return shades
	}
	red := float64((rgb >> 16) & 0xFF)
	grn := float64((rgb >> 8) & 0xFF)
	blu := float64(rgb & 0xFF)

	ambient := l.ambient()
	for i := 0; i < Normal; i++ {
		f := ambient + (1-ambient)*float64(i)/Normal
		shades[i] = pack(red*f, grn*f, blu*f)
	}
	shades[Normal] = pack(red, grn, blu)

	intense := l.intensity()
	for i := Normal + 1; i < Max; i++ {
		f := intense * float64(i-Normal) / float64(Last-Normal)
		shades[i] = pack(red+(255.5-red)*f, grn+(255.5-grn)*f, blu+(255.5-blu)*f)
	}
	return shades
}

// Greyscale returns the NTSC luminance of rgb as an opaque grey.
func Greyscale(rgb uint32) uint32 {
	lum := 0.2989*float64((rgb>>16)&0xFF) +
		0.5870*float64((rgb>>8)&0xFF) +
		0.1140*float64(rgb&0xFF)
	g := uint32(lum + 0.5)
	if g > 255 {
		g = 255
	}
	return 0xFF000000 | g<<16 | g<<8 | g
}

func pack(r, g, b float64) uint32 {
	return 0xFF000000 | clamp8(r)<<16 | clamp8(g)<<8 | clamp8(b)
}

func clamp8(v float64) uint32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint32(v)
}

// Cache holds one lazily built table per palette entry, plus a parallel
// greyscale set. It is owned by a single renderer and not locked.
type Cache struct {
	palette   *colix.Palette
	lighting  Lighting
	greyscale bool

	color [][]uint32
	grey  [][]uint32

	// Generation changes whenever cached tables are dropped, so caches
	// that embed shade indexes can notice.
	Generation uint64
}

// NewCache returns a cache for p using the default lighting.
func NewCache(p *colix.Palette) *Cache {
	return &Cache{palette: p, lighting: DefaultLighting()}
}

// Lighting returns the active lighting parameters.
func (c *Cache) Lighting() Lighting { return c.lighting }

// SetLighting replaces the lighting and drops every cached table.
func (c *Cache) SetLighting(l Lighting) {
	if l == c.lighting {
		return
	}
	c.lighting = l
	c.flush()
}

// SetGreyscale switches between the color and greyscale table sets.
func (c *Cache) SetGreyscale(on bool) {
	c.greyscale = on
}

func (c *Cache) Greyscale() bool { return c.greyscale }

func (c *Cache) flush() {
	c.color = nil
	c.grey = nil
	c.Generation++
}

// Shades returns the 64 shades for cx. Unset colixes get an all-zero table.
func (c *Cache) Shades(cx colix.Colix) []uint32 {
	idx := int(c.palette.Resolve(cx))
	tables := &c.color
	if c.greyscale {
		tables = &c.grey
	}
	if idx >= len(*tables) {
		n := 2 * len(*tables)
		if n <= idx {
			n = idx + 1
		}
		grown := make([][]uint32, n)
		copy(grown, *tables)
		*tables = grown
	}
	if s := (*tables)[idx]; s != nil {
		return s
	}
	rgb := c.palette.ArgbAt(uint16(idx))
	if c.greyscale && rgb != 0 {
		rgb = Greyscale(rgb)
	}
	s := Table(rgb, c.lighting)
	(*tables)[idx] = s
	return s
}
