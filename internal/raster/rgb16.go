package raster

// rgb16 is a color with 16.8 fixed-point channels, used to interpolate
// Gouraud shading along edges and spans.
type rgb16 struct {
	r, g, b int32
}

func rgb16From(argb uint32) rgb16 {
	return rgb16{
		r: int32(argb>>16&0xFF) << 8,
		g: int32(argb>>8&0xFF) << 8,
		b: int32(argb&0xFF) << 8,
	}
}

// lerp returns a + (b-a)*num/den.
func (a rgb16) lerp(b rgb16, num, den int) rgb16 {
	if den == 0 {
		return a
	}
	n, d := int32(num), int32(den)
	return rgb16{
		r: a.r + (b.r-a.r)*n/d,
		g: a.g + (b.g-a.g)*n/d,
		b: a.b + (b.b-a.b)*n/d,
	}
}

// step returns the per-pixel increment from a to b over den steps.
func (a rgb16) step(b rgb16, den int) rgb16 {
	if den == 0 {
		return rgb16{}
	}
	d := int32(den)
	return rgb16{r: (b.r - a.r) / d, g: (b.g - a.g) / d, b: (b.b - a.b) / d}
}

func (a rgb16) add(d rgb16) rgb16 {
	return rgb16{r: a.r + d.r, g: a.g + d.g, b: a.b + d.b}
}

func (a rgb16) addN(d rgb16, n int) rgb16 {
	k := int32(n)
	return rgb16{r: a.r + d.r*k, g: a.g + d.g*k, b: a.b + d.b*k}
}

func (a rgb16) argb() uint32 {
	return 0xFF000000 | clampChannel(a.r)<<16 | clampChannel(a.g)<<8 | clampChannel(a.b)
}

func clampChannel(v int32) uint32 {
	v >>= 8
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint32(v)
}
