package raster

import (
	"g3d-renderer/internal/colix"
	"g3d-renderer/internal/shade"
)

// renderState is the "current" drawing context mutated by SetColix and
// the frame setters and read by every rasterizer.
type renderState struct {
	colix  colix.Colix
	shades []uint32

	intensity   int
	argb        uint32
	argbNoisyUp uint32
	argbNoisyDn uint32

	// level is the translucency level stamped on pass-2 pixels.
	level        int
	screened     bool
	addAllPixels bool

	slab    int
	depth   int
	zShade  bool
	zMargin int

	background uint32
}

// setIntensity selects shade i of the current colix and its noisy
// neighbours.
func (s *renderState) setIntensity(i int) {
	if i < 0 {
		i = 0
	} else if i > shade.Last {
		i = shade.Last
	}
	s.intensity = i
	s.argb = s.shades[i]
	s.argbNoisyUp = s.shades[min(i+1, shade.Last)]
	s.argbNoisyDn = s.shades[max(i-1, 0)]
}

// paint holds what a rasterizer needs to draw in one colix: its shades and
// the pass-2 translucency level. A nil shades slice means "skip".
type paint struct {
	shades   []uint32
	level    int
	screened bool
}

func (p paint) ok() bool { return p.shades != nil }

// use makes p the colix whose level and mask apply to the next writes.
func (r *Renderer) use(p paint) {
	r.state.shades = p.shades
	r.state.level = p.level
	r.state.screened = p.screened
	r.state.addAllPixels = !p.screened
}
