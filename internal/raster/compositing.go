package raster

// plot z-tests and writes one pixel honouring the screened mask. The
// caller has already clipped (x, y).
func (r *Renderer) plot(x, y, z int, argb uint32) {
	if !r.state.addAllPixels && (x^y)&1 != 0 {
		return
	}
	r.pixel(y*r.width+x, z, argb)
}

// plotClipped is plot behind a full view-volume test.
func (r *Renderer) plotClipped(x, y, z int, argb uint32) {
	if r.isClipped(x, y, z) {
		return
	}
	r.plot(x, y, z, argb)
}

// pixel is the z-test against the opaque buffer followed by writePixel.
func (r *Renderer) pixel(off, z int, argb uint32) {
	if int32(z) < r.opaque.Depth[off] {
		r.writePixel(off, z, argb)
	}
}

// writePixel stores a pixel that already passed the opaque depth test.
//
// Pass 1 writes straight into the opaque pair. Pass 2 keeps a single
// translucent layer: a nearer pixel pushes the previous front pixel into
// the opaque buffer and takes its place, a farther pixel is merged into
// the opaque buffer directly. A nearer pixel within zMargin of the front
// counts as the same surface: it replaces the front without merging it.
// A farther one within the margin is dropped.
func (r *Renderer) writePixel(off, z int, argb uint32) {
	if r.state.zShade {
		argb = r.depthCue(argb, z)
	}
	if !r.isPass2 {
		r.opaque.Color[off] = argb
		r.opaque.Depth[off] = int32(z)
		return
	}
	tagged := argb&0xFFFFFF | uint32(r.state.level)<<24
	zT := int(r.translucent.Depth[off])
	switch {
	case z < zT:
		if zT != EmptyDepth && zT-z > r.state.zMargin {
			r.mergeOpaque(off, r.translucent.Color[off])
		}
		r.translucent.Color[off] = tagged
		r.translucent.Depth[off] = int32(z)
	case z > zT:
		if z-zT > r.state.zMargin {
			r.mergeOpaque(off, tagged)
		}
	}
}

// mergeOpaque blends a level-tagged translucent pixel over the opaque
// pixel at off. Pixels nothing has written yet, opaque or merged, are
// zero and blend with the background.
func (r *Renderer) mergeOpaque(off int, tagged uint32) {
	old := r.opaque.Color[off]
	if old == 0 {
		old = r.state.background
	}
	r.opaque.Color[off] = mergePixel(old, tagged|0xFF000000, int(tagged>>24))
}

// mergeTranslucent folds the whole translucent layer into the opaque
// buffer.
func (r *Renderer) mergeTranslucent() {
	for off, z := range r.translucent.Depth {
		if z != EmptyDepth {
			r.mergeOpaque(off, r.translucent.Color[off])
		}
	}
}

// mergePixel blends next over old with weights level:(8-level) per
// channel, alpha included. Level 0 returns next unchanged.
func mergePixel(old, next uint32, level int) uint32 {
	if level <= 0 {
		return next
	}
	wOld := uint32(level)
	wNew := 8 - wOld
	var out uint32
	for shift := 0; shift < 32; shift += 8 {
		o := (old >> shift) & 0xFF
		n := (next >> shift) & 0xFF
		out |= ((o*wOld + n*wNew + 4) >> 3) << shift
	}
	return out
}

// depthCue fades argb toward the background over the far half of the
// slab..depth range.
func (r *Renderer) depthCue(argb uint32, z int) uint32 {
	start := r.state.slab + (r.state.depth-r.state.slab)/2
	span := r.state.depth - start
	if z <= start || span <= 0 {
		return argb
	}
	f := uint32(min((z-start)*256/span, 256))
	bg := r.state.background
	out := argb & 0xFF000000
	for shift := 0; shift < 24; shift += 8 {
		c := (argb >> shift) & 0xFF
		b := (bg >> shift) & 0xFF
		out |= ((c*(256-f) + b*f) >> 8) << shift
	}
	return out
}
