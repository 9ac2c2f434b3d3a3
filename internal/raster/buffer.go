package raster

import "math"

// EmptyDepth marks a pixel that has not been written this frame.
// Smaller depths are nearer to the viewer.
const EmptyDepth = math.MaxInt32

// FrameBuffer holds one color/depth pair as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint32 // packed ARGB, len = W*H
	Depth  []int32  // len = W*H, EmptyDepth when unwritten
}

// resize makes fb w×h, reusing the backing arrays when they are large
// enough. It reports whether new arrays were allocated.
func (fb *FrameBuffer) resize(w, h int) bool {
	n := w * h
	fb.Width, fb.Height = w, h
	if cap(fb.Color) >= n && cap(fb.Depth) >= n {
		fb.Color = fb.Color[:n]
		fb.Depth = fb.Depth[:n]
		return false
	}
	fb.Color = make([]uint32, n)
	fb.Depth = make([]int32, n)
	return true
}

// release drops the backing arrays.
func (fb *FrameBuffer) release() {
	*fb = FrameBuffer{}
}

// Clear empties every pixel.
func (fb *FrameBuffer) Clear() {
	clear(fb.Color)
	for i := range fb.Depth {
		fb.Depth[i] = EmptyDepth
	}
}

// At returns the color and depth at (x, y).
func (fb *FrameBuffer) At(x, y int) (uint32, int32) {
	off := y*fb.Width + x
	return fb.Color[off], fb.Depth[off]
}

// downsample halves fb in place: every 2×2 block becomes one pixel whose
// channels are the rounded average and whose depth is the nearest sample.
// Destination offsets never pass the source offsets still to be read.
func (fb *FrameBuffer) downsample() {
	w, h := fb.Width/2, fb.Height/2
	src := fb.Width
	for y := 0; y < h; y++ {
		row0 := 2 * y * src
		row1 := row0 + src
		for x := 0; x < w; x++ {
			i0 := row0 + 2*x
			i1 := row1 + 2*x
			c := average4(fb.Color[i0], fb.Color[i0+1], fb.Color[i1], fb.Color[i1+1])
			d := min(fb.Depth[i0], fb.Depth[i0+1], fb.Depth[i1], fb.Depth[i1+1])
			dst := y*w + x
			fb.Color[dst] = c
			fb.Depth[dst] = d
		}
	}
	fb.Width, fb.Height = w, h
	fb.Color = fb.Color[:w*h]
	fb.Depth = fb.Depth[:w*h]
}

func average4(a, b, c, d uint32) uint32 {
	var out uint32
	for shift := 0; shift < 32; shift += 8 {
		sum := (a>>shift)&0xFF + (b>>shift)&0xFF + (c>>shift)&0xFF + (d>>shift)&0xFF
		out |= ((sum + 2) >> 2) << shift
	}
	return out
}
