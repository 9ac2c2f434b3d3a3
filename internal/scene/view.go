package scene

import (
	"math"

	"g3d-renderer/internal/mathutil"
	"g3d-renderer/internal/raster"
)

// Defaults applied when a scene leaves the view unset.
const (
	DefaultZoom     = 1.0
	DefaultDistance = 1000.0
)

// view maps model coordinates to screen pixels for one pass.
type view struct {
	rot    mathutil.Mat3
	center mathutil.Vec3
	zoom   float64
	// xy are multiplied by scale, z by zScale. Depth keeps the opaque
	// pass's units through the translucent pass so both z-test against
	// the same buffer.
	scale  float64
	zScale float64
	cx, cy float64
	dist   float64
}

func newView(s *Scene, width, height, scale, zScale int) view {
	zoom := s.Zoom
	if zoom == 0 {
		zoom = DefaultZoom
	}
	dist := s.Distance
	if dist == 0 {
		dist = DefaultDistance
	}
	return view{
		rot:    mathutil.EulerDeg(s.Rotate[0], s.Rotate[1], s.Rotate[2]),
		center: mathutil.Vec3(s.Center),
		zoom:   zoom,
		scale:  float64(scale),
		zScale: float64(zScale),
		cx:     float64(width) / 2,
		cy:     float64(height) / 2,
		dist:   dist,
	}
}

// rotate returns p in view space: centered, rotated, still in model
// units.
func (v view) rotate(p [3]float64) mathutil.Vec3 {
	return v.rot.MulVec3(mathutil.Vec3(p).Sub(v.center))
}

// project returns the screen position of p.
func (v view) project(p [3]float64) raster.Point3i {
	q := v.rotate(p)
	return raster.Point3i{
		X: round((v.cx + q[0]*v.zoom) * v.scale),
		Y: round((v.cy - q[1]*v.zoom) * v.scale),
		Z: round((v.dist - q[2]*v.zoom) * v.zScale),
	}
}

// length converts a model length to pixels in the current pass.
func (v view) length(l float64) int {
	return round(l * v.zoom * v.scale)
}

// pixels scales a window pixel count to the current pass.
func (v view) pixels(n int) int {
	return int(float64(n) * v.scale)
}

// axis rotates a model-space ellipsoid axis into screen space.
func (v view) axis(a [3]float64) mathutil.Vec3 {
	q := v.rot.MulVec3(mathutil.Vec3(a))
	k := v.zoom * v.scale
	return mathutil.Vec3{q[0] * k, -q[1] * k, -q[2] * k}
}

func round(f float64) int {
	return int(math.Floor(f + 0.5))
}
