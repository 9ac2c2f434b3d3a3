// Package shade builds the 64-level shade tables and the lighting model
// that maps a surface normal to a shade index.
package shade

import (
	"math"

	"g3d-renderer/internal/mathutil"
)

// Shade table geometry.
const (
	Max    = 64
	Last   = Max - 1
	Normal = 52 // index of the unshaded base color

	// SlabClipped is the centre of the dithered shade used for the flat
	// disk drawn where a sphere is cut by the near clip plane.
	SlabClipped = Normal - 5
)

// Lighting holds the six scalars every shade table is derived from.
type Lighting struct {
	AmbientPercent   int  `json:"ambient_percent" toml:"ambient_percent"`
	DiffusePercent   int  `json:"diffuse_percent" toml:"diffuse_percent"`
	Specular         bool `json:"specular" toml:"specular"`
	SpecularPercent  int  `json:"specular_percent" toml:"specular_percent"`
	SpecularExponent int  `json:"specular_exponent" toml:"specular_exponent"`
	SpecularPower    int  `json:"specular_power" toml:"specular_power"`
}

// DefaultLighting returns the standard light setup.
func DefaultLighting() Lighting {
	return Lighting{
		AmbientPercent:   45,
		DiffusePercent:   84,
		Specular:         true,
		SpecularPercent:  22,
		SpecularExponent: 6,
		SpecularPower:    40,
	}
}

// lightDir is the unit light direction in lighting space
// (x right, y down, z toward the viewer): upper left, in front.
var lightDir = mathutil.Vec3{-1, -1, 2.5}.Normalize()

func (l Lighting) ambient() float64   { return clamp01(float64(l.AmbientPercent) / 100) }
func (l Lighting) diffuse() float64   { return clamp01(float64(l.DiffusePercent) / 100) }
func (l Lighting) specular() float64  { return clamp01(float64(l.SpecularPercent) / 100) }
func (l Lighting) intensity() float64 { return clamp01(float64(l.SpecularPower) / 100) }

// FloatIntensity returns the Lambertian+specular intensity in [0,1] for a
// unit normal in lighting space.
func (l Lighting) FloatIntensity(x, y, z float64) float64 {
	cosTheta := x*lightDir[0] + y*lightDir[1] + z*lightDir[2]
	if cosTheta <= 0 {
		return 0
	}
	intensity := cosTheta * l.diffuse()
	if l.Specular {
		// z component of the reflected light vector
		dot := 2*cosTheta*z - lightDir[2]
		if dot > 0 {
			for n := l.SpecularExponent; n > 0 && dot > .0001; n-- {
				dot *= dot
			}
			intensity += dot * l.specular()
		}
	}
	return clamp01(intensity)
}

// Intensity returns the shade index 0..Last for a normal of any length.
func (l Lighting) Intensity(x, y, z float64) int {
	mag := math.Sqrt(x*x + y*y + z*z)
	if mag == 0 {
		return 0
	}
	return int(l.FloatIntensity(x/mag, y/mag, z/mag)*Last + 0.5)
}

// Fp8Intensity returns the shade index in 8-bit fixed point.
func (l Lighting) Fp8Intensity(x, y, z float64) int {
	mag := math.Sqrt(x*x + y*y + z*z)
	if mag == 0 {
		return 0
	}
	return int(l.FloatIntensity(x/mag, y/mag, z/mag) * Last * (1 << 8))
}

// DitheredIntensity returns a shade index with the fraction resolved by
// noise and an extra ±1 jitter, which hides banding on curved surfaces.
// r is the length of (x,y,z) as known by the caller.
func (l Lighting) DitheredIntensity(n *Noise, x, y, z, r float64) int {
	if r == 0 {
		return 0
	}
	fp8 := int(l.FloatIntensity(x/r, y/r, z/r) * Last * (1 << 8))
	i := fp8 >> 8
	if fp8&0xFF > n.Next8() {
		i++
	}
	switch j := n.Next16(); {
	case j < 65536/3 && i > 0:
		i--
	case j > 2*65536/3 && i < Last:
		i++
	}
	if i > Last {
		i = Last
	}
	return i
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
