package colix

import "math"

// Translucency is the 4-bit translucency field of a Colix.
//
// Values 0..7 are the eight discrete levels (0 = opaque, k = k/8 of the
// color behind shows through). Transparent and Screened are sentinels.
type Translucency uint8

const (
	Opaque      Translucency = 0
	Transparent Translucency = 8
	// Screened is 50% translucency realized by checkerboard masking.
	Screened Translucency = 15

	translucencyMask Translucency = 0x0F
	levelCount                    = 8
)

// TranslucencyFromFraction rounds f (0 = opaque, 1 = invisible) to the
// nearest of the eight levels. Only f >= 1 yields Transparent.
func TranslucencyFromFraction(f float64) Translucency {
	if f <= 0 || math.IsNaN(f) {
		return Opaque
	}
	if f >= 1 {
		return Transparent
	}
	k := int(math.Floor(f*levelCount + 0.5))
	if k >= levelCount {
		k = levelCount - 1
	}
	return Translucency(k)
}

// TranslucencyFromAlpha converts an ARGB alpha byte to a level.
func TranslucencyFromAlpha(a uint8) Translucency {
	if a == 0xFF {
		return Opaque
	}
	return TranslucencyFromFraction(float64(255-a) / 255)
}

// Level returns the blend level 0..7 used by the compositor. Screened and
// Transparent report 0 since they never blend.
func (t Translucency) Level() int {
	if t >= Transparent {
		return 0
	}
	return int(t)
}

// Fraction returns the translucency as a fraction in [0,1].
func (t Translucency) Fraction() float64 {
	switch t {
	case Transparent:
		return 1
	case Screened:
		return 0.5
	}
	return float64(t.Level()) / levelCount
}

// IsBlended reports the levels 1..7 that are composited in the second pass.
func (t Translucency) IsBlended() bool {
	return t > Opaque && t < Transparent
}

func (t Translucency) String() string {
	switch t {
	case Opaque:
		return "opaque"
	case Transparent:
		return "transparent"
	case Screened:
		return "screened"
	}
	return "translucent"
}
