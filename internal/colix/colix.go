// Package colix implements color indexes: small comparable keys for ARGB
// colors plus an encoded translucency level.
package colix

// Reserved indexes. Real colors start at firstColor.
const (
	indexNone         = 0
	indexInheritAll   = 1
	indexInheritColor = 2
	indexUsePalette   = 3
	firstColor        = 4
)

// Colix is a color index. The zero value means "not set" and is never drawn.
//
// A Colix is either direct (index into the palette's ARGB table) or
// changeable (index into a small remap table whose entries may be
// reassigned after allocation). Palette.Resolve is the only place where
// the two forms are told apart.
type Colix struct {
	index        uint16
	changeable   bool
	translucency Translucency
}

var (
	None         = Colix{}
	InheritAll   = Colix{index: indexInheritAll}
	InheritColor = Colix{index: indexInheritColor}
	UsePalette   = Colix{index: indexUsePalette}
)

// IsSet reports whether c refers to a real color.
func (c Colix) IsSet() bool {
	return c.changeable || c.index >= firstColor
}

// IsChangeable reports whether c goes through the changeable remap table.
func (c Colix) IsChangeable() bool { return c.changeable }

// Index returns the raw palette or changeable-table index.
func (c Colix) Index() int { return int(c.index) }

func (c Colix) Translucency() Translucency { return c.translucency }

// IsTranslucent reports a translucency other than Opaque (screened included).
func (c Colix) IsTranslucent() bool { return c.translucency != Opaque }

// WithTranslucency returns c carrying t.
func (c Colix) WithTranslucency(t Translucency) Colix {
	c.translucency = t & translucencyMask
	return c
}

// Opaque strips the translucency.
func (c Colix) Opaque() Colix {
	c.translucency = Opaque
	return c
}

// Inherit resolves the INHERIT sentinels against a parent color.
// INHERIT_ALL takes the parent as is; INHERIT_COLOR takes the parent's
// color but keeps c's translucency.
func (c Colix) Inherit(parent Colix) Colix {
	if c.changeable {
		return c
	}
	switch c.index {
	case indexNone, indexInheritAll:
		return parent
	case indexInheritColor:
		return parent.WithTranslucency(c.translucency)
	}
	return c
}
