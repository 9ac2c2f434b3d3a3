package colix

// Predefined colors. Every Palette allocates them first, in this order, so
// these values are valid for any palette.
var (
	Black   = Colix{index: firstColor + 0}
	Orange  = Colix{index: firstColor + 1}
	Pink    = Colix{index: firstColor + 2}
	Blue    = Colix{index: firstColor + 3}
	White   = Colix{index: firstColor + 4}
	Cyan    = Colix{index: firstColor + 5}
	Red     = Colix{index: firstColor + 6}
	Green   = Colix{index: firstColor + 7}
	Gray    = Colix{index: firstColor + 8}
	Silver  = Colix{index: firstColor + 9}
	Lime    = Colix{index: firstColor + 10}
	Maroon  = Colix{index: firstColor + 11}
	Navy    = Colix{index: firstColor + 12}
	Olive   = Colix{index: firstColor + 13}
	Purple  = Colix{index: firstColor + 14}
	Teal    = Colix{index: firstColor + 15}
	Magenta = Colix{index: firstColor + 16}
	Yellow  = Colix{index: firstColor + 17}
	HotPink = Colix{index: firstColor + 18}
	Gold    = Colix{index: firstColor + 19}
)

var predefined = [...]uint32{
	0xFF000000, // black
	0xFFFFA500, // orange
	0xFFFFC0CB, // pink
	0xFF0000FF, // blue
	0xFFFFFFFF, // white
	0xFF00FFFF, // cyan
	0xFFFF0000, // red
	0xFF008000, // green
	0xFF808080, // gray
	0xFFC0C0C0, // silver
	0xFF00FF00, // lime
	0xFF800000, // maroon
	0xFF000080, // navy
	0xFF808000, // olive
	0xFF800080, // purple
	0xFF008080, // teal
	0xFFFF00FF, // magenta
	0xFFFFFF00, // yellow
	0xFFFF69B4, // hotpink
	0xFFFFD700, // gold
}

const initialCapacity = 128

// MaxColors is the palette size limit set by the 16-bit index. Once it is
// reached new colors resolve to the nearest existing entry.
const MaxColors = 1 << 16

// Palette maps colixes to ARGB values. It is not safe for concurrent use;
// each renderer owns its own palette.
type Palette struct {
	argbs      []uint32
	byArgb     map[uint32]uint16
	changeable []uint16 // changeable index -> palette index

	// Version increments whenever an existing colix starts resolving to a
	// different color, so dependent caches can be dropped.
	Version uint64
}

// NewPalette returns a palette holding the reserved and predefined entries.
func NewPalette() *Palette {
	p := &Palette{
		argbs:  make([]uint32, firstColor, initialCapacity),
		byArgb: make(map[uint32]uint16, initialCapacity),
	}
	for _, argb := range predefined {
		p.Allocate(argb)
	}
	return p
}

// Allocate returns the colix for argb, adding it on first sight. An alpha
// below 0xFF becomes the colix translucency; argb == 0 yields None.
func (p *Palette) Allocate(argb uint32) Colix {
	if argb == 0 {
		return None
	}
	t := TranslucencyFromAlpha(uint8(argb >> 24))
	idx := p.indexOf(argb | 0xFF000000)
	return Colix{index: idx, translucency: t}
}

func (p *Palette) indexOf(argb uint32) uint16 {
	if idx, ok := p.byArgb[argb]; ok {
		return idx
	}
	if len(p.argbs) >= MaxColors {
		return p.nearest(argb)
	}
	if len(p.argbs) == cap(p.argbs) {
		grown := make([]uint32, len(p.argbs), 2*cap(p.argbs))
		copy(grown, p.argbs)
		p.argbs = grown
	}
	idx := uint16(len(p.argbs))
	p.argbs = append(p.argbs, argb)
	p.byArgb[argb] = idx
	return idx
}

// nearest returns the index of the color closest to argb in RGB space.
func (p *Palette) nearest(argb uint32) uint16 {
	best, bestDist := uint16(firstColor), -1
	for i := firstColor; i < len(p.argbs); i++ {
		d := 0
		for shift := 0; shift < 24; shift += 8 {
			c := int(argb>>shift&0xFF) - int(p.argbs[i]>>shift&0xFF)
			d += c * c
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = uint16(i), d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// AllocateChangeable returns a new changeable colix currently showing argb.
func (p *Palette) AllocateChangeable(argb uint32) Colix {
	idx := p.indexOf(argb | 0xFF000000)
	p.changeable = append(p.changeable, idx)
	return Colix{
		index:        uint16(len(p.changeable) - 1),
		changeable:   true,
		translucency: TranslucencyFromAlpha(uint8(argb >> 24)),
	}
}

// SetChangeable reassigns the color behind a changeable colix. Direct
// colixes are left alone.
func (p *Palette) SetChangeable(c Colix, argb uint32) {
	if !c.changeable || int(c.index) >= len(p.changeable) {
		return
	}
	idx := p.indexOf(argb | 0xFF000000)
	if p.changeable[c.index] != idx {
		p.changeable[c.index] = idx
		p.Version++
	}
}

// Resolve returns the palette index c refers to, or 0 when c is not set.
func (p *Palette) Resolve(c Colix) uint16 {
	if c.changeable {
		if int(c.index) >= len(p.changeable) {
			return indexNone
		}
		return p.changeable[c.index]
	}
	if c.index < firstColor || int(c.index) >= len(p.argbs) {
		return indexNone
	}
	return c.index
}

// Argb returns the opaque ARGB value of c, or 0 when c is not set.
func (p *Palette) Argb(c Colix) uint32 {
	return p.argbs[p.Resolve(c)]
}

// ArgbAt returns the ARGB value at a resolved palette index.
func (p *Palette) ArgbAt(idx uint16) uint32 {
	return p.argbs[idx]
}

// Len returns the number of palette slots, reserved ones included.
func (p *Palette) Len() int {
	return len(p.argbs)
}
