package normix

import (
	"g3d-renderer/internal/mathutil"
	"g3d-renderer/internal/shade"
)

// Normix is a quantized normal. Values >= 0 index a geodesic vertex; the
// bitwise complement of a vertex index marks the same direction as
// two-sided, which always faces the viewer.
type Normix int16

// TwoSided returns the two-sided form of n.
func TwoSided(n Normix) Normix {
	if n < 0 {
		return n
	}
	return ^n
}

// IsTwoSided reports whether n is marked two-sided.
func IsTwoSided(n Normix) bool { return n < 0 }

// Vertex returns the geodesic vertex index behind n.
func Vertex(n Normix) int {
	if n < 0 {
		return int(^n)
	}
	return int(n)
}

// DefaultLevel is the subdivision level used for shading normals.
const DefaultLevel = MaxLevel

// Table quantizes normals at one level and keeps the per-view intensity of
// every vertex.
type Table struct {
	geo   *Geodesic
	level int

	rotation    mathutil.Mat3
	lighting    shade.Lighting
	transformed []mathutil.Vec3
	intensities []uint8
	// twoSided is the intensity of whichever of v and -v faces the viewer.
	twoSided []uint8
}

// NewTable builds a table over g at level (clamped to 0..MaxLevel) with the
// identity view and default lighting.
func NewTable(g *Geodesic, level int) *Table {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	n := g.VertexCount(level)
	t := &Table{
		geo:         g,
		level:       level,
		rotation:    mathutil.Mat3Identity(),
		lighting:    shade.DefaultLighting(),
		transformed: make([]mathutil.Vec3, n),
		intensities: make([]uint8, n),
		twoSided:    make([]uint8, n),
	}
	t.recompute()
	return t
}

// Len returns the number of normixes at the table's level.
func (t *Table) Len() int { return len(t.intensities) }

// Level returns the subdivision level.
func (t *Table) Level() int { return t.level }

// Vector returns the model-space unit vector of n.
func (t *Table) Vector(n Normix) mathutil.Vec3 {
	return t.geo.Vertices[Vertex(n)]
}

// Quantize returns the vertex nearest to v. The search starts at the pole
// on v's side and climbs level by level along each level's adjacency.
func (t *Table) Quantize(v mathutil.Vec3) Normix {
	u := v.Normalize()
	if u == (mathutil.Vec3{}) {
		return 0
	}
	champion := northPole
	if u[2] < 0 {
		champion = southPole
	}
	best := t.geo.Vertices[champion].Dist2(u)
	for lvl := 0; lvl <= t.level; lvl++ {
		champion, best = t.climb(lvl, champion, best, u)
	}
	// confirm against the second ring before accepting a local minimum
	for {
		next, d := t.secondRing(champion, best, u)
		if next == champion {
			break
		}
		champion, best = t.climb(t.level, next, d, u)
	}
	return Normix(champion)
}

func (t *Table) climb(lvl, champion int, best float64, u mathutil.Vec3) (int, float64) {
	for {
		improved := false
		for _, nb := range t.geo.Neighbors(lvl, champion) {
			if d := t.geo.Vertices[nb].Dist2(u); d < best {
				champion, best, improved = int(nb), d, true
			}
		}
		if !improved {
			return champion, best
		}
	}
}

func (t *Table) secondRing(champion int, best float64, u mathutil.Vec3) (int, float64) {
	winner := champion
	for _, nb := range t.geo.Neighbors(t.level, champion) {
		for _, nb2 := range t.geo.Neighbors(t.level, int(nb)) {
			if d := t.geo.Vertices[nb2].Dist2(u); d < best {
				winner, best = int(nb2), d
			}
		}
	}
	return winner, best
}

// Inverse returns the normix pointing the opposite way, preserving the
// two-sided mark.
func (t *Table) Inverse(n Normix) Normix {
	inv := Normix(t.geo.inverse[Vertex(n)])
	if n < 0 {
		return ^inv
	}
	return inv
}

// SetViewTransform rotates every vertex by rot (model to view, y up,
// z toward the viewer) and refreshes the intensities. Call once per frame
// or rotation change.
func (t *Table) SetViewTransform(rot mathutil.Mat3) {
	t.rotation = rot
	t.recompute()
}

// SetLighting refreshes intensities for new lighting parameters.
func (t *Table) SetLighting(l shade.Lighting) {
	if l == t.lighting {
		return
	}
	t.lighting = l
	t.recompute()
}

func (t *Table) recompute() {
	for i := range t.intensities {
		v := t.rotation.MulVec3(t.geo.Vertices[i])
		t.transformed[i] = v
		// view y is up, lighting y is down
		t.intensities[i] = uint8(t.lighting.Intensity(v[0], -v[1], v[2]))
		if v[2] >= 0 {
			t.twoSided[i] = t.intensities[i]
		} else {
			t.twoSided[i] = uint8(t.lighting.Intensity(-v[0], v[1], -v[2]))
		}
	}
}

// Intensity returns the shade index 0..63 of n under the current view.
func (t *Table) Intensity(n Normix) int {
	if n < 0 {
		return int(t.twoSided[^n])
	}
	return int(t.intensities[n])
}

// IsFacingViewer reports whether n's rotated z is positive. Two-sided
// normixes always face the viewer.
func (t *Table) IsFacingViewer(n Normix) bool {
	if n < 0 {
		return true
	}
	return t.transformed[n][2] > 0
}

// Transformed returns the rotated vector of n.
func (t *Table) Transformed(n Normix) mathutil.Vec3 {
	return t.transformed[Vertex(n)]
}
