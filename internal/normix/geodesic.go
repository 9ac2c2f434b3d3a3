// Package normix quantizes unit normals onto a geodesic sphere so that
// per-pixel lighting becomes a table lookup.
package normix

import (
	"math"

	"g3d-renderer/internal/mathutil"
)

// MaxLevel is the deepest subdivision supported; level L has
// 10·4^L + 2 vertices (12, 42, 162, 642).
const MaxLevel = 3

// maxNeighbors bounds the valence of any geodesic vertex.
const maxNeighbors = 6

// Geodesic is an icosahedron subdivided MaxLevel times. Vertices of level
// L are exactly the first VertexCount(L) entries of Vertices.
type Geodesic struct {
	Vertices []mathutil.Vec3
	counts   [MaxLevel + 1]int
	// neighbors[level][v] lists v's adjacent vertices at that level.
	neighbors [MaxLevel + 1][][]int16
	inverse   []int16
}

// Icosahedron layout: north pole, upper ring, lower ring, south pole.
const (
	northPole = 0
	southPole = 11
)

var icosahedronFaces = [20][3]int{
	{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 5}, {0, 5, 1},
	{1, 6, 2}, {2, 7, 3}, {3, 8, 4}, {4, 9, 5}, {5, 10, 1},
	{6, 1, 10}, {7, 2, 6}, {8, 3, 7}, {9, 4, 8}, {10, 5, 9},
	{11, 6, 10}, {11, 7, 6}, {11, 8, 7}, {11, 9, 8}, {11, 10, 9},
}

func icosahedronVertices() []mathutil.Vec3 {
	verts := make([]mathutil.Vec3, 0, 12)
	verts = append(verts, mathutil.Vec3{0, 0, 1})
	z := 1 / math.Sqrt(5)
	r := 2 / math.Sqrt(5)
	for i := 0; i < 5; i++ {
		a := float64(i) * 2 * math.Pi / 5
		verts = append(verts, mathutil.Vec3{r * math.Cos(a), r * math.Sin(a), z})
	}
	for i := 0; i < 5; i++ {
		a := (float64(i) + 0.5) * 2 * math.Pi / 5
		verts = append(verts, mathutil.Vec3{r * math.Cos(a), r * math.Sin(a), -z})
	}
	verts = append(verts, mathutil.Vec3{0, 0, -1})
	return verts
}

// NewGeodesic builds all levels up to MaxLevel.
func NewGeodesic() *Geodesic {
	g := &Geodesic{Vertices: icosahedronVertices()}
	faces := icosahedronFaces[:]
	for level := 0; level <= MaxLevel; level++ {
		g.counts[level] = len(g.Vertices)
		g.neighbors[level] = adjacency(len(g.Vertices), faces)
		if level < MaxLevel {
			faces = g.subdivide(faces)
		}
	}
	g.inverse = make([]int16, len(g.Vertices))
	for i, v := range g.Vertices {
		g.inverse[i] = int16(g.bruteForce(v.Scale(-1), MaxLevel))
	}
	return g
}

// subdivide splits every face into four, adding one normalized midpoint per
// edge. Existing vertex indexes are preserved.
func (g *Geodesic) subdivide(faces [][3]int) [][3]int {
	midpoints := make(map[[2]int]int, len(faces)*3/2)
	mid := func(a, b int) int {
		key := [2]int{a, b}
		if b < a {
			key = [2]int{b, a}
		}
		if i, ok := midpoints[key]; ok {
			return i
		}
		v := g.Vertices[a].Add(g.Vertices[b]).Normalize()
		g.Vertices = append(g.Vertices, v)
		i := len(g.Vertices) - 1
		midpoints[key] = i
		return i
	}
	out := make([][3]int, 0, len(faces)*4)
	for _, f := range faces {
		ab := mid(f[0], f[1])
		bc := mid(f[1], f[2])
		ca := mid(f[2], f[0])
		out = append(out,
			[3]int{f[0], ab, ca},
			[3]int{f[1], bc, ab},
			[3]int{f[2], ca, bc},
			[3]int{ab, bc, ca},
		)
	}
	return out
}

func adjacency(n int, faces [][3]int) [][]int16 {
	adj := make([][]int16, n)
	link := func(a, b int) {
		for _, x := range adj[a] {
			if int(x) == b {
				return
			}
		}
		adj[a] = append(adj[a], int16(b))
	}
	for _, f := range faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			link(a, b)
			link(b, a)
		}
	}
	return adj
}

// VertexCount returns the number of vertices at level.
func (g *Geodesic) VertexCount(level int) int {
	return g.counts[level]
}

// Neighbors returns the adjacent vertices of v at level.
func (g *Geodesic) Neighbors(level, v int) []int16 {
	return g.neighbors[level][v]
}

// bruteForce scans every vertex of level; reference for tests and for the
// one-time inverse table.
func (g *Geodesic) bruteForce(v mathutil.Vec3, level int) int {
	best, bestD := 0, math.Inf(1)
	for i := 0; i < g.counts[level]; i++ {
		if d := g.Vertices[i].Dist2(v); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}
