// Package order arranges faces and edges for emission. Output order
// doubles as draw order for a painter's-algorithm renderer with no depth
// buffer, so distance sorting matters to how the shape looks in-game.
package order

import (
	"fmt"
	"sort"
	"strings"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"fxconv/internal/model"
)

// Mode selects the emission order.
type Mode int

const (
	// None preserves discovery order exactly; for destinations with
	// their own depth handling.
	None Mode = iota
	// Distance orders by centroid/midpoint distance from the origin,
	// farthest emitted last. Ties keep input order.
	Distance
	// Material orders faces by material slot; later slots draw first by
	// the calling exporter's convention. Edges keep discovery order.
	Material
)

// ParseMode maps a config/CLI name to a sort mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "distance":
		return Distance, nil
	case "material":
		return Material, nil
	}
	return None, fmt.Errorf("unknown sort mode %q", s)
}

// Sorted returns reordered copies of the face and edge sequences. The
// inputs are never modified; both sorts are stable on input order.
func Sorted(faces []model.Face, edges []model.Edge, verts []model.Point3i, mode Mode) ([]model.Face, []model.Edge) {
	outFaces := append([]model.Face(nil), faces...)
	outEdges := append([]model.Edge(nil), edges...)

	switch mode {
	case Distance:
		sortFacesByDistance(outFaces, verts)
		sortEdgesByDistance(outEdges, verts)
	case Material:
		sort.SliceStable(outFaces, func(i, j int) bool {
			return outFaces[i].Slot < outFaces[j].Slot
		})
	}
	return outFaces, outEdges
}

// Apply reorders a mesh's records in place according to mode.
func Apply(m *model.Mesh, mode Mode) {
	m.Faces, m.Edges = Sorted(m.Faces, m.Edges, m.Vertices.Points(), mode)
}

func sortFacesByDistance(faces []model.Face, verts []model.Point3i) {
	keys := make([]float64, len(faces))
	for i, f := range faces {
		keys[i] = centroid(f.Indices, verts).Length()
	}
	stableByKey(len(faces), keys, func(i, j int) {
		faces[i], faces[j] = faces[j], faces[i]
	})
}

func sortEdgesByDistance(edges []model.Edge, verts []model.Point3i) {
	keys := make([]float64, len(edges))
	for i, e := range edges {
		keys[i] = centroid([]int{e.A, e.B}, verts).Length()
	}
	stableByKey(len(edges), keys, func(i, j int) {
		edges[i], edges[j] = edges[j], edges[i]
	})
}

// stableByKey stable-sorts a sequence ascending by precomputed keys,
// keeping the key array in step with the caller's swaps.
func stableByKey(n int, keys []float64, swap func(i, j int)) {
	sort.Stable(&keyedSeq{n: n, keys: keys, swap: swap})
}

type keyedSeq struct {
	n    int
	keys []float64
	swap func(i, j int)
}

func (s *keyedSeq) Len() int           { return s.n }
func (s *keyedSeq) Less(i, j int) bool { return s.keys[i] < s.keys[j] }
func (s *keyedSeq) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.swap(i, j)
}

// centroid is the mean of the referenced vertex positions; for a 2-point
// edge it is the midpoint.
func centroid(indices []int, verts []model.Point3i) vec3d.T {
	var c vec3d.T
	for _, idx := range indices {
		p := verts[idx]
		c.Add(&vec3d.T{float64(p.X), float64(p.Y), float64(p.Z)})
	}
	c.Scale(1 / float64(len(indices)))
	return c
}
