package model

import "math"

// VertexTable assigns stable 0-based indices to integer points, collapsing
// geometrically identical points into one slot. First occurrence wins the
// index; later identical points reuse it, regardless of which face or edge
// they arrived from. A table belongs to exactly one conversion pass.
type VertexTable struct {
	index  map[Point3i]int
	points []Point3i
}

// NewVertexTable returns an empty table.
func NewVertexTable() *VertexTable {
	return &VertexTable{index: make(map[Point3i]int)}
}

// Intern returns the index for p, assigning the next free one on first use.
func (t *VertexTable) Intern(p Point3i) int {
	if i, ok := t.index[p]; ok {
		return i
	}
	i := len(t.points)
	t.index[p] = i
	t.points = append(t.points, p)
	return i
}

// InternSnapped snaps fractional coordinates to integers and interns the
// result. Importer and exporter snap through the same function so a vertex
// shared by multiple faces collapses to one slot on both paths.
func (t *VertexTable) InternSnapped(x, y, z float64, mode SnapMode) int {
	return t.Intern(Snap(x, y, z, mode))
}

// Snap converts fractional coordinates to an integer point.
func Snap(x, y, z float64, mode SnapMode) Point3i {
	if mode == SnapTrunc {
		return Point3i{X: int(math.Trunc(x)), Y: int(math.Trunc(y)), Z: int(math.Trunc(z))}
	}
	return Point3i{X: int(math.Round(x)), Y: int(math.Round(y)), Z: int(math.Round(z))}
}

// Len returns the number of distinct points interned so far.
func (t *VertexTable) Len() int {
	return len(t.points)
}

// At returns the point stored at index i.
func (t *VertexTable) At(i int) Point3i {
	return t.points[i]
}

// Points returns the interned points in assignment order. The slice is the
// table's backing storage; callers must not modify it.
func (t *VertexTable) Points() []Point3i {
	return t.points
}
