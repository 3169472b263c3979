package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatVariant identifies which wire format a file header declares.
type FormatVariant int

const (
	FormatUnknown FormatVariant = iota
	Format3DG1                  // single-frame "3DG1" (or the "3DGI" spelling)
	Format3DAN                  // animated "3DAN"
	FormatListing               // BSP/GZS assembly listing
)

// DetectHeader maps a header token to a format variant. "3DGI" is reported
// as the single-frame variant; the animated codec accepts it too, so callers
// that expect animation should try Decode3DAN regardless.
func DetectHeader(token string) FormatVariant {
	switch strings.TrimSpace(token) {
	case "3DG1", "3DGI":
		return Format3DG1
	case "3DAN":
		return Format3DAN
	}
	return FormatUnknown
}

// Point3i is a vertex position in integer game-world units.
type Point3i struct {
	X, Y, Z int
}

// SnapMode selects how fractional coordinates are snapped to integers.
type SnapMode int

const (
	SnapRound SnapMode = iota // round to nearest integer
	SnapTrunc                 // truncate toward zero
)

// ColorKind distinguishes the two color tag encodings.
type ColorKind int

const (
	ColorIndexed ColorKind = iota // palette slot 0-52
	ColorPacked                   // direct 24-bit color, BGR byte order
)

// ColorTag is a face or edge color: either a palette slot or a packed
// 24-bit BGR value embedded directly in the record.
type ColorTag struct {
	Kind   ColorKind
	Index  uint8  // palette slot, valid when Kind == ColorIndexed
	Packed uint32 // 24-bit BGR value, valid when Kind == ColorPacked
}

// Indexed returns a palette-slot color tag.
func Indexed(i uint8) ColorTag {
	return ColorTag{Kind: ColorIndexed, Index: i}
}

// PackedBGR returns a packed-color tag holding a 24-bit BGR value.
func PackedBGR(v uint32) ColorTag {
	return ColorTag{Kind: ColorPacked, Packed: v & 0xffffff}
}

// MaterialName returns the editor-side material slot name for the tag.
// Indexed tags use the FX<N> convention; packed tags carry the hex value.
func (t ColorTag) MaterialName() string {
	if t.Kind == ColorPacked {
		return fmt.Sprintf("FX0x%06x", t.Packed)
	}
	return fmt.Sprintf("FX%d", t.Index)
}

// ParseMaterialName recovers a color tag from an FX<N> material name.
// Names that don't follow the convention fall back to palette slot 0.
func ParseMaterialName(name string) ColorTag {
	s := strings.TrimPrefix(name, "FX")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if v, err := strconv.ParseUint(s[2:], 16, 32); err == nil {
			return PackedBGR(uint32(v))
		}
		return Indexed(0)
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 && v <= 255 {
		return Indexed(uint8(v))
	}
	return Indexed(0)
}

// Face is an ordered ring of at least 3 vertex indices plus a color.
// Winding order is format-significant: reversing it flips the visible side.
// Slot is the face's dense material slot, assigned in first-use order of
// color tags while the mesh is built.
type Face struct {
	Indices []int
	Color   ColorTag
	Slot    int
}

// Edge is a two-point record with a color. On the wire it is encoded as a
// degenerate 2-point face.
type Edge struct {
	A, B  int
	Color ColorTag
}

// Mesh is the normalized single-frame representation: a deduplicating
// vertex table plus ordered face and edge records. Palette lists the
// distinct color tags in first-use order; Face.Slot indexes into it.
type Mesh struct {
	Vertices *VertexTable
	Faces    []Face
	Edges    []Edge
	Palette  []ColorTag

	slots map[ColorTag]int
}

// NewMesh returns an empty mesh with a fresh vertex table.
func NewMesh() *Mesh {
	return &Mesh{
		Vertices: NewVertexTable(),
		slots:    make(map[ColorTag]int),
	}
}

// internSlot assigns a dense material slot to a tag, first use wins.
func (m *Mesh) internSlot(tag ColorTag) int {
	if m.slots == nil {
		m.slots = make(map[ColorTag]int)
	}
	if s, ok := m.slots[tag]; ok {
		return s
	}
	s := len(m.Palette)
	m.slots[tag] = s
	m.Palette = append(m.Palette, tag)
	return s
}

// AddFace appends a face record, assigning its material slot.
func (m *Mesh) AddFace(indices []int, tag ColorTag) {
	m.Faces = append(m.Faces, Face{
		Indices: indices,
		Color:   tag,
		Slot:    m.internSlot(tag),
	})
}

// AddEdge appends an edge record. Its color tag still claims a palette
// slot so edge-only colors show up in the discovered palette.
func (m *Mesh) AddEdge(a, b int, tag ColorTag) {
	m.internSlot(tag)
	m.Edges = append(m.Edges, Edge{A: a, B: b, Color: tag})
}

// Validate checks that every face and edge index is inside the vertex table.
func (m *Mesh) Validate() error {
	n := m.Vertices.Len()
	for fi, f := range m.Faces {
		if len(f.Indices) < 3 {
			return fmt.Errorf("face %d has %d points: %w", fi, len(f.Indices), ErrMalformedRecord)
		}
		for _, idx := range f.Indices {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d of %d: %w", fi, idx, n, ErrOutOfRange)
			}
		}
	}
	for ei, e := range m.Edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return fmt.Errorf("edge %d references vertex (%d,%d) of %d: %w", ei, e.A, e.B, n, ErrOutOfRange)
		}
	}
	return nil
}

// AnimatedMesh is the multi-frame representation: one shared face/edge
// topology and per-frame vertex position snapshots. All frames share the
// vertex count; only positions vary.
type AnimatedMesh struct {
	Frames [][]Point3i
	Faces  []Face
	Edges  []Edge
}

// VertexCount returns the shared per-frame vertex count.
func (a *AnimatedMesh) VertexCount() int {
	if len(a.Frames) == 0 {
		return 0
	}
	return len(a.Frames[0])
}

// Validate checks frame shape consistency and index ranges.
func (a *AnimatedMesh) Validate() error {
	n := a.VertexCount()
	for fi, frame := range a.Frames {
		if len(frame) != n {
			return fmt.Errorf("frame %d has %d positions, want %d: %w", fi, len(frame), n, ErrTruncated)
		}
	}
	for fi, f := range a.Faces {
		if len(f.Indices) < 3 {
			return fmt.Errorf("face %d has %d points: %w", fi, len(f.Indices), ErrMalformedRecord)
		}
		for _, idx := range f.Indices {
			if idx < 0 || idx >= n {
				return fmt.Errorf("face %d references vertex %d of %d: %w", fi, idx, n, ErrOutOfRange)
			}
		}
	}
	for ei, e := range a.Edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return fmt.Errorf("edge %d references vertex (%d,%d) of %d: %w", ei, e.A, e.B, n, ErrOutOfRange)
		}
	}
	return nil
}
