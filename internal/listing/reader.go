// Package listing imports BSP/GZS assembly-style shape listings: named
// point and face sections, byte/word point encodings, and X-mirrored point
// generation. Listings are import-only; export always goes through the
// 3DG1/3DAN line formats.
package listing

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"

	"fxconv/internal/model"
)

type section int

const (
	secNone section = iota
	secPoints
	secPointsMirror
	secFaces
)

// Reader parses one shape listing. Good for a single Decode call.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a reader over an already-decoded text stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// NewReaderCodepage decodes a legacy codepage (CP437, CP1252, ...) before
// scanning. DOS-era listings are not UTF-8.
func NewReaderCodepage(r io.Reader, dec *encoding.Decoder) *Reader {
	return NewReader(dec.Reader(r))
}

type rawFace struct {
	mat     string
	indices []int
	line    int
}

// Decode parses the listing into a normalized mesh. Materials are interned
// in first-use order into the mesh's dense palette; face vertex order is
// reversed relative to the stored listing order (winding correction), and
// the vertical axis is sign-flipped to the target convention.
func (r *Reader) Decode() (*model.Mesh, error) {
	var (
		points []model.Point3i
		faces  []rawFace
		active = secNone
		sawAny bool
	)

	for r.scanner.Scan() {
		r.line++
		raw := r.scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, ";") {
			continue
		}

		if !isIndented(raw) {
			// A label line: either a section header, or a shape-level
			// marker that defensively ends the active section. The
			// latter guards against a shape named like a section
			// keyword appearing mid-section.
			active = classifyLabel(raw)
			if active != secNone {
				sawAny = true
			}
			continue
		}

		fields := strings.Fields(trimmed)
		switch active {
		case secPoints, secPointsMirror:
			if fields[0] != "pb" && fields[0] != "pw" {
				continue
			}
			if len(fields) != 2 {
				return nil, fmt.Errorf("line %d: point record %q: %w", r.line, trimmed, model.ErrMalformedRecord)
			}
			p, err := r.parsePoint(fields[1])
			if err != nil {
				return nil, err
			}
			points = append(points, p)
			if active == secPointsMirror {
				// The mirror twin follows its source immediately,
				// before the next source line.
				points = append(points, model.Point3i{X: -p.X, Y: p.Y, Z: p.Z})
			}

		case secFaces:
			if !strings.HasPrefix(fields[0], "Face") {
				continue
			}
			f, err := r.parseFace(fields)
			if err != nil {
				return nil, err
			}
			faces = append(faces, f)
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	if !sawAny {
		return nil, fmt.Errorf("no point or face sections found: %w", model.ErrFormatMismatch)
	}

	return r.build(points, faces)
}

// isIndented reports whether the line is an operand line rather than a
// label; labels start in column zero.
func isIndented(line string) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

// classifyLabel maps a column-zero line to the section it opens. Mirror
// variants are checked first since the plain tokens are their suffixes.
func classifyLabel(line string) section {
	tok := line
	if i := strings.IndexAny(line, "\t "); i >= 0 {
		tok = line[:i]
	}
	switch {
	case strings.HasSuffix(tok, "PointsXb"), strings.HasSuffix(tok, "PointsXw"):
		return secPointsMirror
	case strings.HasSuffix(tok, "Pointsb"), strings.HasSuffix(tok, "Pointsw"):
		return secPoints
	case strings.HasSuffix(tok, "Faces"):
		return secFaces
	}
	return secNone
}

// parsePoint parses "x,y,z" operands. Byte and word records parse the
// same; only the source operand width differed. The vertical axis is
// inverted to match the target coordinate convention.
func (r *Reader) parsePoint(operands string) (model.Point3i, error) {
	parts := strings.Split(operands, ",")
	if len(parts) != 3 {
		return model.Point3i{}, fmt.Errorf("line %d: point has %d operands, want 3: %w",
			r.line, len(parts), model.ErrMalformedRecord)
	}
	vals := make([]int, 3)
	for i, s := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return model.Point3i{}, fmt.Errorf("line %d: point operand %q: %w", r.line, s, model.ErrMalformedRecord)
		}
		vals[i] = v
	}
	return model.Point3i{X: vals[0], Y: -vals[1], Z: vals[2]}, nil
}

// parseFace parses a "Face<N>" record: the mnemonic's trailing digits name
// the vertex count, the operands are the material followed by N indices.
func (r *Reader) parseFace(fields []string) (rawFace, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(fields[0], "Face"))
	if err != nil || n < 2 {
		return rawFace{}, fmt.Errorf("line %d: face mnemonic %q: %w", r.line, fields[0], model.ErrMalformedRecord)
	}
	if len(fields) != 2 {
		return rawFace{}, fmt.Errorf("line %d: face record arity: %w", r.line, model.ErrMalformedRecord)
	}
	parts := strings.Split(fields[1], ",")
	if len(parts) != n+1 {
		return rawFace{}, fmt.Errorf("line %d: face has %d operands, want %d: %w",
			r.line, len(parts), n+1, model.ErrMalformedRecord)
	}

	indices := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[1+i]))
		if err != nil {
			return rawFace{}, fmt.Errorf("line %d: face index %q: %w", r.line, parts[1+i], model.ErrMalformedRecord)
		}
		// Stored order is reversed on decode (winding correction).
		indices[n-1-i] = v
	}

	return rawFace{mat: strings.TrimSpace(parts[0]), indices: indices, line: r.line}, nil
}

// build interns points, validates face indices against the accumulated
// point list, and assembles the mesh.
func (r *Reader) build(points []model.Point3i, faces []rawFace) (*model.Mesh, error) {
	mesh := model.NewMesh()
	remap := make([]int, len(points))
	for i, p := range points {
		remap[i] = mesh.Vertices.Intern(p)
	}

	for _, f := range faces {
		tag, err := parseMaterial(f.mat, f.line)
		if err != nil {
			return nil, err
		}
		mapped := make([]int, len(f.indices))
		for i, idx := range f.indices {
			if idx < 0 || idx >= len(points) {
				return nil, fmt.Errorf("line %d: face index %d with %d points: %w",
					f.line, idx, len(points), model.ErrOutOfRange)
			}
			mapped[i] = remap[idx]
		}
		if len(mapped) == 2 {
			mesh.AddEdge(mapped[0], mapped[1], tag)
		} else {
			mesh.AddFace(mapped, tag)
		}
	}

	return mesh, nil
}

func parseMaterial(s string, line int) (model.ColorTag, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return model.ColorTag{}, fmt.Errorf("line %d: material %q: %w", line, s, model.ErrMalformedRecord)
		}
		return model.PackedBGR(uint32(v)), nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return model.ColorTag{}, fmt.Errorf("line %d: material %q: %w", line, s, model.ErrMalformedRecord)
	}
	return model.Indexed(uint8(v)), nil
}
