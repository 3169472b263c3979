// Package g3d implements the 3DG1 single-frame and 3DAN animated line
// formats: a header token, a vertex block, and polygon/edge records
// terminated by a 0x1A sentinel byte.
package g3d

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fxconv/internal/model"
)

// Sentinel is the end-of-stream marker byte. Anything after it is ignored.
const Sentinel = 0x1a

// Reader parses 3DG1/3DAN text. A Reader is good for exactly one Decode or
// DecodeAnim call; it holds the scanner position and the packed-color latch.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	done    bool // sentinel seen, stop consuming
	packed  bool // packed-color mode, latched by the first 0x tag
}

// NewReader creates a reader over a sequential line source.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Decode parses a single-frame 3DG1 file into a normalized mesh.
func (r *Reader) Decode() (*model.Mesh, error) {
	if err := r.readHeader(model.Format3DG1); err != nil {
		return nil, err
	}

	n, err := r.readCount("vertex count")
	if err != nil {
		return nil, err
	}

	mesh := model.NewMesh()
	remap, err := r.readVertexBlock(mesh.Vertices, n)
	if err != nil {
		return nil, err
	}

	for {
		line, ok := r.nextNonBlank()
		if !ok {
			break
		}
		npoints, indices, tag, err := r.parseRecord(line, n)
		if err != nil {
			return nil, err
		}
		for i, idx := range indices {
			indices[i] = remap[idx]
		}
		if npoints == 2 {
			mesh.AddEdge(indices[0], indices[1], tag)
		} else {
			mesh.AddFace(indices, tag)
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	return mesh, nil
}

// DecodeAnim parses an animated 3DAN file: shared topology, one position
// block per frame, and a single record block applied to every frame.
func (r *Reader) DecodeAnim() (*model.AnimatedMesh, error) {
	if err := r.readHeader(model.Format3DAN); err != nil {
		return nil, err
	}

	vcount, err := r.readCount("vertex count")
	if err != nil {
		return nil, err
	}
	fcount, err := r.readCount("frame count")
	if err != nil {
		return nil, err
	}

	anim := &model.AnimatedMesh{Frames: make([][]model.Point3i, 0, fcount)}
	for f := 0; f < fcount; f++ {
		frame, err := r.readPositions(vcount)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", f, err)
		}
		anim.Frames = append(anim.Frames, frame)
	}

	for {
		line, ok := r.nextNonBlank()
		if !ok {
			break
		}
		npoints, indices, tag, err := r.parseRecord(line, vcount)
		if err != nil {
			return nil, err
		}
		if npoints == 2 {
			anim.Edges = append(anim.Edges, model.Edge{A: indices[0], B: indices[1], Color: tag})
		} else {
			anim.Faces = append(anim.Faces, model.Face{Indices: indices, Color: tag})
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}

	return anim, nil
}

// next returns the next raw line. It stops permanently at the first
// sentinel byte; text before the sentinel on the same line is still
// delivered.
func (r *Reader) next() (string, bool) {
	if r.done {
		return "", false
	}
	if !r.scanner.Scan() {
		return "", false
	}
	r.line++
	line := r.scanner.Text()
	if i := strings.IndexByte(line, Sentinel); i >= 0 {
		r.done = true
		line = line[:i]
		if strings.TrimSpace(line) == "" {
			return "", false
		}
	}
	return line, true
}

// nextNonBlank skips blank lines.
func (r *Reader) nextNonBlank() (string, bool) {
	for {
		line, ok := r.next()
		if !ok {
			return "", false
		}
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
}

// readHeader validates the first non-blank line against the codec variant.
// A recognized header of the other variant fails explicitly rather than
// being silently misparsed.
func (r *Reader) readHeader(want model.FormatVariant) error {
	line, ok := r.nextNonBlank()
	if !ok {
		return fmt.Errorf("line %d: missing header: %w", r.line, model.ErrTruncated)
	}
	token := strings.TrimSpace(line)

	// 3DGI is an accepted spelling for both variants.
	if token == "3DGI" {
		return nil
	}

	switch want {
	case model.Format3DAN:
		switch token {
		case "3DAN":
			return nil
		case "3DG1":
			return fmt.Errorf("line %d: single-frame header %q fed to animation codec: %w",
				r.line, token, model.ErrUnsupportedVariant)
		}
	default:
		switch token {
		case "3DG1":
			return nil
		case "3DAN":
			return fmt.Errorf("line %d: animated header %q fed to single-frame codec: %w",
				r.line, token, model.ErrUnsupportedVariant)
		}
	}
	return fmt.Errorf("line %d: header %q: %w", r.line, token, model.ErrFormatMismatch)
}

// readCount reads a single non-negative integer line.
func (r *Reader) readCount(what string) (int, error) {
	line, ok := r.nextNonBlank()
	if !ok {
		return 0, fmt.Errorf("line %d: missing %s: %w", r.line, what, model.ErrTruncated)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("line %d: bad %s %q: %w", r.line, what, strings.TrimSpace(line), model.ErrMalformedRecord)
	}
	return n, nil
}

// readVertexBlock reads n vertex lines into the table and returns the
// position→index remap. Duplicate source vertices collapse to one slot, so
// record indices must be remapped through it.
func (r *Reader) readVertexBlock(vt *model.VertexTable, n int) ([]int, error) {
	remap := make([]int, 0, n)
	for i := 0; i < n; i++ {
		x, y, z, err := r.readVertexLine(i, n)
		if err != nil {
			return nil, err
		}
		remap = append(remap, vt.InternSnapped(x, y, z, model.SnapRound))
	}
	return remap, nil
}

// readPositions reads n vertex lines positionally, without dedup. Used for
// animation frames, where indices are positional across every frame.
func (r *Reader) readPositions(n int) ([]model.Point3i, error) {
	pts := make([]model.Point3i, 0, n)
	for i := 0; i < n; i++ {
		x, y, z, err := r.readVertexLine(i, n)
		if err != nil {
			return nil, err
		}
		pts = append(pts, model.Snap(x, y, z, model.SnapRound))
	}
	return pts, nil
}

// readVertexLine parses one "x y z" line. Fractional input is accepted for
// compatibility with looser producers and snapped to integers.
func (r *Reader) readVertexLine(i, n int) (x, y, z float64, err error) {
	line, ok := r.nextNonBlank()
	if !ok {
		return 0, 0, 0, fmt.Errorf("line %d: vertex %d of %d: %w", r.line, i, n, model.ErrTruncated)
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("line %d: vertex has %d fields, want 3: %w", r.line, len(fields), model.ErrMalformedRecord)
	}
	coords := make([]float64, 3)
	for j, f := range fields {
		v, perr := strconv.ParseFloat(f, 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("line %d: vertex coordinate %q: %w", r.line, f, model.ErrMalformedRecord)
		}
		coords[j] = v
	}
	return coords[0], coords[1], coords[2], nil
}

// parseRecord parses "<npoints> <idx...> <colorTag>" and range-checks every
// index against the declared vertex count.
func (r *Reader) parseRecord(line string, vcount int) (npoints int, indices []int, tag model.ColorTag, err error) {
	fields := strings.Fields(line)
	npoints, aerr := strconv.Atoi(fields[0])
	if aerr != nil || npoints < 2 {
		return 0, nil, tag, fmt.Errorf("line %d: record point count %q: %w", r.line, fields[0], model.ErrMalformedRecord)
	}
	if len(fields) != npoints+2 {
		return 0, nil, tag, fmt.Errorf("line %d: record has %d fields, want %d: %w",
			r.line, len(fields), npoints+2, model.ErrMalformedRecord)
	}

	indices = make([]int, npoints)
	for i := 0; i < npoints; i++ {
		idx, perr := strconv.Atoi(fields[1+i])
		if perr != nil {
			return 0, nil, tag, fmt.Errorf("line %d: record index %q: %w", r.line, fields[1+i], model.ErrMalformedRecord)
		}
		if idx < 0 || idx >= vcount {
			return 0, nil, tag, fmt.Errorf("line %d: index %d with %d vertices declared: %w",
				r.line, idx, vcount, model.ErrOutOfRange)
		}
		indices[i] = idx
	}

	tag, err = r.parseTag(fields[npoints+1])
	if err != nil {
		return 0, nil, tag, err
	}
	return npoints, indices, tag, nil
}

// parseTag reads a color tag. A 0x-prefixed literal is a packed 24-bit
// color and latches packed mode for the rest of the parse; the latch never
// reinterprets records that were already read as indexed.
func (r *Reader) parseTag(s string) (model.ColorTag, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return model.ColorTag{}, fmt.Errorf("line %d: packed color %q: %w", r.line, s, model.ErrMalformedRecord)
		}
		r.packed = true
		return model.PackedBGR(uint32(v)), nil
	}

	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return model.ColorTag{}, fmt.Errorf("line %d: color tag %q: %w", r.line, s, model.ErrMalformedRecord)
	}
	if r.packed {
		return model.PackedBGR(uint32(v)), nil
	}
	if v > 255 {
		return model.ColorTag{}, fmt.Errorf("line %d: palette index %d: %w", r.line, v, model.ErrMalformedRecord)
	}
	return model.Indexed(uint8(v)), nil
}
