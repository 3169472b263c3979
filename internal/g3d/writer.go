package g3d

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fxconv/internal/model"
)

// Writer serializes meshes to 3DG1/3DAN text. The caller applies any draw
// order sorting before encoding; the writer emits records as given.
type Writer struct {
	w io.Writer
}

// NewWriter creates a writer over a sequential line sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Encode writes a single-frame mesh: header, vertex count, one line per
// deduplicated vertex, one record per face then per edge, and the sentinel
// byte with no trailing newline.
func (w *Writer) Encode(m *model.Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w.w, "3DG1\n%d\n", m.Vertices.Len()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.writeVertices(m.Vertices.Points()); err != nil {
		return err
	}
	if err := w.writeRecords(m.Faces, m.Edges); err != nil {
		return err
	}

	_, err := w.w.Write([]byte{Sentinel})
	return err
}

// EncodeAnim writes an animated mesh: header, vertex and frame counts, one
// position block per frame in caller order, then the shared record block.
// Frames are emitted exactly as given; ordering them is the caller's job.
func (w *Writer) EncodeAnim(a *model.AnimatedMesh) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if len(a.Frames) == 0 {
		return fmt.Errorf("no frames: %w", model.ErrTruncated)
	}

	if _, err := fmt.Fprintf(w.w, "3DAN\n%d\n%d\n", a.VertexCount(), len(a.Frames)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, frame := range a.Frames {
		if err := w.writeVertices(frame); err != nil {
			return err
		}
	}
	if err := w.writeRecords(a.Faces, a.Edges); err != nil {
		return err
	}

	_, err := w.w.Write([]byte{Sentinel})
	return err
}

func (w *Writer) writeVertices(pts []model.Point3i) error {
	for _, p := range pts {
		if _, err := fmt.Fprintf(w.w, "%d %d %d\n", p.X, p.Y, p.Z); err != nil {
			return fmt.Errorf("write vertex: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeRecords(faces []model.Face, edges []model.Edge) error {
	for _, f := range faces {
		if err := w.writeRecord(f.Indices, f.Color); err != nil {
			return err
		}
	}
	for _, e := range edges {
		if err := w.writeRecord([]int{e.A, e.B}, e.Color); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeRecord(indices []int, tag model.ColorTag) error {
	parts := make([]string, 0, len(indices)+2)
	parts = append(parts, strconv.Itoa(len(indices)))
	for _, idx := range indices {
		parts = append(parts, strconv.Itoa(idx))
	}
	parts = append(parts, formatTag(tag))

	if _, err := fmt.Fprintln(w.w, strings.Join(parts, " ")); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func formatTag(tag model.ColorTag) string {
	if tag.Kind == model.ColorPacked {
		return fmt.Sprintf("0x%06x", tag.Packed)
	}
	return strconv.Itoa(int(tag.Index))
}
