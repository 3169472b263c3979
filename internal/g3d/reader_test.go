package g3d

import (
	"errors"
	"strings"
	"testing"

	"fxconv/internal/model"
)

func TestDecodeTwoVertexEdge(t *testing.T) {
	input := "3DG1\n2\n0 0 0\n1 0 0\n2 0 1 5\n\x1a"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if mesh.Vertices.Len() != 2 {
		t.Errorf("vertex count = %d, want 2", mesh.Vertices.Len())
	}
	if len(mesh.Faces) != 0 {
		t.Errorf("face count = %d, want 0", len(mesh.Faces))
	}
	if len(mesh.Edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(mesh.Edges))
	}

	e := mesh.Edges[0]
	if e.A != 0 || e.B != 1 {
		t.Errorf("edge = (%d,%d), want (0,1)", e.A, e.B)
	}
	if e.Color != model.Indexed(5) {
		t.Errorf("edge color = %+v, want palette index 5", e.Color)
	}
}

func TestDecodeFacesAndHeader3DGI(t *testing.T) {
	input := `3DGI
4
0 0 0
10 0 0
10 10 0
0 10 0
3 0 1 2 7
4 0 1 2 3 12
` + "\x1a"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(mesh.Faces) != 2 {
		t.Fatalf("face count = %d, want 2", len(mesh.Faces))
	}
	if got := mesh.Faces[0].Indices; len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Errorf("face 0 indices = %v, want [0 1 2]", got)
	}
	if mesh.Faces[1].Color != model.Indexed(12) {
		t.Errorf("face 1 color = %+v, want index 12", mesh.Faces[1].Color)
	}
	if mesh.Faces[0].Slot != 0 || mesh.Faces[1].Slot != 1 {
		t.Errorf("face slots = %d,%d, want 0,1", mesh.Faces[0].Slot, mesh.Faces[1].Slot)
	}
}

func TestDecodeFractionalVerticesRound(t *testing.T) {
	input := "3DG1\n3\n1.49 0 0\n1.0 0.2 -0.2\n5 5 5\n3 0 1 2 0\n\x1a"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// 1.49 and 1.0 both round to (1,0,0) and collapse into one slot; the
	// record indices are remapped accordingly.
	if mesh.Vertices.Len() != 2 {
		t.Errorf("vertex count = %d, want 2 after collapse", mesh.Vertices.Len())
	}
	got := mesh.Faces[0].Indices
	if got[0] != got[1] {
		t.Errorf("collapsed indices = %v, want first two equal", got)
	}
}

func TestDecodeBlankLinesSkipped(t *testing.T) {
	input := "3DG1\n\n2\n\n0 0 0\n\n1 1 1\n\n3 0 1 0 4\n\x1a"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if mesh.Vertices.Len() != 2 || len(mesh.Faces) != 1 {
		t.Errorf("got %d vertices, %d faces", mesh.Vertices.Len(), len(mesh.Faces))
	}
}

func TestDecodeStopsAtSentinel(t *testing.T) {
	input := "3DG1\n1\n0 0 0\n2 0 0 1\n\x1agarbage\nmore garbage\n99 nonsense"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(mesh.Edges) != 1 {
		t.Errorf("edge count = %d, want 1", len(mesh.Edges))
	}
}

func TestDecodeNoSentinelEOF(t *testing.T) {
	// End of input without a sentinel is still a complete record block.
	input := "3DG1\n1\n0 0 0\n2 0 0 1\n"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(mesh.Edges) != 1 {
		t.Errorf("edge count = %d, want 1", len(mesh.Edges))
	}
}

func TestDecodePackedColorLatch(t *testing.T) {
	input := "3DG1\n3\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2 5\n3 0 1 2 0xaabbcc\n3 0 1 2 16\n\x1a"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	// Forward-only: the record before the 0x tag stays indexed, the ones
	// at and after it are packed.
	if mesh.Faces[0].Color != model.Indexed(5) {
		t.Errorf("face 0 color = %+v, want indexed 5", mesh.Faces[0].Color)
	}
	if mesh.Faces[1].Color != model.PackedBGR(0xaabbcc) {
		t.Errorf("face 1 color = %+v, want packed 0xaabbcc", mesh.Faces[1].Color)
	}
	if mesh.Faces[2].Color.Kind != model.ColorPacked {
		t.Errorf("face 2 color = %+v, want packed mode", mesh.Faces[2].Color)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad header", "NOPE\n0\n", model.ErrFormatMismatch},
		{"animated header", "3DAN\n1\n1\n0 0 0\n", model.ErrUnsupportedVariant},
		{"truncated vertices", "3DG1\n3\n0 0 0\n1 1 1\n", model.ErrTruncated},
		{"missing count", "3DG1\n", model.ErrTruncated},
		{"index out of range", "3DG1\n2\n0 0 0\n1 0 0\n2 0 2 5\n", model.ErrOutOfRange},
		{"record arity", "3DG1\n2\n0 0 0\n1 0 0\n3 0 1 5\n", model.ErrMalformedRecord},
		{"bad number", "3DG1\n1\nx y z\n", model.ErrMalformedRecord},
		{"bad tag", "3DG1\n2\n0 0 0\n1 0 0\n2 0 1 red\n", model.ErrMalformedRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input)).Decode()
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeAnim(t *testing.T) {
	input := `3DAN
2
3
0 0 0
10 0 0
0 1 0
10 1 0
0 2 0
10 2 0
2 0 1 9
` + "\x1a"

	anim, err := NewReader(strings.NewReader(input)).DecodeAnim()
	if err != nil {
		t.Fatalf("DecodeAnim failed: %v", err)
	}

	if len(anim.Frames) != 3 {
		t.Fatalf("frame count = %d, want 3", len(anim.Frames))
	}
	for f, frame := range anim.Frames {
		if len(frame) != 2 {
			t.Errorf("frame %d has %d positions, want 2", f, len(frame))
		}
	}
	if anim.Frames[2][0] != (model.Point3i{X: 0, Y: 2, Z: 0}) {
		t.Errorf("frame 2 vertex 0 = %+v, want {0 2 0}", anim.Frames[2][0])
	}

	// The record block is parsed once and shared.
	if len(anim.Edges) != 1 || anim.Edges[0].Color != model.Indexed(9) {
		t.Errorf("shared edges = %+v, want one edge tagged 9", anim.Edges)
	}
}

func TestDecodeAnimErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"single-frame header", "3DG1\n1\n1\n0 0 0\n", model.ErrUnsupportedVariant},
		{"short frame", "3DAN\n2\n2\n0 0 0\n1 1 1\n0 0 0\n", model.ErrTruncated},
		{"record out of range", "3DAN\n1\n1\n0 0 0\n2 0 1 5\n", model.ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input)).DecodeAnim()
			if !errors.Is(err, tt.want) {
				t.Errorf("DecodeAnim error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeAnimAccepts3DGI(t *testing.T) {
	input := "3DGI\n1\n1\n0 0 0\n\x1a"
	anim, err := NewReader(strings.NewReader(input)).DecodeAnim()
	if err != nil {
		t.Fatalf("DecodeAnim failed: %v", err)
	}
	if len(anim.Frames) != 1 {
		t.Errorf("frame count = %d, want 1", len(anim.Frames))
	}
}
