package g3d

import (
	"bytes"
	"strings"
	"testing"

	"fxconv/internal/model"
)

func buildMesh() *model.Mesh {
	m := model.NewMesh()
	m.Vertices.Intern(model.Point3i{X: 0, Y: 0, Z: 0})
	m.Vertices.Intern(model.Point3i{X: 10, Y: 0, Z: 0})
	m.Vertices.Intern(model.Point3i{X: 10, Y: 10, Z: 0})
	m.AddFace([]int{0, 1, 2}, model.Indexed(5))
	m.AddEdge(0, 2, model.Indexed(47))
	return m
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Encode(buildMesh()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := "3DG1\n3\n0 0 0\n10 0 0\n10 10 0\n3 0 1 2 5\n2 0 2 47\n\x1a"
	if buf.String() != want {
		t.Errorf("Encode output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestEncodeSentinelNoTrailingNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Encode(buildMesh()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out := buf.Bytes()
	if out[len(out)-1] != Sentinel {
		t.Errorf("output ends with 0x%02x, want sentinel 0x1a", out[len(out)-1])
	}
}

func TestEncodePackedTag(t *testing.T) {
	m := model.NewMesh()
	m.Vertices.Intern(model.Point3i{X: 0, Y: 0, Z: 0})
	m.Vertices.Intern(model.Point3i{X: 1, Y: 0, Z: 0})
	m.Vertices.Intern(model.Point3i{X: 0, Y: 1, Z: 0})
	m.AddFace([]int{0, 1, 2}, model.PackedBGR(0xaabbcc))

	var buf bytes.Buffer
	if err := NewWriter(&buf).Encode(m); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(buf.String(), "3 0 1 2 0xaabbcc\n") {
		t.Errorf("output %q missing packed record", buf.String())
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	m := model.NewMesh()
	m.Vertices.Intern(model.Point3i{X: 0, Y: 0, Z: 0})
	m.AddFace([]int{0, 1, 2}, model.Indexed(0))

	var buf bytes.Buffer
	if err := NewWriter(&buf).Encode(m); err == nil {
		t.Fatal("Encode accepted face indices past the vertex table")
	}
}

func TestRoundTrip(t *testing.T) {
	// §8 scenario: decode then re-encode with no duplicate points must
	// reproduce the same vertex lines and the same edge record.
	input := "3DG1\n2\n0 0 0\n1 0 0\n2 0 1 5\n\x1a"

	mesh, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf).Encode(mesh); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.String() != input {
		t.Errorf("round trip:\n%q\nwant:\n%q", buf.String(), input)
	}
}

func TestRoundTripEquivalence(t *testing.T) {
	input := "3DG1\n4\n0 0 0\n10 0 0\n10 10 0\n0 10 0\n4 0 1 2 3 20\n3 3 2 1 7\n2 0 3 47\n\x1a"

	first, err := NewReader(strings.NewReader(input)).Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	var buf bytes.Buffer
	if err := NewWriter(&buf).Encode(first); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := NewReader(bytes.NewReader(buf.Bytes())).Decode()
	if err != nil {
		t.Fatalf("second Decode failed: %v", err)
	}

	if second.Vertices.Len() != first.Vertices.Len() {
		t.Fatalf("vertex count changed: %d -> %d", first.Vertices.Len(), second.Vertices.Len())
	}
	for i := 0; i < first.Vertices.Len(); i++ {
		if first.Vertices.At(i) != second.Vertices.At(i) {
			t.Errorf("vertex %d changed: %+v -> %+v", i, first.Vertices.At(i), second.Vertices.At(i))
		}
	}
	if len(second.Faces) != len(first.Faces) || len(second.Edges) != len(first.Edges) {
		t.Fatalf("record counts changed: %d/%d -> %d/%d",
			len(first.Faces), len(first.Edges), len(second.Faces), len(second.Edges))
	}
	for i := range first.Faces {
		a, b := first.Faces[i], second.Faces[i]
		if a.Color != b.Color || len(a.Indices) != len(b.Indices) {
			t.Errorf("face %d changed: %+v -> %+v", i, a, b)
		}
		for j := range a.Indices {
			if a.Indices[j] != b.Indices[j] {
				t.Errorf("face %d index %d changed: %d -> %d", i, j, a.Indices[j], b.Indices[j])
			}
		}
	}
}

func TestEncodeAnimRoundTrip(t *testing.T) {
	anim := &model.AnimatedMesh{
		Frames: [][]model.Point3i{
			{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 0, Y: 10, Z: 0}},
			{{X: 0, Y: 1, Z: 0}, {X: 10, Y: 1, Z: 0}, {X: 0, Y: 11, Z: 0}},
		},
		Faces: []model.Face{{Indices: []int{0, 1, 2}, Color: model.Indexed(3)}},
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf).EncodeAnim(anim); err != nil {
		t.Fatalf("EncodeAnim failed: %v", err)
	}

	got, err := NewReader(bytes.NewReader(buf.Bytes())).DecodeAnim()
	if err != nil {
		t.Fatalf("DecodeAnim failed: %v", err)
	}
	if len(got.Frames) != 2 || got.Frames[1][2] != (model.Point3i{X: 0, Y: 11, Z: 0}) {
		t.Errorf("frames changed: %+v", got.Frames)
	}
	if len(got.Faces) != 1 || got.Faces[0].Color != model.Indexed(3) {
		t.Errorf("faces changed: %+v", got.Faces)
	}
}

func TestEncodeAnimRejectsRaggedFrames(t *testing.T) {
	anim := &model.AnimatedMesh{
		Frames: [][]model.Point3i{
			{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}},
			{{X: 0, Y: 0, Z: 0}},
		},
	}
	var buf bytes.Buffer
	if err := NewWriter(&buf).EncodeAnim(anim); err == nil {
		t.Fatal("EncodeAnim accepted frames with differing vertex counts")
	}
}
