package palette

import (
	"testing"

	"fxconv/internal/model"
)

func TestResolveLegacy(t *testing.T) {
	tests := []struct {
		index uint8
		want  RGB
	}{
		{0, RGB{0x66, 0x87, 0x74}},
		{20, RGB{0xff, 0xff, 0xff}},
		{47, RGB{0x00, 0x00, 0x00}}, // invisible black
	}

	for _, tt := range tests {
		got := Resolve(model.Indexed(tt.index), RevID0C)
		if got != tt.want {
			t.Errorf("Resolve(%d, id0c) = %s, want %s", tt.index, got.Hex(), tt.want.Hex())
		}
	}
}

func TestResolveOutOfTableFallsBack(t *testing.T) {
	got := Resolve(model.Indexed(99), RevID0C)
	if got != Fallback {
		t.Errorf("Resolve(99) = %s, want fallback white", got.Hex())
	}
}

func TestResolvePacked(t *testing.T) {
	// Packed values are BGR-ordered: 0xbbggrr.
	got := Resolve(model.PackedBGR(0xcc8844), RevID0C)
	want := RGB{R: 0x44, G: 0x88, B: 0xcc}
	if got != want {
		t.Errorf("packed 0xcc8844 = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestRevisionsDiverge(t *testing.T) {
	// The cycling slots resolve differently per revision; static slots
	// are shared.
	for _, slot := range []uint8{42, 43, 44, 45, 46, 52} {
		if Resolve(model.Indexed(slot), RevID0C) == Resolve(model.Indexed(slot), RevEffects) {
			t.Errorf("slot %d identical across revisions", slot)
		}
	}
	for _, slot := range []uint8{0, 20, 47} {
		if Resolve(model.Indexed(slot), RevID0C) != Resolve(model.Indexed(slot), RevEffects) {
			t.Errorf("static slot %d differs across revisions", slot)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"#ff0000", RGB{255, 0, 0}, true},
		{"668774", RGB{0x66, 0x87, 0x74}, true},
		{"#ff00", RGB{}, false},
		{"#zzzzzz", RGB{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseHex(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseHex(%q) = %v,%v, want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLinearEndpoints(t *testing.T) {
	r, g, b := RGB{0, 0, 0}.Linear()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("black linear = %v,%v,%v, want 0,0,0", r, g, b)
	}

	r, g, b = RGB{255, 255, 255}.Linear()
	if r < 0.999 || r > 1.001 || g != r || b != r {
		t.Errorf("white linear = %v,%v,%v, want 1,1,1", r, g, b)
	}

	// Gamma decode darkens midtones relative to the naive /255 scale.
	mid, _, _ := RGB{128, 128, 128}.Linear()
	if mid >= 128.0/255 {
		t.Errorf("mid grey linear = %v, want < %v", mid, 128.0/255)
	}
}
