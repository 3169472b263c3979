// Package palette resolves face and edge color tags to RGB triples.
//
// Indexed tags select a slot in one of the fixed revisioned tables below;
// packed tags carry a 24-bit BGR value directly. Unknown slots degrade to
// white instead of failing: legacy content routinely references indices
// that never had a material defined.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"fxconv/internal/model"
)

// RGB is an 8-bit-per-channel display color.
type RGB struct {
	R, G, B uint8
}

// Fallback is returned for palette slots outside the known 0-52 range.
var Fallback = RGB{0xff, 0xff, 0xff}

// Revision selects one of the fixed palette tables. Revisions are not
// interchangeable; a resolve call uses exactly one of them.
type Revision int

const (
	// RevID0C is the legacy id_0_c table. Slot 47 is the "invisible"
	// black used for hidden geometry.
	RevID0C Revision = iota
	// RevEffects shares the static slots with RevID0C but resolves the
	// cycling effect slots (42-46, 52) to their first cycle color.
	RevEffects
)

// ParseRevision maps a config/CLI name to a revision.
func ParseRevision(s string) (Revision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "id_0_c", "id0c", "legacy":
		return RevID0C, nil
	case "effects":
		return RevEffects, nil
	}
	return RevID0C, fmt.Errorf("unknown palette revision %q", s)
}

// id0c is the legacy id_0_c material palette, slots 0-52.
var id0c = [53]RGB{
	{0x66, 0x87, 0x74}, // 0  solid dark grey
	{0x36, 0x53, 0x3d}, // 1  solid darker grey
	{0xa5, 0x41, 0x24}, // 2  shaded bright red / dark red
	{0x24, 0x16, 0x87}, // 3  shaded blue / bright blue
	{0xb8, 0x8b, 0x36}, // 4  shaded bright orange / black
	{0x49, 0x41, 0xac}, // 5  shaded turquoise / black
	{0x47, 0x31, 0x1c}, // 6  solid dark red
	{0x1c, 0x22, 0x3d}, // 7  solid blue
	{0x54, 0x1e, 0x8b}, // 8  shaded red / blue
	{0x12, 0x50, 0x12}, // 9  shaded green / dark green
	{0x18, 0x29, 0x18}, // 10 solid black
	{0x2f, 0x3e, 0x2f}, // 11 shaded black / dark grey
	{0x46, 0x53, 0x46}, // 12 solid dark grey
	{0x5d, 0x69, 0x5d}, // 13 shaded dark grey / darker grey
	{0x74, 0x7e, 0x74}, // 14 solid darker grey
	{0x8b, 0x94, 0x8b}, // 15 shaded darker grey / brighter grey
	{0xa2, 0xa9, 0xa2}, // 16 solid brighter grey
	{0xb9, 0xbe, 0xb9}, // 17 shaded brighter grey / bright grey
	{0xd0, 0xd4, 0xd0}, // 18 solid bright grey
	{0xe7, 0xe9, 0xe7}, // 19 shaded bright grey / white
	{0xff, 0xff, 0xff}, // 20 solid white
	{0x8b, 0x10, 0x08}, // 21 solid dark red
	{0xb0, 0x2d, 0x18}, // 22 shaded bright red / dark red
	{0xd5, 0x4a, 0x29}, // 23 solid bright red
	{0xe1, 0x7b, 0x35}, // 24 shaded bright red / orange
	{0xee, 0xac, 0x41}, // 25 solid orange
	{0xf6, 0xc5, 0x55}, // 26 shaded bright orange / orange
	{0xff, 0xde, 0x6a}, // 27 solid bright orange
	{0x29, 0x10, 0xac}, // 28 solid blue
	{0x41, 0x2d, 0xc5}, // 29 shaded blue / dark turquoise
	{0x5a, 0x4a, 0xde}, // 30 solid dark turquoise
	{0x6a, 0x77, 0xee}, // 31 shaded bright blue / dark turquoise
	{0x7b, 0xa4, 0xff}, // 32 solid bright blue
	{0x97, 0xc9, 0xff}, // 33 shaded turquoise / dark turquoise
	{0xb4, 0xee, 0xff}, // 34 solid turquoise
	{0x83, 0x5a, 0x83}, // 35 shaded dark red / bright blue
	{0xa8, 0x77, 0x94}, // 36 shaded bright red / bright blue
	{0xb4, 0xa8, 0xa0}, // 37 shaded bright orange / bright blue
	{0xbd, 0xc1, 0xb4}, // 38 shaded orange / bright blue
	{0x20, 0x93, 0x25}, // 39 shaded dark green / dark grey
	{0x00, 0xc5, 0x00}, // 40 solid dark green
	{0x6a, 0xd5, 0x6a}, // 41 shaded dark green / bright turquoise
	{0x18, 0x29, 0x18}, // 42 flashing white/turquoise/bright red/green
	{0xd5, 0x4a, 0x29}, // 43 jet fire
	{0x29, 0x10, 0xac}, // 44 blaster
	{0x73, 0x94, 0x83}, // 45 flashing white/light grey/grey/dark grey
	{0x73, 0x94, 0x83}, // 46 flashing orange/yellow/turquoise/white
	{0x00, 0x00, 0x00}, // 47 invisible
	{0xff, 0xff, 0xff}, // 48 asteroid texture
	{0xff, 0xff, 0xff}, // 49 wire texture
	{0xff, 0xff, 0xff}, // 50 wire texture
	{0xff, 0xff, 0xff}, // 51 wire texture
	{0xf6, 0xff, 0xff}, // 52 fading red/orange/turquoise/blue
}

// effects resolves the cycling slots to their first cycle color; everything
// static is shared with id0c.
var effects = func() [53]RGB {
	t := id0c
	t[42] = RGB{0xff, 0xff, 0xff} // flashing, cycle starts white
	t[43] = RGB{0xff, 0xde, 0x6a} // jet fire, cycle starts bright orange
	t[44] = RGB{0xb4, 0xee, 0xff} // blaster, cycle starts bright turquoise
	t[45] = RGB{0xff, 0xff, 0xff} // flashing, cycle starts white
	t[46] = RGB{0xee, 0xac, 0x41} // flashing, cycle starts orange
	t[52] = RGB{0xd5, 0x4a, 0x29} // fading, cycle starts solid red
	return t
}()

func tableFor(rev Revision) *[53]RGB {
	if rev == RevEffects {
		return &effects
	}
	return &id0c
}

// Resolve maps a color tag to an RGB triple using the given revision.
// Indexed tags outside 0-52 resolve to Fallback white.
func Resolve(tag model.ColorTag, rev Revision) RGB {
	if tag.Kind == model.ColorPacked {
		return FromPackedBGR(tag.Packed)
	}
	t := tableFor(rev)
	if int(tag.Index) >= len(t) {
		return Fallback
	}
	return t[tag.Index]
}

// FromPackedBGR unpacks a 24-bit BGR value as stored in listing records.
func FromPackedBGR(v uint32) RGB {
	return RGB{
		R: uint8(v & 0xff),
		G: uint8(v >> 8 & 0xff),
		B: uint8(v >> 16 & 0xff),
	}
}

// Hex formats the color as a "#rrggbb" literal.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a "#rrggbb" or "rrggbb" literal.
func ParseHex(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Linear converts the color to linear-light float channels, applying the
// sRGB decode. Consumers that blend or light in linear space need this;
// the encoder never does, because raw tags are round-tripped untouched.
func (c RGB) Linear() (r, g, b float32) {
	return srgbToLinear(c.R), srgbToLinear(c.G), srgbToLinear(c.B)
}

func srgbToLinear(c uint8) float32 {
	v := float32(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}
