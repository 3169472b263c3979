// Package colbox reads and writes the collision-box microformat: one
// tab-separated record per box, with a comma-separated payload. The host
// editor moves these through a text buffer (clipboard), independent of the
// mesh codecs.
package colbox

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fxconv/internal/model"
)

// Box is one axis-aligned collision box descriptor.
type Box struct {
	Label      string
	Linked     string // linked shape label, may be empty
	OX, OY, OZ int    // origin offset
	Rotation   int
	DX, DY, DZ int // half-extents
	FlagsSet   uint32
	FlagsClear uint32
	Scale      int
}

// Parse decodes one "label<TAB>colbox<TAB>payload" record.
func Parse(line string) (Box, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != 3 || fields[1] != "colbox" {
		return Box{}, fmt.Errorf("colbox record %q: %w", line, model.ErrMalformedRecord)
	}

	parts := strings.Split(fields[2], ",")
	if len(parts) != 11 {
		return Box{}, fmt.Errorf("colbox payload has %d fields, want 11: %w", len(parts), model.ErrMalformedRecord)
	}

	b := Box{Label: fields[0], Linked: strings.TrimSpace(parts[0])}

	ints := make([]int, 8)
	for i, pos := range []int{1, 2, 3, 4, 5, 6, 7, 10} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[pos]))
		if err != nil {
			return Box{}, fmt.Errorf("colbox field %q: %w", parts[pos], model.ErrMalformedRecord)
		}
		ints[i] = v
	}
	b.OX, b.OY, b.OZ = ints[0], ints[1], ints[2]
	b.Rotation = ints[3]
	b.DX, b.DY, b.DZ = ints[4], ints[5], ints[6]
	b.Scale = ints[7]

	for i, dst := range []*uint32{&b.FlagsSet, &b.FlagsClear} {
		s := strings.TrimSpace(parts[8+i])
		v, err := strconv.ParseUint(s, 0, 32) // accepts 0x-prefixed hex
		if err != nil {
			return Box{}, fmt.Errorf("colbox flags %q: %w", s, model.ErrMalformedRecord)
		}
		*dst = uint32(v)
	}

	return b, nil
}

// Format encodes the box back into its one-line record.
func (b Box) Format() string {
	return fmt.Sprintf("%s\tcolbox\t%s,%d,%d,%d,%d,%d,%d,%d,0x%x,0x%x,%d",
		b.Label, b.Linked, b.OX, b.OY, b.OZ, b.Rotation,
		b.DX, b.DY, b.DZ, b.FlagsSet, b.FlagsClear, b.Scale)
}

// ParseAll decodes every non-blank line of a buffer.
func ParseAll(r io.Reader) ([]Box, error) {
	var boxes []Box
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		b, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		boxes = append(boxes, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return boxes, nil
}

// WriteAll emits one record per line.
func WriteAll(w io.Writer, boxes []Box) error {
	for _, b := range boxes {
		if _, err := fmt.Fprintln(w, b.Format()); err != nil {
			return fmt.Errorf("write colbox: %w", err)
		}
	}
	return nil
}
