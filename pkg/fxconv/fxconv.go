// Package fxconv provides functions for working with 3DG1-family mesh
// interchange files: the single-frame 3DG1 format, the animated 3DAN
// variant, and BSP/GZS assembly shape listings.
//
// Example usage:
//
//	f, _ := os.Open("ship.3dg1")
//	defer f.Close()
//
//	mesh, err := fxconv.Decode3DG1(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, _ := os.Create("sorted.3dg1")
//	defer out.Close()
//	fxconv.Encode3DG1(out, mesh, order.Distance)
package fxconv

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"fxconv/internal/g3d"
	"fxconv/internal/listing"
	"fxconv/internal/model"
	"fxconv/internal/order"
	"fxconv/internal/palette"
)

// Decode3DG1 parses a single-frame 3DG1 file into a normalized mesh.
// Decode errors wrap the sentinel kinds in the model package
// (model.ErrFormatMismatch and friends); dispatch with errors.Is.
func Decode3DG1(r io.Reader) (*model.Mesh, error) {
	return g3d.NewReader(r).Decode()
}

// Encode3DG1 writes a mesh as 3DG1 text, emitting records in the given
// sort order. The mesh itself is not modified.
func Encode3DG1(w io.Writer, m *model.Mesh, mode order.Mode) error {
	sorted := *m
	sorted.Faces, sorted.Edges = order.Sorted(m.Faces, m.Edges, m.Vertices.Points(), mode)
	return g3d.NewWriter(w).Encode(&sorted)
}

// Decode3DAN parses an animated 3DAN file.
func Decode3DAN(r io.Reader) (*model.AnimatedMesh, error) {
	return g3d.NewReader(r).DecodeAnim()
}

// Encode3DAN writes an animated mesh. Frames are emitted in the order
// given (sort them by frame label before calling); the shared record block
// is ordered by mode using the first frame's positions.
func Encode3DAN(w io.Writer, a *model.AnimatedMesh, mode order.Mode) error {
	sorted := *a
	if len(a.Frames) > 0 {
		sorted.Faces, sorted.Edges = order.Sorted(a.Faces, a.Edges, a.Frames[0], mode)
	}
	return g3d.NewWriter(w).EncodeAnim(&sorted)
}

// DecodeListing parses a BSP/GZS assembly shape listing already decoded to
// UTF-8/ASCII text.
func DecodeListing(r io.Reader) (*model.Mesh, error) {
	return listing.NewReader(r).Decode()
}

// DecodeListingCodepage parses a listing in a named legacy codepage.
// Supported names: cp437, cp850, cp1252, utf8.
func DecodeListingCodepage(r io.Reader, codepage string) (*model.Mesh, error) {
	dec, err := CodepageDecoder(codepage)
	if err != nil {
		return nil, err
	}
	return listing.NewReaderCodepage(r, dec).Decode()
}

// CodepageDecoder maps a codepage name to a text decoder.
func CodepageDecoder(name string) (*encoding.Decoder, error) {
	switch name {
	case "", "cp437":
		return charmap.CodePage437.NewDecoder(), nil
	case "cp850":
		return charmap.CodePage850.NewDecoder(), nil
	case "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	case "utf8":
		return unicode.UTF8.NewDecoder(), nil
	}
	return nil, fmt.Errorf("unknown codepage %q", name)
}

// Detect maps a file's header token to its format variant.
func Detect(header string) model.FormatVariant {
	return model.DetectHeader(header)
}

// ResolveColor maps a face or edge color tag to a display RGB triple using
// the given palette revision.
func ResolveColor(tag model.ColorTag, rev palette.Revision) palette.RGB {
	return palette.Resolve(tag, rev)
}
