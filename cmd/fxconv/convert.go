package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fxconv/internal/logger"
	"fxconv/internal/model"
	"fxconv/internal/order"
	"fxconv/internal/palette"
	"fxconv/pkg/fxconv"
)

// input is a decoded source file: exactly one of mesh/anim is set.
type input struct {
	variant string
	mesh    *model.Mesh
	anim    *model.AnimatedMesh
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert between 3DG1, 3DAN and listing formats",
	Long: `Convert a shape file to 3DG1 or 3DAN.

The input format is sniffed from the header line unless --from is given;
anything without a 3DG1/3DGI/3DAN header is treated as a BSP/GZS listing.
Record emission order is controlled with --sort (draw order for painter's
algorithm renderers).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	convertCmd.Flags().String("from", "auto", "Input format: auto, 3dg1, 3dan, listing")
	convertCmd.Flags().String("to", "3dg1", "Output format: 3dg1, 3dan")
	convertCmd.Flags().String("sort", "", "Record order: none, distance, material")
	convertCmd.Flags().String("codepage", "", "Listing codepage: cp437, cp850, cp1252, utf8")
	convertCmd.Flags().Int("frame", 0, "Frame to extract when writing 3DG1 from an animated input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	sortName, _ := cmd.Flags().GetString("sort")
	codepage, _ := cmd.Flags().GetString("codepage")
	frame, _ := cmd.Flags().GetInt("frame")

	if sortName == "" {
		sortName = cfg.Convert.Sort
	}
	mode, err := order.ParseMode(sortName)
	if err != nil {
		return err
	}

	in, err := decodeInput(args[0], from, codepage)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	logInput(args[0], in)

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	switch to {
	case "3dg1":
		mesh := in.mesh
		if mesh == nil {
			mesh, err = frameMesh(in.anim, frame)
			if err != nil {
				return err
			}
		}
		return fxconv.Encode3DG1(out, mesh, mode)

	case "3dan":
		anim := in.anim
		if anim == nil {
			anim = &model.AnimatedMesh{
				Frames: [][]model.Point3i{in.mesh.Vertices.Points()},
				Faces:  in.mesh.Faces,
				Edges:  in.mesh.Edges,
			}
		}
		return fxconv.Encode3DAN(out, anim, mode)
	}
	return fmt.Errorf("unknown output format: %s", to)
}

// decodeInput reads and parses one source file.
func decodeInput(path, from, codepage string) (*input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	if from == "auto" || from == "" {
		from = sniff(data)
	}
	if codepage == "" {
		codepage = cfg.Listing.Codepage
	}

	switch from {
	case "3dg1":
		mesh, err := fxconv.Decode3DG1(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &input{variant: "3dg1", mesh: mesh}, nil
	case "3dan":
		anim, err := fxconv.Decode3DAN(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &input{variant: "3dan", anim: anim}, nil
	case "listing":
		mesh, err := fxconv.DecodeListingCodepage(bytes.NewReader(data), codepage)
		if err != nil {
			return nil, err
		}
		return &input{variant: "listing", mesh: mesh}, nil
	}
	return nil, fmt.Errorf("unknown input format: %s", from)
}

// sniff maps the first non-blank line to a format name. Files without a
// recognized header are assumed to be assembly listings.
func sniff(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch fxconv.Detect(line) {
		case model.Format3DG1:
			return "3dg1"
		case model.Format3DAN:
			return "3dan"
		}
		return "listing"
	}
	return "listing"
}

// frameMesh flattens one animation frame into a single-frame mesh,
// re-deduplicating its positions.
func frameMesh(anim *model.AnimatedMesh, frame int) (*model.Mesh, error) {
	if frame < 0 || frame >= len(anim.Frames) {
		return nil, fmt.Errorf("frame %d of %d: %w", frame, len(anim.Frames), model.ErrOutOfRange)
	}

	mesh := model.NewMesh()
	positions := anim.Frames[frame]
	remap := make([]int, len(positions))
	for i, p := range positions {
		remap[i] = mesh.Vertices.Intern(p)
	}
	for _, f := range anim.Faces {
		mapped := make([]int, len(f.Indices))
		for i, idx := range f.Indices {
			mapped[i] = remap[idx]
		}
		mesh.AddFace(mapped, f.Color)
	}
	for _, e := range anim.Edges {
		mesh.AddEdge(remap[e.A], remap[e.B], e.Color)
	}
	return mesh, nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func logInput(path string, in *input) {
	switch {
	case in.anim != nil:
		logger.Sugar.Debugw("decoded animated shape", "path", path, "variant", in.variant,
			"vertices", in.anim.VertexCount(), "frames", len(in.anim.Frames),
			"faces", len(in.anim.Faces), "edges", len(in.anim.Edges))
	default:
		logger.Sugar.Debugw("decoded shape", "path", path, "variant", in.variant,
			"vertices", in.mesh.Vertices.Len(), "faces", len(in.mesh.Faces),
			"edges", len(in.mesh.Edges), "materials", len(in.mesh.Palette))
	}
}

// info command

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Inspect a shape file",
	Long: `Print counts and the discovered material palette of a shape file,
with each tag resolved to RGB through the selected palette revision.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().String("format", "text", "Output format: text, json")
	infoCmd.Flags().String("from", "auto", "Input format: auto, 3dg1, 3dan, listing")
	infoCmd.Flags().String("codepage", "", "Listing codepage: cp437, cp850, cp1252, utf8")
	infoCmd.Flags().String("revision", "", "Palette revision: id_0_c, effects")
}

func runInfo(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	from, _ := cmd.Flags().GetString("from")
	codepage, _ := cmd.Flags().GetString("codepage")
	revName, _ := cmd.Flags().GetString("revision")

	if revName == "" {
		revName = cfg.Convert.Revision
	}
	rev, err := palette.ParseRevision(revName)
	if err != nil {
		return err
	}

	in, err := decodeInput(args[0], from, codepage)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	if format == "json" {
		return writeJSONInfo(in, rev)
	}

	fmt.Printf("format:   %s\n", in.variant)
	if in.anim != nil {
		fmt.Printf("vertices: %d\nframes:   %d\nfaces:    %d\nedges:    %d\n",
			in.anim.VertexCount(), len(in.anim.Frames), len(in.anim.Faces), len(in.anim.Edges))
		return nil
	}

	m := in.mesh
	fmt.Printf("vertices: %d\nfaces:    %d\nedges:    %d\n", m.Vertices.Len(), len(m.Faces), len(m.Edges))
	fmt.Printf("materials (%d):\n", len(m.Palette))
	for slot, tag := range m.Palette {
		rgb := palette.Resolve(tag, rev)
		fmt.Printf("  %2d  %-10s %s\n", slot, tag.MaterialName(), rgb.Hex())
	}
	return nil
}

func writeJSONInfo(in *input, rev palette.Revision) error {
	out := map[string]interface{}{
		"format": in.variant,
	}
	if in.anim != nil {
		out["vertices"] = in.anim.VertexCount()
		out["frames"] = len(in.anim.Frames)
		out["faces"] = len(in.anim.Faces)
		out["edges"] = len(in.anim.Edges)
	} else {
		m := in.mesh
		out["vertices"] = m.Vertices.Len()
		out["faces"] = len(m.Faces)
		out["edges"] = len(m.Edges)

		materials := make([]map[string]interface{}, len(m.Palette))
		for slot, tag := range m.Palette {
			materials[slot] = map[string]interface{}{
				"slot":  slot,
				"name":  tag.MaterialName(),
				"color": palette.Resolve(tag, rev).Hex(),
			}
		}
		out["materials"] = materials
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// validate command

var validateCmd = &cobra.Command{
	Use:   "validate <input>",
	Short: "Check a shape file for structural errors",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("from", "auto", "Input format: auto, 3dg1, 3dan, listing")
	validateCmd.Flags().String("codepage", "", "Listing codepage: cp437, cp850, cp1252, utf8")
}

func runValidate(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	codepage, _ := cmd.Flags().GetString("codepage")

	in, err := decodeInput(args[0], from, codepage)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", args[0], errorKind(err), err)
	}

	fmt.Printf("%s: OK (%s)\n", args[0], in.variant)
	return nil
}

// errorKind names the codec error category for reporting.
func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrFormatMismatch):
		return "format mismatch"
	case errors.Is(err, model.ErrUnsupportedVariant):
		return "unsupported variant"
	case errors.Is(err, model.ErrTruncated):
		return "truncated"
	case errors.Is(err, model.ErrOutOfRange):
		return "index out of range"
	case errors.Is(err, model.ErrMalformedRecord):
		return "malformed record"
	}
	return "error"
}
