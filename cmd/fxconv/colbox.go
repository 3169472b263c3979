package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fxconv/internal/colbox"
)

var colboxCmd = &cobra.Command{
	Use:   "colbox <input>",
	Short: "Parse and reformat collision-box records",
	Long: `Parse collision-box records (label<TAB>colbox<TAB>payload lines,
as carried through the editor clipboard) and reprint them normalized, or
as JSON for inspection.`,
	Args: cobra.ExactArgs(1),
	RunE: runColbox,
}

func init() {
	colboxCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	colboxCmd.Flags().String("format", "text", "Output format: text, json")
}

func runColbox(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	boxes, err := colbox.ParseAll(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if format == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(boxes)
	}
	return colbox.WriteAll(out, boxes)
}
