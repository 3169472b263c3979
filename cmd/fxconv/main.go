package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fxconv/internal/config"
	"fxconv/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfg = config.Default()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Sync()
}

var rootCmd = &cobra.Command{
	Use:   "fxconv",
	Short: "Convert 3DG1-family shape files",
	Long: `fxconv is a tool for working with 3DG1-family mesh files.

It converts between the single-frame 3DG1 format, the animated 3DAN
variant, and BSP/GZS assembly shape listings, with draw-order sorting
for painter's-algorithm renderers and palette inspection for the fixed
FX material tables.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./fxconv.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also log to this file (rotated)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(colboxCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file and initializes logging before any command
// runs. Flags override file values.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.Logging.LogFile = file
	}
	return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fxconv %s (commit %s, built %s)\n", version, commit, date)
	},
}
