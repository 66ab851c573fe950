package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"caret/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "caret",
	Short: "Source-location and caret-diagnostic toolkit",
	Long: `caret maps byte positions in registered source buffers to file:line:col
coordinates and renders diagnostics as annotated source snippets with caret
markers, range underlines, and fix-it hints.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newLogger builds the CLI logger; --verbose lowers the level to debug.
func newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err == nil && verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
