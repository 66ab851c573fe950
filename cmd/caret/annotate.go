package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"caret/internal/diag"
	"caret/internal/diagfmt"
	"caret/internal/source"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [flags] <file>:<line>:<col>",
	Short: "Render a diagnostic at a position in a file",
	Long: `Register the file as a source buffer, resolve the given 1-based line and
column, and render a diagnostic there as an annotated snippet. Ranges are
underlined with '~' and fix-its are printed on their own line.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().StringP("message", "m", "", "diagnostic message (required)")
	annotateCmd.Flags().StringP("severity", "s", "error", "severity (error|warning|note|remark)")
	annotateCmd.Flags().StringArray("range", nil, "underline range <line>:<col>-<line>:<col> (repeatable)")
	annotateCmd.Flags().StringArray("fix", nil, "fix-it <line>:<col>-<line>:<col>=<text> (repeatable)")
	annotateCmd.Flags().StringArrayP("include", "I", nil, "directory to search when the file is not found directly (repeatable)")
	annotateCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	_ = annotateCmd.MarkFlagRequired("message")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	msg, err := cmd.Flags().GetString("message")
	if err != nil {
		return err
	}
	sevValue, err := cmd.Flags().GetString("severity")
	if err != nil {
		return err
	}
	sev, err := readSeverity(sevValue)
	if err != nil {
		return err
	}
	rangeSpecs, err := cmd.Flags().GetStringArray("range")
	if err != nil {
		return err
	}
	fixSpecs, err := cmd.Flags().GetStringArray("fix")
	if err != nil {
		return err
	}
	includes, err := cmd.Flags().GetStringArray("include")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	cfg, cfgPath, err := loadConfig(".")
	if err != nil {
		return err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}
	setup, err := resolveOutput(cmd, cfg)
	if err != nil {
		return err
	}

	loc, err := parseFileLocation(args[0])
	if err != nil {
		return err
	}

	files := source.NewSet()
	files.SetIncludeDirs(append(append([]string(nil), cfg.Include.Dirs...), includes...))

	id, resolved, ok := files.AddIncludeFile(loc.path, source.NoPos)
	if !ok {
		return fmt.Errorf("cannot open %s (searched %d include dirs)", loc.path, len(files.IncludeDirs()))
	}
	logger.Debug("registered buffer", "path", resolved, "id", id)

	buf := files.Buffer(id)
	if lines := buf.LineCount(); loc.line > lines {
		return fmt.Errorf("%s has only %d lines, requested line %d", resolved, lines, loc.line)
	}
	pos := buf.PosOf(loc.line, loc.col)

	ranges := make([]source.Range, 0, len(rangeSpecs))
	for _, spec := range rangeSpecs {
		r, err := parseRangeSpec(spec, buf)
		if err != nil {
			return err
		}
		ranges = append(ranges, r)
	}
	fixits := make([]diag.FixIt, 0, len(fixSpecs))
	for _, spec := range fixSpecs {
		f, err := parseFixSpec(spec, buf)
		if err != nil {
			return err
		}
		fixits = append(fixits, f)
	}

	switch strings.ToLower(format) {
	case "pretty":
		emitter := diagfmt.NewEmitter(files, setup.sink, setup.opts)
		emitter.Report(pos, sev, msg, ranges, fixits)
	case "json":
		d := diag.Build(files, pos, sev, msg, ranges, fixits)
		return diagfmt.JSON(os.Stdout, []diag.Diagnostic{d}, diagfmt.JSONOpts{
			PathMode:      setup.opts.PathMode,
			IncludeFixIts: true,
		})
	case "short":
		d := diag.Build(files, pos, sev, msg, ranges, fixits)
		fmt.Print(diag.FormatShort([]diag.Diagnostic{d}))
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json, or short)", format)
	}
	return nil
}
