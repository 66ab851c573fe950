package main

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"caret/internal/diag"
	"caret/internal/diagfmt"
	"caret/internal/fix"
	"caret/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] -e <pattern> -r <replacement> <file> [file...]",
	Short: "Rewrite regexp matches in place",
	Long: `Search files for a regular expression, turn every match into a fix-it
replacing it with the given text, and apply the edits. With --dry-run the
rewritten files are only previewed as diagnostics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFixCmd,
}

func init() {
	fixCmd.Flags().StringP("pattern", "e", "", "regular expression to replace (required)")
	fixCmd.Flags().StringP("replacement", "r", "", "replacement text")
	fixCmd.Flags().Bool("dry-run", false, "preview changes without modifying files")
	_ = fixCmd.MarkFlagRequired("pattern")
}

func runFixCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	pattern, err := cmd.Flags().GetString("pattern")
	if err != nil {
		return err
	}
	replacement, err := cmd.Flags().GetString("replacement")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}

	cfg, _, err := loadConfig(".")
	if err != nil {
		return err
	}
	setup, err := resolveOutput(cmd, cfg)
	if err != nil {
		return err
	}

	// Fixes across files share one set, applied sequentially.
	files := source.NewSet()
	bag := diag.NewBag(maxDiagnostics)
	for _, path := range args {
		id, err := files.AddBufferFile(path)
		if err != nil {
			return err
		}
		buf := files.Buffer(id)

		for _, m := range re.FindAllIndex(buf.Content(), -1) {
			pos := buf.Pos(m[0])
			rng := source.MakeRange(pos, buf.Pos(m[1]))
			fixit := diag.FixIt{Range: rng, Text: replacement}
			bag.Add(diag.Build(files, pos, diag.SevNote,
				fmt.Sprintf("replace %q with %q", string(buf.Content()[m[0]:m[1]]), replacement),
				[]source.Range{rng}, []diag.FixIt{fixit}))
		}
	}

	result, err := fix.Apply(files, bag.Items(), fix.Options{DryRun: dryRun})
	if err != nil {
		if errors.Is(err, fix.ErrNoFixes) {
			if !quiet {
				fmt.Println("nothing to fix")
			}
			return nil
		}
		return err
	}

	for _, sk := range result.Skipped {
		logger.Warn("skipped fix", "path", sk.Path, "reason", sk.Reason)
	}

	if dryRun {
		for _, d := range bag.Items() {
			diagfmt.Print(setup.sink, d, setup.opts)
		}
	}
	if !quiet {
		verb := "rewrote"
		if dryRun {
			verb = "would rewrite"
		}
		total := 0
		for _, ch := range result.Changes {
			total += ch.EditCount
		}
		fmt.Printf("%s %d %s in %d %s\n",
			verb, total, pluralize("match", "matches", total),
			len(result.Changes), pluralize("file", "files", len(result.Changes)))
	}
	return nil
}

func pluralize(one, many string, n int) string {
	if n == 1 {
		return one
	}
	return many
}
