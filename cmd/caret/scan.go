package main

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"caret/internal/diag"
	"caret/internal/diagfmt"
	"caret/internal/source"
	"caret/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] -e <pattern> <file> [file...]",
	Short: "Report regexp matches as caret diagnostics",
	Long: `Scan files for a regular expression and render every match as an annotated
diagnostic with the match range underlined. Files are processed in parallel,
each with its own buffer set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringP(
		"pattern", "e", "", "regular expression to search for (required)")
	scanCmd.Flags().StringP("severity", "s", "warning", "severity for matches (error|warning|note|remark)")
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	scanCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	scanCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
	_ = scanCmd.MarkFlagRequired("pattern")
}

type scanOutcome struct {
	path  string
	diags []diag.Diagnostic
	err   error
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	pattern, err := cmd.Flags().GetString("pattern")
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
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
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

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	useProgress := len(args) > 1 && format == "pretty" && !quiet && shouldShowProgress(uiValue)

	var events chan ui.Event
	if useProgress {
		events = make(chan ui.Event, 256)
	}

	outcomes := make([]scanOutcome, len(args))
	run := func() error {
		// One buffer set per file keeps every goroutine on private state;
		// the set itself is not safe for concurrent use.
		g := new(errgroup.Group)
		g.SetLimit(jobs)
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				if events != nil {
					events <- ui.Event{File: path, Status: ui.StatusScanning}
				}
				diags, err := scanFile(path, re, sev, maxDiagnostics)
				outcomes[i] = scanOutcome{path: path, diags: diags, err: err}
				if events != nil {
					status := ui.StatusDone
					if err != nil {
						status = ui.StatusError
					}
					events <- ui.Event{File: path, Status: status, Findings: len(diags)}
				}
				return nil
			})
		}
		return g.Wait()
	}

	if useProgress {
		done := make(chan error, 1)
		go func() {
			done <- run()
			close(events)
		}()
		program := tea.NewProgram(ui.NewProgressModel("scanning", args, events), tea.WithOutput(os.Stderr))
		if _, uiErr := program.Run(); uiErr != nil {
			logger.Warn("progress display failed", "err", uiErr)
		}
		if err := <-done; err != nil {
			return err
		}
	} else if err := run(); err != nil {
		return err
	}

	all := make([]diag.Diagnostic, 0)
	scanned := 0
	for _, oc := range outcomes {
		if oc.err != nil {
			logger.Error("scan failed", "path", oc.path, "err", oc.err)
			continue
		}
		scanned++
		all = append(all, oc.diags...)
	}

	switch strings.ToLower(format) {
	case "pretty":
		for _, d := range all {
			diagfmt.Print(setup.sink, d, setup.opts)
		}
		if !quiet {
			errs, warns := tally(all)
			fmt.Fprintln(os.Stderr, ui.RenderSummary(errs, warns, scanned))
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, all, diagfmt.JSONOpts{PathMode: setup.opts.PathMode}); err != nil {
			return err
		}
	case "short":
		fmt.Print(diag.FormatShort(all))
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json, or short)", format)
	}

	if scanned < len(outcomes) {
		return fmt.Errorf("failed to scan %d of %d files", len(outcomes)-scanned, len(outcomes))
	}
	if errs, _ := tally(all); errs > 0 {
		// Rendered output is complete; signal findings via exit status.
		os.Exit(1)
	}
	return nil
}

// scanFile reports every regexp match in one file as a diagnostic. It builds
// its own buffer set so concurrent scans never share mutable state.
func scanFile(path string, re *regexp.Regexp, sev diag.Severity, maxDiags int) ([]diag.Diagnostic, error) {
	files := source.NewSet()
	id, err := files.AddBufferFile(path)
	if err != nil {
		return nil, err
	}
	buf := files.Buffer(id)

	matches := re.FindAllIndex(buf.Content(), maxDiags)
	if len(matches) == 0 {
		return nil, nil
	}

	bag := diag.NewBag(maxDiags)
	for _, m := range matches {
		pos := buf.Pos(m[0])
		rng := source.MakeRange(pos, buf.Pos(m[1]))
		bag.Add(diag.Build(files, pos, sev, fmt.Sprintf("match for /%s/", re), []source.Range{rng}, nil))
	}
	bag.Sort()
	return bag.Items(), nil
}

func tally(diags []diag.Diagnostic) (errs, warns int) {
	for _, d := range diags {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return errs, warns
}

func shouldShowProgress(value string) bool {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stderr)
	}
}
