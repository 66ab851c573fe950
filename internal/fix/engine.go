package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"caret/internal/diag"
	"caret/internal/source"
)

// ErrNoFixes is returned when diagnostics carried no applicable fix-its.
var ErrNoFixes = errors.New("no applicable fixes found")

// Options configures fix application.
type Options struct {
	// DryRun stages all changes and reports them without touching disk.
	DryRun bool
}

// AppliedEdit records one fix-it that made it into a file.
type AppliedEdit struct {
	Path    string
	Message string
	Start   int
	End     int
	Text    string
}

// SkippedEdit captures a fix-it that was not applied, with a reason.
type SkippedEdit struct {
	Path   string
	Reason string
}

// FileChange summarizes modifications performed on (or staged for) a file.
type FileChange struct {
	Path      string
	EditCount int
	// NewContent holds the rewritten file, populated on dry runs so callers
	// can preview.
	NewContent []byte
}

// Result aggregates applied edits, skipped ones, and file changes.
type Result struct {
	Applied []AppliedEdit
	Skipped []SkippedEdit
	Changes []FileChange
}

type candidate struct {
	id    source.BufferID
	start int
	end   int
	text  string
	msg   string
	order int
}

// Apply collects fix-its from diagnostics, drops conflicting or out-of-range
// ones, and applies the rest to the owning files. Buffers registered from
// memory are never written back.
func Apply(files *source.Set, diags []diag.Diagnostic, opts Options) (*Result, error) {
	if files == nil {
		return nil, fmt.Errorf("fix: source set is nil")
	}
	result := &Result{
		Applied: make([]AppliedEdit, 0),
		Skipped: make([]SkippedEdit, 0),
		Changes: make([]FileChange, 0),
	}

	candidates := gatherCandidates(files, diags, result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)
	selected := dropConflicts(files, candidates, result)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	if err := applyCandidates(files, selected, opts, result); err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates resolves each fix-it range to its owning buffer and
// records the ones that cannot be applied as skips.
func gatherCandidates(files *source.Set, diags []diag.Diagnostic, result *Result) []candidate {
	cands := make([]candidate, 0)

	order := 0
	for _, d := range diags {
		for _, f := range d.FixIts {
			if !f.Range.IsValid() {
				result.Skipped = append(result.Skipped, SkippedEdit{
					Path:   d.Filename,
					Reason: "fix-it range is invalid",
				})
				continue
			}
			id := files.FindBufferContaining(f.Range.Start)
			if id == 0 {
				result.Skipped = append(result.Skipped, SkippedEdit{
					Path:   d.Filename,
					Reason: "fix-it range outside registered buffers",
				})
				continue
			}
			buf := files.Buffer(id)
			if !buf.Contains(f.Range.End) {
				result.Skipped = append(result.Skipped, SkippedEdit{
					Path:   buf.Name(),
					Reason: "fix-it range spans multiple buffers",
				})
				continue
			}
			if buf.Flags()&source.BufferVirtual != 0 {
				result.Skipped = append(result.Skipped, SkippedEdit{
					Path:   buf.Name(),
					Reason: "target buffer is virtual",
				})
				continue
			}
			cands = append(cands, candidate{
				id:    id,
				start: buf.Offset(f.Range.Start),
				end:   buf.Offset(f.Range.End),
				text:  f.Text,
				msg:   d.Message,
				order: order,
			})
			order++
		}
	}
	return cands
}

// sortCandidates orders edits by buffer, then offset, then insertion order,
// so selection and application are deterministic.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		ci, cj := cands[i], cands[j]
		if ci.id != cj.id {
			return ci.id < cj.id
		}
		if ci.start != cj.start {
			return ci.start < cj.start
		}
		if ci.end != cj.end {
			return ci.end < cj.end
		}
		return ci.order < cj.order
	})
}

// dropConflicts keeps the first edit of every overlapping pair. Touching
// ranges are fine; overlapping ones are not.
func dropConflicts(files *source.Set, cands []candidate, result *Result) []candidate {
	selected := make([]candidate, 0, len(cands))
	var last *candidate
	for i := range cands {
		c := cands[i]
		if last != nil && c.id == last.id && c.start < last.end {
			result.Skipped = append(result.Skipped, SkippedEdit{
				Path:   files.Buffer(c.id).Name(),
				Reason: fmt.Sprintf("conflicts with edit at offset %d", last.start),
			})
			continue
		}
		selected = append(selected, c)
		last = &selected[len(selected)-1]
	}
	return selected
}

func applyCandidates(files *source.Set, selected []candidate, opts Options, result *Result) error {
	byBuffer := make(map[source.BufferID][]candidate)
	ids := make([]source.BufferID, 0)
	for _, c := range selected {
		if _, ok := byBuffer[c.id]; !ok {
			ids = append(ids, c.id)
		}
		byBuffer[c.id] = append(byBuffer[c.id], c)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		buf := files.Buffer(id)
		edits := byBuffer[id]
		working := append([]byte(nil), buf.Content()...)

		// Apply back to front so earlier offsets stay valid.
		for i := len(edits) - 1; i >= 0; i-- {
			e := edits[i]
			suffix := append([]byte(nil), working[e.end:]...)
			working = append(append(working[:e.start], []byte(e.text)...), suffix...)

			result.Applied = append(result.Applied, AppliedEdit{
				Path:    buf.Name(),
				Message: e.msg,
				Start:   e.start,
				End:     e.end,
				Text:    e.text,
			})
		}

		change := FileChange{Path: buf.Name(), EditCount: len(edits)}
		if opts.DryRun {
			change.NewContent = working
		} else {
			mode := os.FileMode(0o644)
			if info, err := os.Stat(buf.Name()); err == nil {
				mode = info.Mode()
			}
			if err := os.WriteFile(buf.Name(), working, mode); err != nil {
				return fmt.Errorf("fix: write %s: %w", buf.Name(), err)
			}
		}
		result.Changes = append(result.Changes, change)
	}

	// Applied edits were appended buffer by buffer in reverse; present them
	// in file order.
	sort.SliceStable(result.Applied, func(i, j int) bool {
		if result.Applied[i].Path != result.Applied[j].Path {
			return result.Applied[i].Path < result.Applied[j].Path
		}
		return result.Applied[i].Start < result.Applied[j].Start
	})
	return nil
}
