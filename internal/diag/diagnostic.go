package diag

import (
	"sort"
	"strings"

	"caret/internal/source"
)

// ColRange is a 0-based column range within a single source line, end
// exclusive, already clipped to that line.
type ColRange struct {
	Start int
	End   int
}

// FixIt is a suggested edit: replace the bytes covered by Range with Text.
// An empty Range is a pure insertion.
type FixIt struct {
	Range source.Range
	Text  string
}

// Renderable reports whether the fix-it can be drawn on a single annotated
// line. Replacement text with newlines, carriage returns, or tabs cannot;
// such fix-its stay in the model but are skipped by the renderer.
func (f FixIt) Renderable() bool {
	return !strings.ContainsAny(f.Text, "\n\r\t")
}

// Diagnostic is an immutable snapshot of one reported event. It carries
// everything rendering needs, so it stays valid and printable even after
// the front end moves on.
type Diagnostic struct {
	Severity Severity
	Pos      source.Pos

	Filename string
	// Line is 1-based, -1 when the location is invalid.
	Line int
	// Col is 0-based, -1 when the location is invalid.
	Col int

	Message string
	// LineText is the exact text of the reported line, trailing newline
	// stripped.
	LineText string
	// Ranges are column ranges clipped to the reported line.
	Ranges []ColRange
	// FixIts are sorted by range start, then end.
	FixIts []FixIt
}

// HasLocation reports whether the diagnostic points at an actual line and
// column.
func (d Diagnostic) HasLocation() bool {
	return d.Line != -1 && d.Col != -1
}

func sortFixIts(fixits []FixIt) []FixIt {
	if len(fixits) == 0 {
		return nil
	}
	out := append([]FixIt(nil), fixits...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Range.Start != out[j].Range.Start {
			return out[i].Range.Start < out[j].Range.Start
		}
		return out[i].Range.End < out[j].Range.End
	})
	return out
}
