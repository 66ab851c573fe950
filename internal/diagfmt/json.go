package diagfmt

import (
	"encoding/json"
	"io"

	"caret/internal/diag"
)

// RangeJSON is a clipped column range on the reported line.
type RangeJSON struct {
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// FixItJSON is one suggested edit.
type FixItJSON struct {
	StartPos   int    `json:"start_pos"`
	EndPos     int    `json:"end_pos"`
	Text       string `json:"text"`
	Renderable bool   `json:"renderable"`
}

// DiagnosticJSON is the machine-readable form of one diagnostic.
type DiagnosticJSON struct {
	Severity string      `json:"severity"`
	File     string      `json:"file"`
	Line     int         `json:"line,omitempty"`
	Col      int         `json:"col,omitempty"`
	Message  string      `json:"message"`
	LineText string      `json:"line_text,omitempty"`
	Ranges   []RangeJSON `json:"ranges,omitempty"`
	FixIts   []FixItJSON `json:"fixits,omitempty"`
}

// Output is the root of the JSON document.
type Output struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON writes diagnostics as an indented JSON document.
func JSON(w io.Writer, diags []diag.Diagnostic, opts JSONOpts) error {
	out := Output{
		Diagnostics: make([]DiagnosticJSON, 0, len(diags)),
		Count:       len(diags),
	}

	for i, d := range diags {
		if opts.Max > 0 && i >= opts.Max {
			break
		}

		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			File:     FormatPath(d.Filename, opts.PathMode),
			Message:  d.Message,
			LineText: d.LineText,
		}
		if d.HasLocation() {
			dj.Line = d.Line
			dj.Col = d.Col + 1
		}
		for _, r := range d.Ranges {
			dj.Ranges = append(dj.Ranges, RangeJSON{StartCol: r.Start, EndCol: r.End})
		}
		if opts.IncludeFixIts {
			for _, f := range d.FixIts {
				dj.FixIts = append(dj.FixIts, FixItJSON{
					StartPos:   int(f.Range.Start),
					EndPos:     int(f.Range.End),
					Text:       f.Text,
					Renderable: f.Renderable(),
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
