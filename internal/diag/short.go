package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatShort renders diagnostics one line per entry in a stable order,
// suitable for golden files and terse CLI output:
//
//	<file>:<line>:<col>: <severity>: <message>
//
// Diagnostics without a location print the filename and message only.
func FormatShort(diags []Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := append([]Diagnostic(nil), diags...)
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Filename != dj.Filename {
			return di.Filename < dj.Filename
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Col != dj.Col {
			return di.Col < dj.Col
		}
		if di.Severity != dj.Severity {
			return di.Severity < dj.Severity
		}
		return di.Message < dj.Message
	})

	var sb strings.Builder
	for _, d := range rendered {
		if d.HasLocation() {
			fmt.Fprintf(&sb, "%s:%d:%d: %s: %s\n", d.Filename, d.Line, d.Col+1, d.Severity, d.Message)
		} else {
			fmt.Fprintf(&sb, "%s: %s: %s\n", d.Filename, d.Severity, d.Message)
		}
	}
	return sb.String()
}
