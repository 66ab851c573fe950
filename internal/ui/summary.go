package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	summaryErrStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	summaryWarnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	summaryOKStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// RenderSummary formats a closing line for a multi-file run, e.g.
// "3 errors, 1 warning in 2 files".
func RenderSummary(errors, warnings, files int) string {
	parts := make([]string, 0, 2)
	if errors > 0 {
		parts = append(parts, summaryErrStyle.Render(fmt.Sprintf("%d %s", errors, plural("error", errors))))
	}
	if warnings > 0 {
		parts = append(parts, summaryWarnStyle.Render(fmt.Sprintf("%d %s", warnings, plural("warning", warnings))))
	}
	if len(parts) == 0 {
		return summaryOKStyle.Render(fmt.Sprintf("no findings in %d %s", files, plural("file", files)))
	}
	return fmt.Sprintf("%s in %d %s", strings.Join(parts, ", "), files, plural("file", files))
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
