package diagfmt

import (
	"os"
	"path/filepath"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short or relative paths as-is and shortens long
	// absolute ones to their basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures annotated-snippet rendering.
type PrettyOpts struct {
	// ProgName, when non-empty, prefixes every diagnostic ("cc: ...").
	ProgName string
	PathMode PathMode
	// HideKindLabel suppresses the "error: " / "warning: " label.
	HideKindLabel bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode PathMode
	// Max truncates the output, not the input. 0 means no limit.
	Max           int
	IncludeFixIts bool
}

// FormatPath renders path according to mode.
func FormatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path

	case PathModeRelative:
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		if rel, err := filepath.Rel(wd, path); err == nil {
			return rel
		}
		return path

	case PathModeBasename:
		return filepath.Base(path)

	case PathModeAuto:
		if len(path) < 40 || !filepath.IsAbs(path) {
			return path
		}
		return filepath.Base(path)

	default:
		return path
	}
}
