package main

import (
	"fmt"
	"strconv"
	"strings"

	"caret/internal/diag"
	"caret/internal/source"
)

// fileLocation is a parsed <file>:<line>:<col> argument, 1-based.
type fileLocation struct {
	path string
	line int
	col  int
}

func parseFileLocation(arg string) (fileLocation, error) {
	rest, col, err := splitTrailingNumber(arg)
	if err != nil {
		return fileLocation{}, fmt.Errorf("invalid location %q (expected <file>:<line>:<col>): %w", arg, err)
	}
	path, line, err := splitTrailingNumber(rest)
	if err != nil || path == "" {
		return fileLocation{}, fmt.Errorf("invalid location %q (expected <file>:<line>:<col>)", arg)
	}
	return fileLocation{path: path, line: line, col: col}, nil
}

func splitTrailingNumber(s string) (string, int, error) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return "", 0, fmt.Errorf("missing ':'")
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, err
	}
	if n < 1 {
		return "", 0, fmt.Errorf("line/column numbers are 1-based")
	}
	return s[:i], n, nil
}

func parseLineCol(s string) (line, col int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected <line>:<col>, got %q", s)
	}
	if line, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, err
	}
	if col, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, err
	}
	if line < 1 || col < 1 {
		return 0, 0, fmt.Errorf("line/column numbers are 1-based, got %q", s)
	}
	return line, col, nil
}

// parseRangeSpec turns "<line>:<col>-<line>:<col>" into a position range
// within buf.
func parseRangeSpec(spec string, buf *source.Buffer) (source.Range, error) {
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return source.Range{}, fmt.Errorf("invalid range %q (expected <line>:<col>-<line>:<col>)", spec)
	}
	startLine, startCol, err := parseLineCol(parts[0])
	if err != nil {
		return source.Range{}, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	endLine, endCol, err := parseLineCol(parts[1])
	if err != nil {
		return source.Range{}, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	if lines := buf.LineCount(); startLine > lines || endLine > lines {
		return source.Range{}, fmt.Errorf("range %q exceeds %s (%d lines)", spec, buf.Name(), lines)
	}
	return source.MakeRange(buf.PosOf(startLine, startCol), buf.PosOf(endLine, endCol)), nil
}

// parseFixSpec turns "<line>:<col>-<line>:<col>=<text>" into a fix-it. An
// empty range ("3:5-3:5=x") is an insertion.
func parseFixSpec(spec string, buf *source.Buffer) (diag.FixIt, error) {
	eq := strings.IndexByte(spec, '=')
	if eq < 0 {
		return diag.FixIt{}, fmt.Errorf("invalid fix %q (expected <range>=<text>)", spec)
	}
	r, err := parseRangeSpec(spec[:eq], buf)
	if err != nil {
		return diag.FixIt{}, err
	}
	return diag.FixIt{Range: r, Text: spec[eq+1:]}, nil
}

func readSeverity(value string) (diag.Severity, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "error":
		return diag.SevError, nil
	case "warning":
		return diag.SevWarning, nil
	case "note":
		return diag.SevNote, nil
	case "remark":
		return diag.SevRemark, nil
	default:
		return diag.SevError, fmt.Errorf("invalid severity %q (expected error|warning|note|remark)", value)
	}
}
