package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color names the colors the diagnostic renderer draws with. ColorSaved
// keeps the current foreground and only toggles attributes, mirroring what
// terminals do for emphasized plain text.
type Color uint8

const (
	ColorSaved Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorMagenta
	ColorBlack
)

// Sink is where rendered diagnostics go: an append-only text stream that may
// support named colors. SetColor affects subsequent writes until ResetColor.
type Sink interface {
	io.Writer
	HasColors() bool
	SetColor(c Color, bold bool)
	ResetColor()
}

// ColorMode controls whether a ColorSink emits escape sequences.
type ColorMode uint8

const (
	// ColorAuto enables colors when the underlying file is a terminal.
	ColorAuto ColorMode = iota
	ColorOn
	ColorOff
)

// ColorSink writes to a file and renders colors with ANSI sequences when the
// mode allows it.
type ColorSink struct {
	w      io.Writer
	colors bool
}

// NewColorSink wraps f, enabling colors per mode. With ColorAuto, colors are
// on only when f is a terminal.
func NewColorSink(f *os.File, mode ColorMode) *ColorSink {
	enabled := false
	switch mode {
	case ColorOn:
		enabled = true
	case ColorAuto:
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &ColorSink{w: f, colors: enabled}
}

func (s *ColorSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *ColorSink) HasColors() bool {
	return s.colors
}

func (s *ColorSink) SetColor(c Color, bold bool) {
	if !s.colors {
		return
	}
	attrs := make([]color.Attribute, 0, 2)
	switch c {
	case ColorRed:
		attrs = append(attrs, color.FgRed)
	case ColorGreen:
		attrs = append(attrs, color.FgGreen)
	case ColorBlue:
		attrs = append(attrs, color.FgBlue)
	case ColorMagenta:
		attrs = append(attrs, color.FgMagenta)
	case ColorBlack:
		attrs = append(attrs, color.FgBlack)
	case ColorSaved:
		// attributes only
	}
	if bold {
		attrs = append(attrs, color.Bold)
	}
	cl := color.New(attrs...)
	cl.EnableColor()
	cl.SetWriter(s.w)
}

func (s *ColorSink) ResetColor() {
	if !s.colors {
		return
	}
	// color.UnsetWriter consults the package-global NoColor, which would
	// drop the reset when colors are forced in a non-terminal. Emit the
	// reset sequence unconditionally instead.
	io.WriteString(s.w, "\x1b[0m")
}

// PlainSink writes to any io.Writer with colors permanently off. Handy for
// buffers and tests.
type PlainSink struct {
	W io.Writer
}

func (s PlainSink) Write(p []byte) (int, error) { return s.W.Write(p) }
func (s PlainSink) HasColors() bool             { return false }
func (s PlainSink) SetColor(Color, bool)        {}
func (s PlainSink) ResetColor()                 {}
