package diagfmt

import (
	"fmt"
	"io"

	"caret/internal/diag"
	"caret/internal/source"
	"caret/internal/ui"
)

// Emitter is the default delivery path: it builds diagnostics against a
// source.Set and renders them onto a sink, include stack first. Installing a
// Handler replaces rendering and printing entirely.
//
// The hook is per-emitter state, not process-global, so tests and embedders
// can each install their own.
type Emitter struct {
	Files   *source.Set
	Out     ui.Sink
	Opts    PrettyOpts
	handler diag.Handler
}

// NewEmitter returns an emitter rendering to out.
func NewEmitter(files *source.Set, out ui.Sink, opts PrettyOpts) *Emitter {
	return &Emitter{Files: files, Out: out, Opts: opts}
}

// SetHandler installs the delivery hook. A nil handler restores default
// rendering.
func (e *Emitter) SetHandler(h diag.Handler) {
	e.handler = h
}

// Report builds a diagnostic for pos and delivers it: to the installed
// handler if any, otherwise rendered to the emitter's sink with the include
// stack of the owning buffer printed first.
func (e *Emitter) Report(pos source.Pos, sev diag.Severity, msg string, ranges []source.Range, fixits []diag.FixIt) {
	e.Deliver(diag.Build(e.Files, pos, sev, msg, ranges, fixits))
}

// Deliver routes an already-built diagnostic through the hook or the
// renderer.
func (e *Emitter) Deliver(d diag.Diagnostic) {
	if e.handler != nil {
		e.handler(d)
		return
	}

	if d.Pos.IsValid() {
		id := e.Files.FindBufferContaining(d.Pos)
		if id == 0 {
			panic("diagfmt: diagnostic position not in any registered buffer")
		}
		PrintIncludeStack(e.Out, e.Files, e.Files.Buffer(id).IncludeLoc())
	}
	Print(e.Out, d, e.Opts)
}

// PrintIncludeStack renders the chain of "Included from" frames for pos,
// outermost first: it recurses on the including position before printing the
// current frame, so the ultimate top-level file comes out on top. A NoPos
// ends the recursion (top of the stack).
func PrintIncludeStack(w io.Writer, files *source.Set, pos source.Pos) {
	if !pos.IsValid() {
		return
	}

	id := files.FindBufferContaining(pos)
	if id == 0 {
		panic("diagfmt: include position not in any registered buffer")
	}
	buf := files.Buffer(id)

	PrintIncludeStack(w, files, buf.IncludeLoc())

	_, line := files.FindLine(pos, id)
	fmt.Fprintf(w, "Included from %s:%d:\n", buf.Name(), line)
}
