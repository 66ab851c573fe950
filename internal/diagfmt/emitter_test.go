package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caret/internal/diag"
	"caret/internal/source"
	"caret/internal/ui"
)

func TestEmitterReport(t *testing.T) {
	set := source.NewSet()
	id := set.AddBuffer("top.txt", []byte("hello world\n"), source.NoPos)
	buf := set.Buffer(id)

	var buffer bytes.Buffer
	e := NewEmitter(set, ui.PlainSink{W: &buffer}, PrettyOpts{})
	e.Report(buf.Pos(6), diag.SevError, "unknown word", nil, nil)

	want := "top.txt:1:7: error: unknown word\n" +
		"hello world\n" +
		"      ^\n"
	assert.Equal(t, want, buffer.String())
}

func TestEmitterIncludeStack(t *testing.T) {
	set := source.NewSet()

	mainID := set.AddBuffer("main.txt", []byte("line one\ninclude first\n"), source.NoPos)
	mainBuf := set.Buffer(mainID)

	// first.inc is included from main.txt line 2.
	firstID := set.AddBuffer("first.inc", []byte("a\nb\ninclude second\n"), mainBuf.Pos(9))
	firstBuf := set.Buffer(firstID)

	// second.inc is included from first.inc line 3.
	secondID := set.AddBuffer("second.inc", []byte("deep content\n"), firstBuf.Pos(4))
	secondBuf := set.Buffer(secondID)

	var buffer bytes.Buffer
	e := NewEmitter(set, ui.PlainSink{W: &buffer}, PrettyOpts{})
	e.Report(secondBuf.Pos(5), diag.SevError, "broken", nil, nil)

	got := buffer.String()
	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 3)

	// Outermost frame first, then the inner one, then the diagnostic.
	assert.Equal(t, "Included from main.txt:2:", lines[0])
	assert.Equal(t, "Included from first.inc:3:", lines[1])
	assert.Equal(t, "second.inc:1:6: error: broken", lines[2])
}

func TestEmitterHandlerReplacesRendering(t *testing.T) {
	set := source.NewSet()
	id := set.AddBuffer("h.txt", []byte("payload\n"), source.NoPos)
	buf := set.Buffer(id)

	var buffer bytes.Buffer
	e := NewEmitter(set, ui.PlainSink{W: &buffer}, PrettyOpts{})

	var captured []diag.Diagnostic
	e.SetHandler(func(d diag.Diagnostic) {
		captured = append(captured, d)
	})

	e.Report(buf.Pos(3), diag.SevWarning, "captured instead", nil, nil)

	require.Len(t, captured, 1)
	assert.Equal(t, "captured instead", captured[0].Message)
	assert.Equal(t, diag.SevWarning, captured[0].Severity)
	assert.Empty(t, buffer.String(), "handler must fully replace sink output")

	// Clearing the hook restores rendering.
	e.SetHandler(nil)
	e.Report(buf.Pos(3), diag.SevWarning, "rendered again", nil, nil)
	assert.Contains(t, buffer.String(), "rendered again")
	assert.Len(t, captured, 1)
}

func TestEmitterMessageOnlySkipsIncludeStack(t *testing.T) {
	set := source.NewSet()
	set.AddBuffer("irrelevant.txt", []byte("x\n"), source.NoPos)

	var buffer bytes.Buffer
	e := NewEmitter(set, ui.PlainSink{W: &buffer}, PrettyOpts{})
	e.Report(source.NoPos, diag.SevError, "global failure", nil, nil)

	assert.Equal(t, "<unknown>: error: global failure\n", buffer.String())
}

func TestPrintIncludeStackTopLevel(t *testing.T) {
	set := source.NewSet()
	var buffer bytes.Buffer
	PrintIncludeStack(&buffer, set, source.NoPos)
	assert.Empty(t, buffer.String())
}
