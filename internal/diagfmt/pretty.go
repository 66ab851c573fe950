package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"caret/internal/diag"
	"caret/internal/source"
	"caret/internal/ui"
)

// tabStop is the fixed column interval tabs expand to for display alignment.
const tabStop = 8

// Print renders one diagnostic as annotated text: the header line, then the
// source line, a caret line, and a fix-it line, each best-effort. A report
// always produces at least the header; the snippet is dropped for invalid
// locations and the caret math is skipped for non-ASCII lines, where byte
// offsets no longer match display columns.
func Print(sink ui.Sink, d diag.Diagnostic, opts PrettyOpts) {
	sink.SetColor(ui.ColorSaved, true)

	if opts.ProgName != "" {
		fmt.Fprintf(sink, "%s: ", opts.ProgName)
	}

	if d.Filename != "" {
		if d.Filename == "-" {
			io.WriteString(sink, "<stdin>")
		} else {
			io.WriteString(sink, FormatPath(d.Filename, opts.PathMode))
		}
		if d.Line != -1 {
			fmt.Fprintf(sink, ":%d", d.Line)
			if d.Col != -1 {
				fmt.Fprintf(sink, ":%d", d.Col+1)
			}
		}
		io.WriteString(sink, ": ")
	}

	if !opts.HideKindLabel {
		switch d.Severity {
		case diag.SevError:
			sink.SetColor(ui.ColorRed, true)
		case diag.SevWarning:
			sink.SetColor(ui.ColorMagenta, true)
		case diag.SevNote:
			sink.SetColor(ui.ColorBlack, true)
		case diag.SevRemark:
			sink.SetColor(ui.ColorBlue, true)
		}
		fmt.Fprintf(sink, "%s: ", d.Severity)
		sink.ResetColor()
		sink.SetColor(ui.ColorSaved, true)
	}

	io.WriteString(sink, d.Message)
	io.WriteString(sink, "\n")
	sink.ResetColor()

	if !d.HasLocation() {
		return
	}

	// Byte offset and display column diverge once the line has non-ASCII
	// content. Print the raw line and skip the annotations rather than draw
	// them in the wrong place.
	if hasNonASCII(d.LineText) {
		printSourceLine(sink, norm.NFC.String(d.LineText))
		return
	}
	numColumns := len(d.LineText)

	// Caret line: spaces, one longer than the source line, with '~' under
	// every referenced range.
	caretLine := make([]byte, numColumns+1)
	for i := range caretLine {
		caretLine[i] = ' '
	}
	for _, r := range d.Ranges {
		end := min(r.End, len(caretLine))
		for i := r.Start; i < end; i++ {
			caretLine[i] = '~'
		}
	}

	fixItLine := buildFixItLine(caretLine, d)

	// Plop on the caret, clamped to the line.
	if d.Col <= numColumns {
		caretLine[d.Col] = '^'
	} else {
		caretLine[numColumns] = '^'
	}

	// Trailing spaces would only make the terminal wrap.
	caret := strings.TrimRight(string(caretLine), " ")

	printSourceLine(sink, d.LineText)

	sink.SetColor(ui.ColorGreen, true)
	printAnnotationLine(sink, caret, d.LineText)
	sink.ResetColor()

	if len(fixItLine) == 0 {
		return
	}
	printFixItLine(sink, string(fixItLine), d.LineText)
}

// buildFixItLine lays the fix-it replacement texts out on their own line and
// marks replaced ranges with '~' on the caret line. Fix-its arrive sorted by
// range; non-renderable ones (newline/tab in the text, or text whose display
// width differs from its byte length) are skipped.
func buildFixItLine(caretLine []byte, d diag.Diagnostic) []byte {
	if len(d.FixIts) == 0 {
		return nil
	}

	// Recover the line's position range from the diagnostic: Col is the
	// byte offset of Pos within the line.
	lineStart := d.Pos - source.Pos(d.Col)
	lineEnd := lineStart + source.Pos(len(d.LineText))

	var fixItLine []byte
	prevHintEndCol := 0

	for _, f := range d.FixIts {
		if !f.Renderable() {
			continue
		}
		// One byte per column is what the layout below relies on.
		if runewidth.StringWidth(f.Text) != len(f.Text) {
			continue
		}

		r := f.Range

		// Ignore fix-its whose range misses this line entirely.
		if r.Start > lineEnd || r.End < lineStart {
			continue
		}

		// Clip the parts that go onto other lines.
		firstCol := 0
		if r.Start >= lineStart {
			firstCol = int(r.Start - lineStart)
		}

		// If a long previous hint was laid down here, push this one past
		// its end with one extra column so two hints never read as one.
		// A hint starting exactly at the previous end keeps its column:
		// the location matters more than the separator.
		hintCol := firstCol
		if hintCol < prevHintEndCol {
			hintCol = prevHintEndCol + 1
		}

		lastColumnModified := hintCol + len(f.Text)
		if lastColumnModified > len(fixItLine) {
			grown := make([]byte, lastColumnModified)
			copy(grown, fixItLine)
			for i := len(fixItLine); i < lastColumnModified; i++ {
				grown[i] = ' '
			}
			fixItLine = grown
		}
		copy(fixItLine[hintCol:], f.Text)

		prevHintEndCol = lastColumnModified

		// For replacements, mark the removed range with '~'.
		lastCol := len(d.LineText)
		if r.End < lineEnd {
			lastCol = int(r.End - lineStart)
		}
		for i := firstCol; i < lastCol; i++ {
			caretLine[i] = '~'
		}
	}
	return fixItLine
}

// printSourceLine emits the line one tab run at a time so tabs expand to the
// next multiple of the tab stop. The tab itself becomes at least one space.
func printSourceLine(sink io.Writer, lineContents string) {
	outCol := 0
	for i := 0; i < len(lineContents); {
		nextTab := strings.IndexByte(lineContents[i:], '\t')
		// No tabs left: print the rest and be done.
		if nextTab < 0 {
			io.WriteString(sink, lineContents[i:])
			break
		}
		nextTab += i

		io.WriteString(sink, lineContents[i:nextTab])
		outCol += nextTab - i
		i = nextTab + 1

		// Emit at least one space, then round up to the tab stop.
		for {
			io.WriteString(sink, " ")
			outCol++
			if outCol%tabStop == 0 {
				break
			}
		}
	}
	io.WriteString(sink, "\n")
}

// printAnnotationLine emits a caret line, repeating the annotation character
// under every tab of the source line so '^', '~', and spaces stay visually
// aligned with the expanded source.
func printAnnotationLine(sink io.Writer, line, sourceLine string) {
	outCol := 0
	for i := 0; i < len(line); i++ {
		if i >= len(sourceLine) || sourceLine[i] != '\t' {
			sink.Write([]byte{line[i]})
			outCol++
			continue
		}

		// A tab in the source: stretch the annotation to the tab stop.
		for {
			sink.Write([]byte{line[i]})
			outCol++
			if outCol%tabStop == 0 {
				break
			}
		}
	}
	io.WriteString(sink, "\n")
}

// printFixItLine is printAnnotationLine for the replacement line. When
// stretching under a tab it avoids duplicating replacement characters: only
// spaces repeat, other characters advance.
func printFixItLine(sink io.Writer, line, sourceLine string) {
	outCol := 0
	for i := 0; i < len(line); i++ {
		if i >= len(sourceLine) || sourceLine[i] != '\t' {
			sink.Write([]byte{line[i]})
			outCol++
			continue
		}

		for {
			sink.Write([]byte{line[i]})
			if line[i] != ' ' {
				i++
			}
			outCol++
			if outCol%tabStop == 0 || i >= len(line) {
				break
			}
		}
		if i >= len(line) {
			break
		}
	}
	io.WriteString(sink, "\n")
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i]&0x80 != 0 {
			return true
		}
	}
	return false
}
