package diag

import (
	"caret/internal/source"
)

// Build snapshots one reported event into a Diagnostic. The reported line is
// extracted by scanning outward from pos to the nearest line break or buffer
// bound rather than through the offset index, since only this one line is
// needed. Input ranges are clipped to that line and translated to column
// offsets; fix-its are sorted by range.
//
// An invalid pos produces a message-only diagnostic. A valid pos that no
// registered buffer contains is a caller bug and panics.
func Build(set *source.Set, pos source.Pos, sev Severity, msg string, ranges []source.Range, fixits []FixIt) Diagnostic {
	d := Diagnostic{
		Severity: sev,
		Pos:      pos,
		Filename: "<unknown>",
		Line:     -1,
		Col:      -1,
		Message:  msg,
		FixIts:   sortFixIts(fixits),
	}
	if !pos.IsValid() {
		return d
	}

	id := set.FindBufferContaining(pos)
	if id == 0 {
		panic("diag: position not in any registered buffer")
	}
	buf := set.Buffer(id)
	d.Filename = buf.Name()

	content := buf.Content()
	off := buf.Offset(pos)

	// Scan backward to the start of the line, forward to its end. Both \n
	// and \r terminate a line here so the snapshot never embeds a stray
	// carriage return.
	lineStart := off
	for lineStart > 0 && content[lineStart-1] != '\n' && content[lineStart-1] != '\r' {
		lineStart--
	}
	lineEnd := off
	for lineEnd < len(content) && content[lineEnd] != '\n' && content[lineEnd] != '\r' {
		lineEnd++
	}
	d.LineText = string(content[lineStart:lineEnd])

	// Convert ranges to column ranges intersecting the reported line,
	// dropping the parts that spill onto other lines.
	startPos := buf.Pos(lineStart)
	endPos := buf.Pos(lineEnd)
	for _, r := range ranges {
		if !r.IsValid() {
			continue
		}
		if r.Start > endPos || r.End < startPos {
			continue
		}
		if r.Start < startPos {
			r.Start = startPos
		}
		if r.End > endPos {
			r.End = endPos
		}
		d.Ranges = append(d.Ranges, ColRange{
			Start: int(r.Start - startPos),
			End:   int(r.End - startPos),
		})
	}

	line, col := set.LineAndColumn(pos, id)
	d.Line = line
	d.Col = col - 1
	return d
}
