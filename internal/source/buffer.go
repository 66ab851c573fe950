package source

import "fmt"

// Buffer is an immutable view over one file or snippet. Content and name
// never change after registration; the newline offset index is built lazily
// on first line lookup and frozen afterwards.
type Buffer struct {
	id         BufferID
	name       string
	content    []byte
	includeLoc Pos
	base       Pos
	flags      BufferFlags
	offsets    offsetIndex // nil until first line lookup
}

// ID returns the buffer's registry id.
func (b *Buffer) ID() BufferID { return b.id }

// Name returns the buffer's identifier: a path for disk files, a synthetic
// name otherwise.
func (b *Buffer) Name() string { return b.name }

// Content returns the buffer's bytes. Callers must not modify them.
func (b *Buffer) Content() []byte { return b.content }

// IncludeLoc returns the position of the include directive that pulled this
// buffer in, or NoPos for a top-level buffer.
func (b *Buffer) IncludeLoc() Pos { return b.includeLoc }

// Flags returns creation metadata for the buffer.
func (b *Buffer) Flags() BufferFlags { return b.flags }

// Size returns the buffer length in bytes.
func (b *Buffer) Size() int { return len(b.content) }

// Base returns the position of the buffer's first byte.
func (b *Buffer) Base() Pos { return b.base }

// End returns the position one past the buffer's last byte. End itself is a
// valid position (it is where end-of-input diagnostics point).
func (b *Buffer) End() Pos { return b.base + Pos(len(b.content)) }

// Contains reports whether p lies inside the buffer, end inclusive.
func (b *Buffer) Contains(p Pos) bool {
	return p >= b.base && p <= b.End()
}

// Pos converts a byte offset within the buffer into a position.
func (b *Buffer) Pos(off int) Pos {
	if off < 0 || off > len(b.content) {
		panic(fmt.Sprintf("source: offset %d out of range for buffer %q (size %d)", off, b.name, len(b.content)))
	}
	return b.base + Pos(off)
}

// Offset converts a position back into a byte offset within the buffer.
// Passing a position outside the buffer is a caller bug.
func (b *Buffer) Offset(p Pos) int {
	if !b.Contains(p) {
		panic(fmt.Sprintf("source: position %d outside buffer %q [%d, %d]", p, b.name, b.base, b.End()))
	}
	return int(p - b.base)
}

// index returns the newline offset index, building it on first use.
func (b *Buffer) index() offsetIndex {
	if b.offsets == nil {
		b.offsets = buildOffsetIndex(b.content)
	}
	return b.offsets
}

// LineCount returns the number of lines in the buffer, counting a trailing
// partial line.
func (b *Buffer) LineCount() int {
	return b.index().count() + 1
}

// findLine locates the line containing the byte at off. The returned text
// includes the trailing newline except on the last line; lineno is 1-based.
func (b *Buffer) findLine(off int) (text string, lineno int) {
	idx := b.index()
	// The newline at lowerBound(off) is the one that ends off's line,
	// including when off refers to that newline itself.
	eol := idx.lowerBound(off)

	start := 0
	if eol > 0 {
		start = idx.offsetAt(eol-1) + 1
	}
	end := len(b.content)
	if eol < idx.count() {
		end = idx.offsetAt(eol) + 1
	}
	return string(b.content[start:end]), eol + 1
}

// lineStart returns the byte offset where the 1-based line begins.
func (b *Buffer) lineStart(off int) int {
	idx := b.index()
	eol := idx.lowerBound(off)
	if eol == 0 {
		return 0
	}
	return idx.offsetAt(eol-1) + 1
}

// PosOf converts a 1-based line and column into a position, the inverse of
// Set.LineAndColumn. The column is clamped to one past the line's content.
func (b *Buffer) PosOf(line, col int) Pos {
	if line < 1 || line > b.LineCount() {
		panic(fmt.Sprintf("source: line %d out of range for buffer %q (%d lines)", line, b.name, b.LineCount()))
	}
	start := 0
	if line > 1 {
		start = b.index().offsetAt(line-2) + 1
	}
	if col < 1 {
		col = 1
	}
	text := b.Line(line)
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
	}
	if maxCol := len(text) + 1; col > maxCol {
		col = maxCol
	}
	return b.Pos(start + col - 1)
}

// Line returns the text of the 1-based line, newline included except for a
// trailing partial line. Out-of-range lines yield an empty string anchored
// at the buffer end.
func (b *Buffer) Line(lineno int) string {
	if lineno < 1 {
		panic(fmt.Sprintf("source: line number %d must be 1-based", lineno))
	}
	line := lineno - 1

	idx := b.index()
	size := idx.count()
	switch {
	case line < size:
		start := 0
		if line > 0 {
			start = idx.offsetAt(line-1) + 1
		}
		end := idx.offsetAt(line) + 1
		return string(b.content[start:end])
	case line == size:
		// The trailing line with no newline, possibly empty.
		start := 0
		if size != 0 {
			start = idx.offsetAt(size-1) + 1
		}
		return string(b.content[start:])
	default:
		return ""
	}
}
