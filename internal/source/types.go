package source

// Pos is an opaque reference to one byte inside a registered buffer. Each
// buffer owns a disjoint range of the global offset space, so positions from
// different buffers compare consistently and containment checks are plain
// integer comparisons. NoPos means "no location".
type Pos int

// NoPos is the zero Pos. It is never inside any buffer: base allocation
// starts at 1.
const NoPos Pos = 0

// IsValid reports whether the position refers to an actual location.
func (p Pos) IsValid() bool {
	return p != NoPos
}

type (
	// BufferID identifies a buffer within a Set. IDs are dense and 1-based;
	// 0 is invalid.
	BufferID uint32
	// BufferFlags encodes metadata about how a buffer was created.
	BufferFlags uint8
)

const (
	// BufferVirtual indicates the buffer was added from memory (test, stdin,
	// synthesized snippet) rather than loaded from disk.
	BufferVirtual BufferFlags = 1 << iota
	BufferHadBOM
	BufferNormalizedCRLF
)

// Range is a half-open [Start, End) position range.
type Range struct {
	Start Pos
	End   Pos
}

// MakeRange builds a range from two positions.
func MakeRange(start, end Pos) Range {
	return Range{Start: start, End: end}
}

// IsValid reports whether both ends of the range are real positions.
func (r Range) IsValid() bool {
	return r.Start.IsValid() && r.End.IsValid()
}

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool {
	return r.Start == r.End
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return int(r.End - r.Start)
}

// Cover extends the range to include other.
func (r Range) Cover(other Range) Range {
	if !other.IsValid() {
		return r
	}
	if !r.IsValid() {
		return other
	}
	if other.Start < r.Start {
		r.Start = other.Start
	}
	if other.End > r.End {
		r.End = other.End
	}
	return r
}

// LineCol is a human-readable position in a buffer.
type LineCol struct {
	Line int // 1-based
	Col  int // 1-based
}
