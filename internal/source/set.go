package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// Set owns an append-only collection of buffers and resolves positions back
// to buffers, lines, and columns. Buffers are never removed, so a Pos stays
// valid for the whole lifetime of its Set.
//
// A Set is not safe for concurrent use: AddBuffer and the include loaders
// mutate shared state, and even read paths touch the last-found cache and
// the lazily-built per-buffer offset indexes. Callers needing concurrency
// serialize externally, typically with one Set per compilation unit.
type Set struct {
	buffers []*Buffer
	// ends[i] is buffers[i].End(). Bases are handed out in registration
	// order, so this is strictly increasing and doubles as the sorted
	// end-to-id map for containment lookups.
	ends []Pos
	// lastFound caches the result of the previous containment lookup.
	// Successive lookups tend to hit the same buffer, which makes the
	// common case O(1). Best effort only, never required for correctness.
	lastFound BufferID

	includeDirs []string
	nextBase    Pos
}

// NewSet creates an empty buffer set.
func NewSet() *Set {
	return &Set{nextBase: 1}
}

// SetIncludeDirs installs the ordered list of directories searched by
// AddIncludeFile. First match wins.
func (s *Set) SetIncludeDirs(dirs []string) {
	s.includeDirs = append([]string(nil), dirs...)
}

// IncludeDirs returns the current include search path.
func (s *Set) IncludeDirs() []string {
	return s.includeDirs
}

// Count returns the number of registered buffers.
func (s *Set) Count() int {
	return len(s.buffers)
}

// AddBuffer registers content under the given name and returns the new
// 1-based id. The includeLoc records where the buffer was included from;
// NoPos marks a top-level buffer. Content is stored as-is.
func (s *Set) AddBuffer(name string, content []byte, includeLoc Pos) BufferID {
	return s.add(name, content, includeLoc, BufferVirtual)
}

func (s *Set) add(name string, content []byte, includeLoc Pos, flags BufferFlags) BufferID {
	next, err := safecast.Conv[uint32](len(s.buffers) + 1)
	if err != nil {
		panic(fmt.Errorf("source: buffer count overflow: %w", err))
	}
	id := BufferID(next)
	buf := &Buffer{
		id:         id,
		name:       name,
		content:    content,
		includeLoc: includeLoc,
		base:       s.nextBase,
		flags:      flags,
	}
	// Leave one unused position between buffers so distinct buffers never
	// share an offset, end inclusive.
	s.nextBase = buf.End() + 1
	s.buffers = append(s.buffers, buf)
	s.ends = append(s.ends, buf.End())
	return id
}

// AddBufferFile loads a top-level file from disk, normalizing BOM and CRLF,
// and registers it under its cleaned path.
func (s *Set) AddBufferFile(path string) (BufferID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.addNormalized(normalizePath(path), content, NoPos), nil
}

func (s *Set) addNormalized(name string, content []byte, includeLoc Pos) BufferID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := BufferFlags(0)
	if hadBOM {
		flags |= BufferHadBOM
	}
	if hadCRLF {
		flags |= BufferNormalizedCRLF
	}
	return s.add(name, content, includeLoc, flags)
}

// AddIncludeFile resolves name against the filesystem: first as given, then
// under each include directory in order. On success it registers the buffer
// and returns its id with the path that actually opened. A missing file is
// not an error: ok is false, the returned id is 0, and the set is unchanged.
func (s *Set) AddIncludeFile(name string, includeLoc Pos) (id BufferID, resolved string, ok bool) {
	resolved = name
	content, err := os.ReadFile(resolved) // #nosec G304 -- path comes from the front end
	for i := 0; err != nil && i < len(s.includeDirs); i++ {
		resolved = filepath.Join(s.includeDirs[i], name)
		content, err = os.ReadFile(resolved) // #nosec G304
	}
	if err != nil {
		return 0, "", false
	}
	return s.addNormalized(normalizePath(resolved), content, includeLoc), resolved, true
}

// Buffer returns the buffer with the given id. A zero or unknown id is a
// caller bug.
func (s *Set) Buffer(id BufferID) *Buffer {
	if id == 0 || int(id) > len(s.buffers) {
		panic(fmt.Sprintf("source: invalid buffer id %d (have %d buffers)", id, len(s.buffers)))
	}
	return s.buffers[id-1]
}

// Name returns the identifier of the buffer with the given id.
func (s *Set) Name(id BufferID) string {
	return s.Buffer(id).Name()
}

// FindBufferContaining returns the id of the buffer containing p, or 0 when
// p is NoPos or was never handed out by this set.
func (s *Set) FindBufferContaining(p Pos) BufferID {
	if !p.IsValid() {
		return 0
	}
	// Check the buffer found last time. Most lookups land in the same one.
	if s.lastFound != 0 && s.buffers[s.lastFound-1].Contains(p) {
		return s.lastFound
	}
	i := sort.Search(len(s.ends), func(i int) bool { return s.ends[i] >= p })
	if i < len(s.ends) && s.buffers[i].Contains(p) {
		s.lastFound = s.buffers[i].id
		return s.lastFound
	}
	return 0
}

// resolve maps p to its buffer, trusting the hint when given. Unresolvable
// positions are a caller bug, not a runtime condition.
func (s *Set) resolve(p Pos, hint BufferID) *Buffer {
	id := hint
	if id == 0 {
		id = s.FindBufferContaining(p)
	}
	if id == 0 {
		panic(fmt.Sprintf("source: position %d not in any registered buffer", p))
	}
	return s.Buffer(id)
}

// FindLine returns the full text of the line containing p (trailing newline
// included except on the last line) and its 1-based number. The hint skips
// the containment lookup when the caller already knows the buffer.
func (s *Set) FindLine(p Pos, hint BufferID) (text string, lineno int) {
	b := s.resolve(p, hint)
	return b.findLine(b.Offset(p))
}

// LineRef returns the text of the 1-based line in the given buffer. Requests
// past the end of the buffer yield an empty string.
func (s *Set) LineRef(lineno int, id BufferID) string {
	if id == 0 {
		panic("source: LineRef requires an explicit buffer id")
	}
	return s.Buffer(id).Line(lineno)
}

// LineAndColumn returns the 1-based line and column of p.
func (s *Set) LineAndColumn(p Pos, hint BufferID) (line, col int) {
	b := s.resolve(p, hint)
	off := b.Offset(p)
	_, lineno := b.findLine(off)
	return lineno, off - b.lineStart(off) + 1
}
