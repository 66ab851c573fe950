package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetAddBuffer(t *testing.T) {
	s := NewSet()

	id1 := s.AddBuffer("a.txt", []byte("alpha"), NoPos)
	id2 := s.AddBuffer("b.txt", []byte("beta"), NoPos)

	if id1 != 1 || id2 != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", id1, id2)
	}
	if s.Count() != 2 {
		t.Errorf("expected 2 buffers, got %d", s.Count())
	}
	if s.Name(id1) != "a.txt" {
		t.Errorf("expected name a.txt, got %q", s.Name(id1))
	}
	if string(s.Buffer(id2).Content()) != "beta" {
		t.Errorf("unexpected content %q", s.Buffer(id2).Content())
	}
	if s.Buffer(id1).Flags()&BufferVirtual == 0 {
		t.Error("expected BufferVirtual flag on in-memory buffer")
	}
}

func TestSetBuffersNeverOverlap(t *testing.T) {
	s := NewSet()
	id1 := s.AddBuffer("a.txt", []byte("aaa"), NoPos)
	id2 := s.AddBuffer("b.txt", []byte(""), NoPos)
	id3 := s.AddBuffer("c.txt", []byte("cc"), NoPos)

	b1, b2, b3 := s.Buffer(id1), s.Buffer(id2), s.Buffer(id3)

	// End positions are themselves valid, so bases must leave a gap.
	if b2.Base() <= b1.End() {
		t.Errorf("buffer 2 base %d overlaps buffer 1 end %d", b2.Base(), b1.End())
	}
	if b3.Base() <= b2.End() {
		t.Errorf("buffer 3 base %d overlaps buffer 2 end %d", b3.Base(), b2.End())
	}

	// An empty buffer still owns its end position.
	if got := s.FindBufferContaining(b2.Base()); got != id2 {
		t.Errorf("expected empty buffer to contain its base, got id %d", got)
	}
}

func TestFindBufferContaining(t *testing.T) {
	s := NewSet()
	id1 := s.AddBuffer("a.txt", []byte("one\n"), NoPos)
	id2 := s.AddBuffer("b.txt", []byte("two\n"), NoPos)

	b1, b2 := s.Buffer(id1), s.Buffer(id2)

	if got := s.FindBufferContaining(b1.Pos(0)); got != id1 {
		t.Errorf("expected id %d, got %d", id1, got)
	}
	if got := s.FindBufferContaining(b1.End()); got != id1 {
		t.Errorf("expected end position to resolve to id %d, got %d", id1, got)
	}
	if got := s.FindBufferContaining(b2.Pos(2)); got != id2 {
		t.Errorf("expected id %d, got %d", id2, got)
	}
	if got := s.FindBufferContaining(NoPos); got != 0 {
		t.Errorf("expected NoPos to resolve to 0, got %d", got)
	}
	if got := s.FindBufferContaining(b2.End() + 10); got != 0 {
		t.Errorf("expected foreign position to resolve to 0, got %d", got)
	}

	// Repeated lookups in the same buffer exercise the cache path.
	for off := 0; off <= b1.Size(); off++ {
		if got := s.FindBufferContaining(b1.Pos(off)); got != id1 {
			t.Errorf("offset %d: expected id %d, got %d", off, id1, got)
		}
	}
}

func TestFindBufferContainingCacheInvalidation(t *testing.T) {
	s := NewSet()
	id1 := s.AddBuffer("a.txt", []byte("aaaa"), NoPos)
	id2 := s.AddBuffer("b.txt", []byte("bbbb"), NoPos)

	// Warm the cache with buffer 2, then look up buffer 1 again.
	if got := s.FindBufferContaining(s.Buffer(id2).Pos(1)); got != id2 {
		t.Fatalf("expected id %d, got %d", id2, got)
	}
	if got := s.FindBufferContaining(s.Buffer(id1).Pos(1)); got != id1 {
		t.Errorf("expected id %d after cache miss, got %d", id1, got)
	}
}

func TestLineAndColumn(t *testing.T) {
	s := NewSet()
	id := s.AddBuffer("lc.txt", []byte("ab\ncd\n\nxyz"), NoPos)
	b := s.Buffer(id)

	cases := []struct {
		off       int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1}, // empty line
		{7, 4, 1},
		{9, 4, 3},
	}

	for _, tc := range cases {
		line, col := s.LineAndColumn(b.Pos(tc.off), 0)
		if line != tc.line || col != tc.col {
			t.Errorf("offset %d: expected %d:%d, got %d:%d", tc.off, tc.line, tc.col, line, col)
		}
	}
}

func TestLineAndColumnAgreesWithLineRef(t *testing.T) {
	s := NewSet()
	id := s.AddBuffer("agree.txt", []byte("short\nlonger line\nend"), NoPos)
	b := s.Buffer(id)

	for off := 0; off < b.Size(); off++ {
		if b.Content()[off] == '\n' {
			continue
		}
		line, col := s.LineAndColumn(b.Pos(off), id)
		text := s.LineRef(line, id)
		if col < 1 || col > len(text) {
			t.Fatalf("offset %d: column %d out of range for line %q", off, col, text)
		}
		if text[col-1] != b.Content()[off] {
			t.Errorf("offset %d: line %d col %d points at %q, expected %q",
				off, line, col, text[col-1], b.Content()[off])
		}
	}
}

func TestFindLineWithHint(t *testing.T) {
	s := NewSet()
	id := s.AddBuffer("hint.txt", []byte("aa\nbb\ncc"), NoPos)
	b := s.Buffer(id)

	text, lineno := s.FindLine(b.Pos(4), id)
	if text != "bb\n" || lineno != 2 {
		t.Errorf("expected (%q, 2), got (%q, %d)", "bb\n", text, lineno)
	}

	// Without a hint the containment lookup finds the same answer.
	text, lineno = s.FindLine(b.Pos(4), 0)
	if text != "bb\n" || lineno != 2 {
		t.Errorf("expected (%q, 2) without hint, got (%q, %d)", "bb\n", text, lineno)
	}
}

func TestLineRefPastEnd(t *testing.T) {
	s := NewSet()
	id := s.AddBuffer("short.txt", []byte("only\n"), NoPos)

	if got := s.LineRef(50, id); got != "" {
		t.Errorf("expected empty string for line past end, got %q", got)
	}
}

func TestBufferPanicsOnInvalidID(t *testing.T) {
	s := NewSet()
	s.AddBuffer("a.txt", []byte("x"), NoPos)

	defer func() {
		if recover() == nil {
			t.Error("expected Buffer(0) to panic")
		}
	}()
	s.Buffer(0)
}

func TestAddBufferFileNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.txt")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbfa\r\nb\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSet()
	id, err := s.AddBufferFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b := s.Buffer(id)
	if string(b.Content()) != "a\nb\n" {
		t.Errorf("expected normalized content %q, got %q", "a\nb\n", b.Content())
	}
	if b.Flags()&BufferHadBOM == 0 {
		t.Error("expected BufferHadBOM flag")
	}
	if b.Flags()&BufferNormalizedCRLF == 0 {
		t.Error("expected BufferNormalizedCRLF flag")
	}
	if b.Flags()&BufferVirtual != 0 {
		t.Error("did not expect BufferVirtual flag on a disk buffer")
	}
}

func TestAddBufferFileMissing(t *testing.T) {
	s := NewSet()
	if _, err := s.AddBufferFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
	if s.Count() != 0 {
		t.Errorf("expected set to stay empty, got %d buffers", s.Count())
	}
}

func TestAddIncludeFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.inc"), []byte("included\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSet()
	mainID := s.AddBuffer("main.txt", []byte("include lib.inc\n"), NoPos)
	includeLoc := s.Buffer(mainID).Pos(8)

	s.SetIncludeDirs([]string{dir})
	id, resolved, ok := s.AddIncludeFile("lib.inc", includeLoc)
	if !ok {
		t.Fatal("expected include to resolve via search path")
	}
	if resolved != filepath.Join(dir, "lib.inc") {
		t.Errorf("unexpected resolved path %q", resolved)
	}
	if got := s.Buffer(id).IncludeLoc(); got != includeLoc {
		t.Errorf("expected include location %d, got %d", includeLoc, got)
	}
}

func TestAddIncludeFileNotFound(t *testing.T) {
	s := NewSet()
	s.SetIncludeDirs([]string{t.TempDir()})

	before := s.Count()
	id, resolved, ok := s.AddIncludeFile("missing.inc", NoPos)
	if ok || id != 0 || resolved != "" {
		t.Errorf("expected (0, \"\", false), got (%d, %q, %v)", id, resolved, ok)
	}
	if s.Count() != before {
		t.Errorf("expected set to be unchanged, count went from %d to %d", before, s.Count())
	}
}

func TestAddIncludeFileDirectPathWins(t *testing.T) {
	dir := t.TempDir()
	direct := filepath.Join(dir, "direct.inc")
	if err := os.WriteFile(direct, []byte("direct"), 0o644); err != nil {
		t.Fatal(err)
	}

	other := t.TempDir()
	if err := os.WriteFile(filepath.Join(other, filepath.Base(direct)), []byte("shadowed"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSet()
	s.SetIncludeDirs([]string{other})
	id, resolved, ok := s.AddIncludeFile(direct, NoPos)
	if !ok {
		t.Fatal("expected direct path to resolve")
	}
	if resolved != direct {
		t.Errorf("expected direct path %q, got %q", direct, resolved)
	}
	if string(s.Buffer(id).Content()) != "direct" {
		t.Errorf("expected direct content, got %q", s.Buffer(id).Content())
	}
}
