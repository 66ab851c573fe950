package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caret/internal/source"
)

func TestBuildSnapshotsLocation(t *testing.T) {
	set := source.NewSet()
	id := set.AddBuffer("demo.txt", []byte("first line\nsecond line\n"), source.NoPos)
	buf := set.Buffer(id)

	d := Build(set, buf.Pos(18), SevError, "something broke", nil, nil)

	assert.Equal(t, SevError, d.Severity)
	assert.Equal(t, "demo.txt", d.Filename)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 7, d.Col)
	assert.Equal(t, "second line", d.LineText)
	assert.Equal(t, "something broke", d.Message)
	assert.True(t, d.HasLocation())
}

func TestBuildMessageOnly(t *testing.T) {
	set := source.NewSet()

	d := Build(set, source.NoPos, SevWarning, "general warning", nil, nil)

	assert.Equal(t, "<unknown>", d.Filename)
	assert.Equal(t, -1, d.Line)
	assert.Equal(t, -1, d.Col)
	assert.Empty(t, d.LineText)
	assert.False(t, d.HasLocation())
}

func TestBuildPanicsOnForeignPos(t *testing.T) {
	set := source.NewSet()
	id := set.AddBuffer("demo.txt", []byte("short"), source.NoPos)
	end := set.Buffer(id).End()

	assert.Panics(t, func() {
		Build(set, end+100, SevError, "boom", nil, nil)
	})
}

func TestBuildStripsLineEnding(t *testing.T) {
	set := source.NewSet()
	// A lone \r survives buffer registration; the snapshot must still stop
	// at it.
	id := set.AddBuffer("cr.txt", []byte("before\rafter"), source.NoPos)
	buf := set.Buffer(id)

	d := Build(set, buf.Pos(2), SevError, "msg", nil, nil)
	assert.Equal(t, "before", d.LineText)

	d = Build(set, buf.Pos(8), SevError, "msg", nil, nil)
	assert.Equal(t, "after", d.LineText)
}

func TestBuildClipsRanges(t *testing.T) {
	set := source.NewSet()
	id := set.AddBuffer("clip.txt", []byte("aaaa\nbbbbbb\ncccc"), source.NoPos)
	buf := set.Buffer(id)

	// Diagnostic on line 2 ("bbbbbb", offsets 5..10).
	pos := buf.Pos(7)
	ranges := []source.Range{
		source.MakeRange(buf.Pos(6), buf.Pos(9)),  // fully inside
		source.MakeRange(buf.Pos(2), buf.Pos(8)),  // starts on line 1
		source.MakeRange(buf.Pos(9), buf.Pos(14)), // ends on line 3
		source.MakeRange(buf.Pos(0), buf.Pos(3)),  // entirely on line 1
		{},                                        // invalid, dropped
	}

	d := Build(set, pos, SevError, "msg", ranges, nil)

	require.Len(t, d.Ranges, 3)
	assert.Equal(t, ColRange{Start: 1, End: 4}, d.Ranges[0])
	assert.Equal(t, ColRange{Start: 0, End: 3}, d.Ranges[1])
	assert.Equal(t, ColRange{Start: 4, End: 6}, d.Ranges[2])
}

func TestBuildSortsFixIts(t *testing.T) {
	set := source.NewSet()
	id := set.AddBuffer("fix.txt", []byte("abcdef"), source.NoPos)
	buf := set.Buffer(id)

	fixits := []FixIt{
		{Range: source.MakeRange(buf.Pos(4), buf.Pos(5)), Text: "late"},
		{Range: source.MakeRange(buf.Pos(1), buf.Pos(3)), Text: "early"},
		{Range: source.MakeRange(buf.Pos(1), buf.Pos(2)), Text: "earlier end"},
	}

	d := Build(set, buf.Pos(0), SevNote, "msg", nil, fixits)

	require.Len(t, d.FixIts, 3)
	assert.Equal(t, "earlier end", d.FixIts[0].Text)
	assert.Equal(t, "early", d.FixIts[1].Text)
	assert.Equal(t, "late", d.FixIts[2].Text)
}

func TestFixItRenderable(t *testing.T) {
	assert.True(t, FixIt{Text: "plain"}.Renderable())
	assert.True(t, FixIt{Text: ""}.Renderable())
	assert.False(t, FixIt{Text: "two\nlines"}.Renderable())
	assert.False(t, FixIt{Text: "has\ttab"}.Renderable())
	assert.False(t, FixIt{Text: "has\rreturn"}.Renderable())
}
