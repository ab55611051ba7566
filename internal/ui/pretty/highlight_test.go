package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ipmt/internal/ui/pretty"
	"github.com/yaklabco/ipmt/pkg/search"
)

func TestMergeSpans(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		offsets  []int
		length   int
		expected []pretty.Span
	}{
		{name: "none", offsets: nil, length: 2, expected: nil},
		{name: "zero length", offsets: []int{1}, length: 0, expected: nil},
		{name: "disjoint", offsets: []int{0, 5}, length: 2, expected: []pretty.Span{{0, 2}, {5, 7}}},
		{name: "overlapping", offsets: []int{1, 3}, length: 3, expected: []pretty.Span{{1, 6}}},
		{name: "touching", offsets: []int{0, 2}, length: 2, expected: []pretty.Span{{0, 4}}},
		{name: "chain", offsets: []int{0, 1, 2}, length: 2, expected: []pretty.Span{{0, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, pretty.MergeSpans(tt.offsets, tt.length))
		})
	}
}

func TestMatchedLines(t *testing.T) {
	t.Parallel()

	text := []byte("one banana\ntwo\nbanana bandana\n")
	pattern := []byte("ana")
	offsets := search.Naive(pattern, text)

	lines := pretty.MatchedLines(text, offsets, len(pattern))
	require.Len(t, lines, 2)

	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, "one banana", string(lines[0].Content))
	assert.Equal(t, []pretty.Span{{5, 10}}, lines[0].Spans, "overlapping occurrences merge")

	assert.Equal(t, 3, lines[1].Number)
	assert.Equal(t, 15, lines[1].Start)
	assert.Equal(t, "banana bandana", string(lines[1].Content))
	assert.Equal(t, []pretty.Span{{1, 6}, {11, 14}}, lines[1].Spans)
}

func TestMatchedLines_AcrossNewline(t *testing.T) {
	t.Parallel()

	text := []byte("ab\ncd\nef")
	lines := pretty.MatchedLines(text, []int{1}, 4)

	require.Len(t, lines, 2)
	assert.Equal(t, []pretty.Span{{1, 2}}, lines[0].Spans)
	assert.Equal(t, 2, lines[1].Number)
	assert.Equal(t, []pretty.Span{{0, 2}}, lines[1].Spans)
}

func TestMatchedLines_LastLineWithoutNewline(t *testing.T) {
	t.Parallel()

	text := []byte("x\ny\nzz")
	lines := pretty.MatchedLines(text, []int{4, 5}, 1)

	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Number)
	assert.Equal(t, "zz", string(lines[0].Content))
	assert.Equal(t, []pretty.Span{{0, 2}}, lines[0].Spans)
}

func TestRenderLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	line := pretty.Line{Number: 12, Content: []byte("banana"), Spans: []pretty.Span{{1, 6}}}

	assert.Equal(t, "banana", styles.RenderLine(line))
	assert.Equal(t, "  12: banana", styles.FormatLine(line, 4))
	assert.Equal(t, "12: banana", styles.FormatLine(line, 1))
}

func TestFormatOffsets(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "1, 3, 17", styles.FormatOffsets([]int{1, 3, 17}))
	assert.Empty(t, styles.FormatOffsets(nil))
}
