package pretty

import (
	"bytes"
	"strconv"
	"strings"
)

// Span is a half-open byte range [Start, End).
type Span struct {
	Start int
	End   int
}

// MergeSpans turns ascending occurrence offsets of a pattern of the given
// length into disjoint spans. Overlapping and touching occurrences merge,
// so "aaaa" searched for "aa" yields one span.
func MergeSpans(offsets []int, length int) []Span {
	if length <= 0 || len(offsets) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(offsets))
	for _, off := range offsets {
		end := off + length
		if n := len(spans); n > 0 && off <= spans[n-1].End {
			spans[n-1].End = max(spans[n-1].End, end)
			continue
		}
		spans = append(spans, Span{Start: off, End: end})
	}
	return spans
}

// Line is a line of text holding at least one occurrence.
type Line struct {
	// Number is the 1-based line number.
	Number int

	// Start is the byte offset of the line in the text.
	Start int

	// Content is the line without its newline.
	Content []byte

	// Spans are the highlighted ranges, relative to Content.
	Spans []Span
}

// MatchedLines returns the lines of text touched by the occurrences at
// offsets, in order and without duplicates. An occurrence that spans a
// newline is highlighted on every line it touches.
func MatchedLines(text []byte, offsets []int, length int) []Line {
	var lines []Line

	lineNo := 1
	scanned := 0

	for _, span := range MergeSpans(offsets, length) {
		span.End = min(span.End, len(text))
		pos := span.Start
		for pos < span.End {
			start := bytes.LastIndexByte(text[:pos], '\n') + 1
			end := len(text)
			if i := bytes.IndexByte(text[pos:], '\n'); i >= 0 {
				end = pos + i
			}

			if start > scanned {
				lineNo += bytes.Count(text[scanned:start], []byte{'\n'})
				scanned = start
			}

			n := len(lines)
			if n == 0 || lines[n-1].Start != start {
				lines = append(lines, Line{Number: lineNo, Start: start, Content: text[start:end]})
				n++
			}
			if local := (Span{Start: pos - start, End: min(span.End, end) - start}); local.Start < local.End {
				lines[n-1].Spans = append(lines[n-1].Spans, local)
			}

			pos = end + 1
		}
	}

	return lines
}

// RenderLine renders the content of line with its spans highlighted.
func (s *Styles) RenderLine(line Line) string {
	var b strings.Builder
	prev := 0
	for _, span := range line.Spans {
		b.Write(line.Content[prev:span.Start])
		b.WriteString(s.Match.Render(string(line.Content[span.Start:span.End])))
		prev = span.End
	}
	b.Write(line.Content[prev:])
	return b.String()
}

// FormatLine renders a numbered line, right-aligning the number to width.
func (s *Styles) FormatLine(line Line, width int) string {
	num := strconv.Itoa(line.Number)
	if pad := width - len(num); pad > 0 {
		num = strings.Repeat(" ", pad) + num
	}
	return s.LineNumber.Render(num) + s.Dim.Render(":") + " " + s.RenderLine(line)
}

// FormatOffsets renders occurrence offsets as a comma-separated list.
func (s *Styles) FormatOffsets(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, off := range offsets {
		parts[i] = s.Offset.Render(strconv.Itoa(off))
	}
	return strings.Join(parts, ", ")
}
