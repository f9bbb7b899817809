package front

import (
	"sort"
	"strings"
)

// TextPosition is a byte offset into one Input.
type TextPosition struct {
	Input    uint32
	Absolute uint32
}

// TextSpan is a half-open byte range within one Input.
type TextSpan struct {
	Pos TextPosition
	Len uint32
}

func NewSpan(input, absolute, length uint32) TextSpan {
	return TextSpan{Pos: TextPosition{Input: input, Absolute: absolute}, Len: length}
}

// End returns the offset one past the last byte of the span.
func (s TextSpan) End() uint32 {
	return s.Pos.Absolute + s.Len
}

// Union returns the smallest span covering both s and o.
// Both spans must belong to the same input.
func (s TextSpan) Union(o TextSpan) TextSpan {
	begin := min(s.Pos.Absolute, o.Pos.Absolute)
	end := max(s.End(), o.End())
	return NewSpan(s.Pos.Input, begin, end-begin)
}

// IncludedFrom records the `#include` line that pulled an input in.
type IncludedFrom struct {
	Input uint32
	Span  TextSpan
}

// Input is an immutable source buffer.
type Input struct {
	ID           uint32
	Name         string
	Content      string
	Path         string // empty unless read from disk
	IncludedFrom *IncludedFrom
	Depth        uint32

	newlines []int
}

func NewInput(name, content, path string) *Input {
	in := &Input{
		Name:    name,
		Content: content,
		Path:    path,
	}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			in.newlines = append(in.newlines, i)
		}
	}
	return in
}

// Newlines returns the byte offsets of every '\n' in the content.
func (in *Input) Newlines() []int {
	return in.newlines
}

// LineColumn resolves a byte offset to a 1-based line and column.
func (in *Input) LineColumn(offset int) (int, int) {
	i := sort.SearchInts(in.newlines, offset)
	start := 0
	if i > 0 {
		start = in.newlines[i-1] + 1
	}
	return i + 1, offset - start + 1
}

// Line returns the text of the 1-based line n without its newline.
func (in *Input) Line(n int) string {
	if n < 1 || n > len(in.newlines)+1 {
		return ""
	}
	start := 0
	if n > 1 {
		start = in.newlines[n-2] + 1
	}
	end := len(in.Content)
	if n <= len(in.newlines) {
		end = in.newlines[n-1]
	}
	return strings.TrimSuffix(in.Content[start:end], "\r")
}

// Text returns the source text covered by span.
func (in *Input) Text(span TextSpan) string {
	begin := min(int(span.Pos.Absolute), len(in.Content))
	end := min(int(span.End()), len(in.Content))
	return in.Content[begin:end]
}
