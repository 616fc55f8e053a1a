// Package source owns source text for every file participating in a
// compilation and translates byte offsets into line/column positions for
// diagnostic rendering.
package source

import (
	"fmt"
	"sort"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Map owns every source file read during a compilation. Index 0 is reserved
// for "no source" so that a zero-valued Span is recognizably absent.
type Map struct {
	files []*File // files[0] is always the sentinel "no source" file.
	Color bool    // Color enables ANSI escapes in rendered diagnostics.
}

// File is one immutable source buffer and its precomputed line table.
type File struct {
	index       int
	name        string
	text        string
	lineOffsets []int // lineOffsets[i] is the byte offset of the start of line i (0-based).
}

// Span is a half-open byte range [Start, End) into the file named by File.
type Span struct {
	Start int
	End   int
	File  int
}

// Position is a 1-based line and 0-based column within a File.
type Position struct {
	Line   int
	Column int
}

// ---------------------
// ----- Constants -----
// ---------------------

// NoSource is the reserved index for spans that do not belong to any file.
const NoSource = 0

// ---------------------
// ----- functions -----
// ---------------------

// NewMap returns an empty Map with the sentinel "no source" file installed.
func NewMap() *Map {
	m := &Map{
		files: make([]*File, 1, 8),
	}
	m.files[0] = &File{index: NoSource, name: "<no source>"}
	return m
}

// AddFile registers a new source buffer under name and returns its index.
// The returned index is stable for the lifetime of the Map.
func (m *Map) AddFile(name, text string) int {
	f := &File{
		index:       len(m.files),
		name:        name,
		text:        text,
		lineOffsets: computeLineOffsets(text),
	}
	m.files = append(m.files, f)
	return f.index
}

// File returns the File registered at index, or the "no source" sentinel if
// index is out of range.
func (m *Map) File(index int) *File {
	if index < 0 || index >= len(m.files) {
		return m.files[NoSource]
	}
	return m.files[index]
}

// computeLineOffsets builds the offset-of-line-start table used by
// PositionFor and Line below.
func computeLineOffsets(text string) []int {
	offsets := make([]int, 1, 16)
	offsets[0] = 0
	for i, r := range text {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// Name returns the file's registered name.
func (f *File) Name() string {
	return f.name
}

// Text returns the file's full source text.
func (f *File) Text() string {
	return f.text
}

// Index returns the file's Map index.
func (f *File) Index() int {
	return f.index
}

// PositionFor computes the 1-based line and 0-based column of offset within
// f, via a binary search over the precomputed line-offset table.
func (f *File) PositionFor(offset int) Position {
	if f.index == NoSource || len(f.lineOffsets) == 0 {
		return Position{}
	}
	// Find the last line whose start offset is <= offset.
	line := sort.Search(len(f.lineOffsets), func(i int) bool {
		return f.lineOffsets[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return Position{
		Line:   line + 1,
		Column: offset - f.lineOffsets[line],
	}
}

// Line returns the text of the given 1-based line number, without its
// trailing newline.
func (f *File) Line(lineNum int) string {
	if lineNum < 1 || lineNum > len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[lineNum-1]
	var end int
	if lineNum < len(f.lineOffsets) {
		end = f.lineOffsets[lineNum] - 1 // Exclude the newline.
	} else {
		end = len(f.text)
	}
	if end < start {
		end = start
	}
	return strings.TrimRight(f.text[start:end], "\r")
}

// String renders span as "file:line:col".
func (m *Map) String(span Span) string {
	f := m.File(span.File)
	pos := f.PositionFor(span.Start)
	return fmt.Sprintf("%s:%d:%d", f.name, pos.Line, pos.Column+1)
}
