package tree

import (
	"go/token"
	"sort"
)

// LineIndex converts byte offsets of one source file into positions.
type LineIndex struct {
	filename string
	starts   []int
}

func NewLineIndex(filename string, src []byte) *LineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{filename: filename, starts: starts}
}

// Position returns the 1-based line and column of offset.
func (l *LineIndex) Position(offset int) token.Position {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return token.Position{
		Filename: l.filename,
		Offset:   offset,
		Line:     line + 1,
		Column:   offset - l.starts[line] + 1,
	}
}

// Line returns the 1-based line of offset.
func (l *LineIndex) Line(offset int) int {
	return l.Position(offset).Line
}
