package sortlines

import (
	"slices"
	"unicode/utf8"
)

// CompareFunc orders two strings: negative when a sorts first, zero when they
// are equivalent, positive otherwise.
type CompareFunc func(a, b string) int

// Block is a run of sorted lines that replaces the lines in Range.
type Block struct {
	Range LineRange
	Lines []string
}

// Changed reports whether the block differs from the current document lines.
func (b Block) Changed(lines []string) bool {
	if b.Range.First < 0 || b.Range.Last >= len(lines) {
		return true
	}
	return !slices.Equal(b.Lines, lines[b.Range.First:b.Range.Last+1])
}

func direction(cmp CompareFunc, descending bool) CompareFunc {
	if !descending {
		return cmp
	}
	return func(a, b string) int {
		return cmp(b, a)
	}
}

// SortRange returns the lines of r sorted with cmp. Equal lines keep their
// relative order in both directions; lines is not modified.
func SortRange(lines []string, r LineRange, cmp CompareFunc, descending bool) []string {
	out := slices.Clone(lines[r.First : r.Last+1])
	slices.SortStableFunc(out, direction(cmp, descending))
	return out
}

// SortRanges sorts every range independently.
func SortRanges(lines []string, ranges []LineRange, cmp CompareFunc, descending bool) []Block {
	blocks := make([]Block, 0, len(ranges))
	for _, r := range ranges {
		blocks = append(blocks, Block{Range: r, Lines: SortRange(lines, r, cmp, descending)})
	}
	return blocks
}

// KeyedLine is a document line paired with the text it is ordered by.
type KeyedLine struct {
	Line int
	Key  string
}

// SortKeyed reorders whole lines by their keys. The sorted lines are written
// back into the same line slots, in document order. Entries must reference
// distinct lines.
func SortKeyed(lines []string, entries []KeyedLine, cmp CompareFunc, descending bool) []Block {
	if len(entries) == 0 {
		return nil
	}
	byLine := slices.Clone(entries)
	slices.SortStableFunc(byLine, func(a, b KeyedLine) int {
		return a.Line - b.Line
	})
	sorted := slices.Clone(byLine)
	order := direction(cmp, descending)
	slices.SortStableFunc(sorted, func(a, b KeyedLine) int {
		return order(a.Key, b.Key)
	})

	blocks := make([]Block, len(byLine))
	for i, slot := range byLine {
		blocks[i] = Block{
			Range: LineRange{First: slot.Line, Last: slot.Line},
			Lines: []string{lines[sorted[i].Line]},
		}
	}
	return blocks
}

// SelectedText returns the part of line between the columns of a single-line
// selection. Columns are rune indexes and are clamped to the line.
func SelectedText(line string, sel Selection) string {
	start, end := sel.Normalize()
	n := utf8.RuneCountInString(line)
	from := clamp(start.Col, 0, n)
	to := clamp(end.Col, 0, n)
	if end.Line > start.Line {
		to = n
	}
	if to <= from {
		return ""
	}
	runes := []rune(line)
	return string(runes[from:to])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
