package sortlines

// Position is a zero-based line/column location in a document. Columns are in
// the host's native text unit.
type Position struct {
	Line int
	Col  int
}

// Less reports whether p comes before q in document order.
func (p Position) Less(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Selection is a span between an anchor and an active position. Either end may
// come first.
type Selection struct {
	Anchor Position
	Active Position
}

// NewSelection builds a selection from anchor and active coordinates.
func NewSelection(anchorLine, anchorCol, activeLine, activeCol int) Selection {
	return Selection{
		Anchor: Position{Line: anchorLine, Col: anchorCol},
		Active: Position{Line: activeLine, Col: activeCol},
	}
}

// Cursor is a zero-width selection at line/col.
func Cursor(line, col int) Selection {
	return NewSelection(line, col, line, col)
}

// Normalize returns the selection ends in document order.
func (s Selection) Normalize() (start, end Position) {
	start, end = s.Anchor, s.Active
	if end.Less(start) {
		start, end = end, start
	}
	return start, end
}

// Empty reports whether the selection has zero width.
func (s Selection) Empty() bool {
	return s.Anchor == s.Active
}

// SingleLine reports whether both ends are on the same line.
func (s Selection) SingleLine() bool {
	return s.Anchor.Line == s.Active.Line
}

// LineRange is an inclusive range of line indexes.
type LineRange struct {
	First int
	Last  int
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int {
	return r.Last - r.First + 1
}

// Overlaps reports whether r and o share at least one line.
func (r LineRange) Overlaps(o LineRange) bool {
	return r.First <= o.Last && o.First <= r.Last
}

// LineRangeFor computes the whole lines sel covers in a document of lineCount
// lines. It returns false when the selection covers nothing.
//
// A selection that ends at column 0 of a later line does not take that line:
// it was produced by selecting whole lines including their terminator. This
// also keeps a trailing empty last line out of a "select to end" gesture.
func LineRangeFor(sel Selection, lineCount int) (LineRange, bool) {
	if lineCount <= 0 {
		return LineRange{}, false
	}
	start, end := sel.Normalize()
	if start.Line < 0 {
		start = Position{}
	}
	if start.Line >= lineCount || end.Line < 0 {
		return LineRange{}, false
	}

	first := start.Line
	last := end.Line
	if end.Col == 0 && end.Line > start.Line {
		last--
	}
	if last >= lineCount {
		last = lineCount - 1
	}
	if last < first {
		last = first
	}
	return LineRange{First: first, Last: last}, true
}
