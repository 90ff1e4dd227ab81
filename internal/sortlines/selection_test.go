package sortlines

import "testing"

func TestLineRangeFor(t *testing.T) {
	tests := []struct {
		name      string
		sel       Selection
		lineCount int
		want      LineRange
		ok        bool
	}{
		{"whole lines with trailing newline", NewSelection(0, 0, 3, 0), 4, LineRange{0, 2}, true},
		{"reversed selection", NewSelection(3, 0, 0, 0), 4, LineRange{0, 2}, true},
		{"cursor at line start", Cursor(1, 0), 4, LineRange{1, 1}, true},
		{"cursor mid line", Cursor(2, 3), 4, LineRange{2, 2}, true},
		{"cursor in one line document", Cursor(0, 0), 1, LineRange{0, 0}, true},
		{"partial first line ending at column 0", NewSelection(0, 1, 2, 0), 4, LineRange{0, 1}, true},
		{"single line ending at next line start", NewSelection(1, 2, 2, 0), 4, LineRange{1, 1}, true},
		{"one full line", NewSelection(0, 0, 1, 0), 4, LineRange{0, 0}, true},
		{"ends mid line", NewSelection(0, 0, 2, 3), 4, LineRange{0, 2}, true},
		{"single line span", NewSelection(2, 1, 2, 2), 4, LineRange{2, 2}, true},
		{"end past document", NewSelection(0, 0, 9, 2), 4, LineRange{0, 3}, true},
		{"start past document", NewSelection(5, 0, 6, 0), 4, LineRange{}, false},
		{"negative start", NewSelection(-1, 0, 1, 2), 4, LineRange{0, 1}, true},
		{"empty document", Cursor(0, 0), 0, LineRange{}, false},
	}
	for _, tt := range tests {
		got, ok := LineRangeFor(tt.sel, tt.lineCount)
		if ok != tt.ok {
			t.Fatalf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
		}
		if got != tt.want {
			t.Fatalf("%s: range = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestLineRangeForTrailingEmptyLine(t *testing.T) {
	// "a\nc\nb\n\n" has lines a, c, b, "", "".
	got, ok := LineRangeFor(NewSelection(0, 0, 4, 0), 5)
	if !ok || got != (LineRange{0, 3}) {
		t.Fatalf("range = %+v ok=%v, want {0 3} true", got, ok)
	}
	got, ok = LineRangeFor(NewSelection(0, 0, 3, 0), 5)
	if !ok || got != (LineRange{0, 2}) {
		t.Fatalf("range = %+v ok=%v, want {0 2} true", got, ok)
	}
}

func TestNormalize(t *testing.T) {
	start, end := NewSelection(2, 1, 0, 4).Normalize()
	if start != (Position{Line: 0, Col: 4}) || end != (Position{Line: 2, Col: 1}) {
		t.Fatalf("Normalize = %+v, %+v", start, end)
	}
	start, end = NewSelection(1, 5, 1, 2).Normalize()
	if start.Col != 2 || end.Col != 5 {
		t.Fatalf("Normalize cols = %d, %d, want 2, 5", start.Col, end.Col)
	}
}

func TestLineRangeOverlaps(t *testing.T) {
	a := LineRange{First: 0, Last: 2}
	if !a.Overlaps(LineRange{First: 2, Last: 4}) {
		t.Fatalf("expected overlap on shared line")
	}
	if a.Overlaps(LineRange{First: 3, Last: 4}) {
		t.Fatalf("unexpected overlap for adjacent ranges")
	}
	if a.Len() != 3 {
		t.Fatalf("Len = %d, want 3", a.Len())
	}
}
