// Package document is an in-memory line buffer that serves as the editing
// surface for line sorting: it holds the text, the current selections and
// applies multi-range replacements atomically.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/kobzarvs/sortlines/internal/sortlines"
)

var (
	ErrRangeOutOfBounds = errors.New("range out of bounds")
	ErrOverlap          = errors.New("overlapping replacements")
	ErrClosed           = errors.New("document closed")
)

const (
	LF   = "\n"
	CRLF = "\r\n"
)

// Buffer holds the lines of a document. The zero value is not usable; use New
// or Open.
type Buffer struct {
	mu         sync.RWMutex
	lines      []string
	eol        string
	selections []sortlines.Selection
	path       string
	changeTick uint64
	closed     bool
}

// New creates a buffer from text. The line separator is detected from the
// first line break and defaults to LF.
func New(text string) *Buffer {
	lines, eol := splitLines(text)
	return &Buffer{lines: lines, eol: eol}
}

// Open reads a file into a buffer.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b := New(string(data))
	b.path = path
	return b, nil
}

// Path returns the file the buffer was opened from, if any.
func (b *Buffer) Path() string {
	return b.path
}

// Lines returns a snapshot of the buffer lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.lines)
}

// LineCount returns the number of lines. Text ending in a separator has an
// empty last line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineSeparator returns the separator used when joining lines.
func (b *Buffer) LineSeparator() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.eol
}

// Selections returns a copy of the current selections.
func (b *Buffer) Selections() []sortlines.Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.selections)
}

// SetSelections replaces the current selections.
func (b *Buffer) SetSelections(sels ...sortlines.Selection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selections = slices.Clone(sels)
}

// SelectAll selects from the start of the document to the end of the last line.
func (b *Buffer) SelectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	lastRow := len(b.lines) - 1
	b.selections = []sortlines.Selection{
		sortlines.NewSelection(0, 0, lastRow, len([]rune(b.lines[lastRow]))),
	}
}

// ChangeTick increases with every applied edit.
func (b *Buffer) ChangeTick() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.changeTick
}

// Content returns the full text.
func (b *Buffer) Content() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.eol)
}

// Apply replaces every edit range with its text. The edits are validated
// against the current lines first; on any error the buffer is unchanged.
func (b *Buffer) Apply(ctx context.Context, edits []sortlines.Replacement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(x, y sortlines.Replacement) int {
		return x.Range.First - y.Range.First
	})
	for i, e := range sorted {
		if e.Range.First < 0 || e.Range.Last < e.Range.First || e.Range.Last >= len(b.lines) {
			return fmt.Errorf("%w: lines %d-%d of %d", ErrRangeOutOfBounds, e.Range.First, e.Range.Last, len(b.lines))
		}
		if i > 0 && sorted[i-1].Range.Overlaps(e.Range) {
			return fmt.Errorf("%w: lines %d-%d", ErrOverlap, e.Range.First, e.Range.Last)
		}
	}

	next := make([]string, 0, len(b.lines))
	row := 0
	for _, e := range sorted {
		next = append(next, b.lines[row:e.Range.First]...)
		replacement, _ := splitLines(e.Text)
		next = append(next, replacement...)
		row = e.Range.Last + 1
	}
	next = append(next, b.lines[row:]...)

	b.lines = next
	b.changeTick++
	b.clampSelections()
	return nil
}

// Save writes the content to path, or to the path it was opened from when path
// is empty.
func (b *Buffer) Save(path string) error {
	if path == "" {
		path = b.path
	}
	if path == "" {
		return errors.New("no file name")
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, []byte(b.Content()), perm)
}

// Close marks the buffer closed; later edits fail with ErrClosed.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

func (b *Buffer) clampSelections() {
	last := len(b.lines) - 1
	clampPos := func(p sortlines.Position) sortlines.Position {
		if p.Line > last {
			p.Line = last
		}
		if p.Line < 0 {
			p.Line = 0
		}
		if n := len([]rune(b.lines[p.Line])); p.Col > n {
			p.Col = n
		}
		return p
	}
	for i, sel := range b.selections {
		b.selections[i] = sortlines.Selection{Anchor: clampPos(sel.Anchor), Active: clampPos(sel.Active)}
	}
}

// splitLines splits text on LF, dropping a CR before each LF. The separator
// returned is CRLF when the first line break is CRLF; mixed files are
// normalized to it.
func splitLines(text string) ([]string, string) {
	eol := LF
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		eol = CRLF
	}
	text = strings.ReplaceAll(text, CRLF, LF)
	return strings.Split(text, LF), eol
}
