// Package sortlines sorts the whole lines covered by editor selections.
//
// A sort runs in three steps: every selection is reduced to the line range it
// covers, each range is sorted with a locale-aware comparator, and the sorted
// blocks are handed back to the host as a single edit.
//
// When more than one selection is given and each of them sits on a single
// line, the covered lines are reordered by the selected text instead, so a
// column of cursors sorts the lines by what is under them.
package sortlines

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrOverlappingRanges is returned when two selections cover a common line.
	ErrOverlappingRanges = errors.New("selections cover overlapping lines")
	// ErrEditApply wraps failures reported by the host while applying the edit.
	ErrEditApply = errors.New("apply edit")
)

// Replacement replaces lines Range.First..Range.Last (without the separator
// after the last line) with Text.
type Replacement struct {
	Range LineRange
	Text  string
}

// Host is the editing surface a sort operates on.
type Host interface {
	Lines() []string
	Selections() []Selection
	LineSeparator() string
	// Apply replaces all ranges in one step. Nothing is applied on error.
	Apply(ctx context.Context, edits []Replacement) error
}

// Plan computes the sorted blocks for sels over lines. Degenerate selections
// are skipped. The blocks are ordered by their first line.
func Plan(lines []string, sels []Selection, cmp CompareFunc, descending bool) ([]Block, error) {
	if len(sels) == 0 || len(lines) == 0 {
		return nil, nil
	}

	if keyed(sels) {
		entries := make([]KeyedLine, 0, len(sels))
		ranges := make([]LineRange, 0, len(sels))
		for _, sel := range sels {
			r, ok := LineRangeFor(sel, len(lines))
			if !ok {
				continue
			}
			entries = append(entries, KeyedLine{Line: r.First, Key: SelectedText(lines[r.First], sel)})
			ranges = append(ranges, r)
		}
		if err := checkOverlap(ranges); err != nil {
			return nil, err
		}
		return SortKeyed(lines, entries, cmp, descending), nil
	}

	ranges := make([]LineRange, 0, len(sels))
	for _, sel := range sels {
		if r, ok := LineRangeFor(sel, len(lines)); ok {
			ranges = append(ranges, r)
		}
	}
	if err := checkOverlap(ranges); err != nil {
		return nil, err
	}
	return SortRanges(lines, ranges, cmp, descending), nil
}

// Rewrite turns blocks into replacements joined with sep.
func Rewrite(blocks []Block, sep string) []Replacement {
	if len(blocks) == 0 {
		return nil
	}
	edits := make([]Replacement, len(blocks))
	for i, b := range blocks {
		edits[i] = Replacement{Range: b.Range, Text: strings.Join(b.Lines, sep)}
	}
	return edits
}

// SortLines sorts the lines covered by the host's selections and applies the
// result as one edit. Nothing is applied when no selection covers a line or
// the covered lines are already in order.
func SortLines(ctx context.Context, host Host, cmp CompareFunc, descending bool) error {
	lines := host.Lines()
	blocks, err := Plan(lines, host.Selections(), cmp, descending)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(blocks, func(b Block) bool { return b.Changed(lines) }) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := host.Apply(ctx, Rewrite(blocks, host.LineSeparator())); err != nil {
		return fmt.Errorf("%w: %w", ErrEditApply, err)
	}
	return nil
}

func keyed(sels []Selection) bool {
	if len(sels) < 2 {
		return false
	}
	for _, sel := range sels {
		if !sel.SingleLine() {
			return false
		}
	}
	return true
}

// checkOverlap sorts ranges by first line and rejects any shared line.
func checkOverlap(ranges []LineRange) error {
	slices.SortFunc(ranges, func(a, b LineRange) int {
		return a.First - b.First
	})
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Overlaps(ranges[i-1]) {
			return fmt.Errorf("%w: lines %d-%d and %d-%d", ErrOverlappingRanges,
				ranges[i-1].First, ranges[i-1].Last, ranges[i].First, ranges[i].Last)
		}
	}
	return nil
}
