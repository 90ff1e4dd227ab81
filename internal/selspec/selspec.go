// Package selspec reads selections from command line specs and selection
// files.
//
// A position is written "LINE:COL" with zero-based line and column; a
// selection is "LINE:COL-LINE:COL" (anchor first) or a single position for a
// cursor. A line range "FIRST-LAST" uses one-based inclusive line numbers, the
// way editors display them, and selects those whole lines.
package selspec

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kobzarvs/sortlines/internal/sortlines"
)

var ErrSyntax = errors.New("invalid selection")

// ParsePosition parses "LINE:COL".
func ParsePosition(s string) (sortlines.Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return sortlines.Position{}, fmt.Errorf("%w: position %q needs LINE:COL", ErrSyntax, s)
	}
	line, err := parseIndex(lineStr)
	if err != nil {
		return sortlines.Position{}, fmt.Errorf("%w: position %q: %v", ErrSyntax, s, err)
	}
	col, err := parseIndex(colStr)
	if err != nil {
		return sortlines.Position{}, fmt.Errorf("%w: position %q: %v", ErrSyntax, s, err)
	}
	return sortlines.Position{Line: line, Col: col}, nil
}

// Parse parses "LINE:COL-LINE:COL" or "LINE:COL".
func Parse(s string) (sortlines.Selection, error) {
	anchorStr, activeStr, span := strings.Cut(s, "-")
	anchor, err := ParsePosition(anchorStr)
	if err != nil {
		return sortlines.Selection{}, err
	}
	if !span {
		return sortlines.Selection{Anchor: anchor, Active: anchor}, nil
	}
	active, err := ParsePosition(activeStr)
	if err != nil {
		return sortlines.Selection{}, err
	}
	return sortlines.Selection{Anchor: anchor, Active: active}, nil
}

// ParseLines parses a one-based inclusive "FIRST-LAST" or "LINE" range into a
// selection that ends at the start of the line after LAST.
func ParseLines(s string) (sortlines.Selection, error) {
	firstStr, lastStr, span := strings.Cut(strings.TrimSpace(s), "-")
	if !span {
		lastStr = firstStr
	}
	first, err := strconv.Atoi(strings.TrimSpace(firstStr))
	if err != nil || first < 1 {
		return sortlines.Selection{}, fmt.Errorf("%w: line range %q", ErrSyntax, s)
	}
	last, err := strconv.Atoi(strings.TrimSpace(lastStr))
	if err != nil || last < first {
		return sortlines.Selection{}, fmt.Errorf("%w: line range %q", ErrSyntax, s)
	}
	return sortlines.NewSelection(first-1, 0, last, 0), nil
}

// ParseAll parses every spec, stopping at the first error.
func ParseAll(specs []string) ([]sortlines.Selection, error) {
	sels := make([]sortlines.Selection, 0, len(specs))
	for _, s := range specs {
		sel, err := Parse(s)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

type position struct {
	Line int `yaml:"line"`
	Col  int `yaml:"col"`
}

// entry is one selection in a file: either a spec string or an
// {anchor, active} mapping.
type entry struct {
	sel sortlines.Selection
}

func (e *entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		sel, err := Parse(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		e.sel = sel
		return nil
	}
	var raw struct {
		Anchor *position `yaml:"anchor"`
		Active *position `yaml:"active"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Anchor == nil {
		return fmt.Errorf("%w: line %d: missing anchor", ErrSyntax, value.Line)
	}
	if raw.Active == nil {
		raw.Active = raw.Anchor
	}
	if raw.Anchor.Line < 0 || raw.Anchor.Col < 0 || raw.Active.Line < 0 || raw.Active.Col < 0 {
		return fmt.Errorf("%w: line %d: negative position", ErrSyntax, value.Line)
	}
	e.sel = sortlines.NewSelection(raw.Anchor.Line, raw.Anchor.Col, raw.Active.Line, raw.Active.Col)
	return nil
}

type file struct {
	Selections []entry `yaml:"selections"`
}

// Decode reads selections from YAML or JSON data. The document is either a
// list of selections or a mapping with a "selections" list.
func Decode(data []byte) ([]sortlines.Selection, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	var entries []entry
	switch doc := root.Content[0]; doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&entries); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var f file
		if err := doc.Decode(&f); err != nil {
			return nil, err
		}
		entries = f.Selections
	default:
		return nil, fmt.Errorf("%w: expected a list of selections", ErrSyntax)
	}

	sels := make([]sortlines.Selection, len(entries))
	for i, e := range entries {
		sels[i] = e.sel
	}
	return sels, nil
}

// Load reads a selection file.
func Load(path string) ([]sortlines.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sels, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sels, nil
}

// Format renders a selection in the spec syntax accepted by Parse.
func Format(sel sortlines.Selection) string {
	if sel.Empty() {
		return fmt.Sprintf("%d:%d", sel.Anchor.Line, sel.Anchor.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", sel.Anchor.Line, sel.Anchor.Col, sel.Active.Line, sel.Active.Col)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative index")
	}
	return n, nil
}
