// Package collation provides locale-aware string comparison backed by the
// Unicode Collation Algorithm tables in golang.org/x/text.
package collation

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Options tune how strings compare.
type Options struct {
	Locale           string
	IgnoreCase       bool
	IgnoreWidth      bool
	IgnoreDiacritics bool
	Numeric          bool
}

// Collator compares strings for one locale. It is safe for concurrent use.
type Collator struct {
	mu   sync.Mutex
	c    *collate.Collator
	tag  language.Tag
	opts Options
}

// New builds a collator. An empty locale selects the root collation order.
func New(opts Options) (*Collator, error) {
	tag := language.Und
	if loc := strings.TrimSpace(opts.Locale); loc != "" {
		t, err := language.Parse(normalizeLocale(loc))
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", opts.Locale, err)
		}
		tag = t
	}

	var copts []collate.Option
	if opts.IgnoreCase {
		copts = append(copts, collate.IgnoreCase)
	}
	if opts.IgnoreWidth {
		copts = append(copts, collate.IgnoreWidth)
	}
	if opts.IgnoreDiacritics {
		copts = append(copts, collate.IgnoreDiacritics)
	}
	if opts.Numeric {
		copts = append(copts, collate.Numeric)
	}
	return &Collator{c: collate.New(tag, copts...), tag: tag, opts: opts}, nil
}

// MustNew is like New but panics on an invalid locale.
func MustNew(opts Options) *Collator {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.CompareString(a, b)
}

// Tag returns the resolved language tag.
func (c *Collator) Tag() language.Tag {
	return c.tag
}

// Options returns the options the collator was built with.
func (c *Collator) Options() Options {
	return c.opts
}

// normalizeLocale accepts POSIX style names such as "ja_JP.UTF-8".
func normalizeLocale(loc string) string {
	if i := strings.IndexAny(loc, ".@"); i >= 0 {
		loc = loc[:i]
	}
	if loc == "C" || loc == "POSIX" {
		return "und"
	}
	return strings.ReplaceAll(loc, "_", "-")
}
