package collation

import (
	"testing"

	"golang.org/x/text/language"
)

func TestCompareOrdersLetters(t *testing.T) {
	c := MustNew(Options{})
	if got := c.Compare("a", "b"); got >= 0 {
		t.Fatalf("Compare(a, b) = %d, want < 0", got)
	}
	if got := c.Compare("b", "a"); got <= 0 {
		t.Fatalf("Compare(b, a) = %d, want > 0", got)
	}
	if got := c.Compare("a", "a"); got != 0 {
		t.Fatalf("Compare(a, a) = %d, want 0", got)
	}
	if got := c.Compare("", "a"); got >= 0 {
		t.Fatalf("Compare(\"\", a) = %d, want < 0", got)
	}
}

func TestCompareIsNotCodePointOrder(t *testing.T) {
	c := MustNew(Options{Locale: "en"})
	// Code point order puts "B" (0x42) before "a" (0x61).
	if got := c.Compare("a", "B"); got >= 0 {
		t.Fatalf("Compare(a, B) = %d, want < 0", got)
	}
	// Code point order puts "é" after "f".
	if got := c.Compare("é", "f"); got >= 0 {
		t.Fatalf("Compare(é, f) = %d, want < 0", got)
	}
}

func TestIgnoreWidth(t *testing.T) {
	c := MustNew(Options{Locale: "ja", IgnoreWidth: true})
	if got := c.Compare("1", "１"); got != 0 {
		t.Fatalf("Compare(1, fullwidth 1) = %d, want 0", got)
	}
	if got := c.Compare("A", "Ａ"); got != 0 {
		t.Fatalf("Compare(A, fullwidth A) = %d, want 0", got)
	}
}

func TestIgnoreCase(t *testing.T) {
	c := MustNew(Options{IgnoreCase: true})
	if got := c.Compare("abc", "ABC"); got != 0 {
		t.Fatalf("Compare(abc, ABC) = %d, want 0", got)
	}
}

func TestNumeric(t *testing.T) {
	plain := MustNew(Options{})
	if got := plain.Compare("a10", "a9"); got >= 0 {
		t.Fatalf("plain Compare(a10, a9) = %d, want < 0", got)
	}
	numeric := MustNew(Options{Numeric: true})
	if got := numeric.Compare("a10", "a9"); got <= 0 {
		t.Fatalf("numeric Compare(a10, a9) = %d, want > 0", got)
	}
}

func TestNewLocales(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.Und},
		{"ja", language.Japanese},
		{"ja_JP.UTF-8", language.MustParse("ja-JP")},
		{"C", language.Und},
	}
	for _, tt := range tests {
		c, err := New(Options{Locale: tt.locale})
		if err != nil {
			t.Fatalf("New(%q) error: %v", tt.locale, err)
		}
		if c.Tag() != tt.want {
			t.Fatalf("New(%q).Tag() = %v, want %v", tt.locale, c.Tag(), tt.want)
		}
	}
}

func TestNewInvalidLocale(t *testing.T) {
	if _, err := New(Options{Locale: "not a locale!"}); err == nil {
		t.Fatalf("expected error for invalid locale")
	}
}
