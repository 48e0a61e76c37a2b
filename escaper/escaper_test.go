package escaper_test

import (
	"testing"

	"github.com/aledsdavies/scrut/escaper"
)

func TestEscapedPrintableUnicode(t *testing.T) {
	e := escaper.Escaper{Mode: escaper.Unicode}
	tests := []struct{ in, want string }{
		{"foo", "foo"},
		{"foo \x1b[1mbar\x1b[0m", "foo \\x1b[1mbar\\x1b[0m"},
		{"foo\tbar", "foo\\tbar"},
	}
	for _, tt := range tests {
		got := e.EscapedPrintable([]byte(tt.in))
		if got != tt.want {
			t.Errorf("EscapedPrintable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapedPrintableASCII(t *testing.T) {
	e := escaper.Escaper{Mode: escaper.Ascii}
	tests := []struct{ in, want string }{
		{"\x00\x01\x02", "\\x00\\x01\\x02"},
		{"foo", "foo"},
		{"foo \x1b[1mbar\x1b[0m", "foo \\x1b[1mbar\\x1b[0m"},
		{"foo\tbar", "foo\\tbar"},
		{"foo \xf0\x9f\x98\x82", "foo \\xf0\\x9f\\x98\\x82"},
	}
	for _, tt := range tests {
		got := e.EscapedPrintable([]byte(tt.in))
		if got != tt.want {
			t.Errorf("EscapedPrintable(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapedExpectation(t *testing.T) {
	e := escaper.Default()
	if got := e.EscapedExpectation([]byte("foo\n")); got != "foo" {
		t.Errorf("got %q", got)
	}
	if got := e.EscapedExpectation([]byte("foo\tbar\n")); got != "foo\\tbar (escaped)" {
		t.Errorf("got %q", got)
	}
}
