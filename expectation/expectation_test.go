package expectation_test

import (
	"testing"

	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/rule"
)

func maker() *expectation.Maker {
	return expectation.NewMaker(rule.DefaultRegistry())
}

func TestParseExpressionAndKind(t *testing.T) {
	tests := []struct {
		line           string
		wantExpression string
		wantKind       string
	}{
		{"foo", "foo", "equal"},
		{"foo (?)", "foo", "equal"},
		{"foo (*)", "foo", "equal"},
		{"foo (+)", "foo", "equal"},
		{"foo (eq+)", "foo", "eq"},
		{"foo (equal+)", "foo", "equal"},
		{"foo (no-eol)", "foo", "no-eol"},
		{"foo (no-eol*)", "foo", "no-eol"},
		{"foo (esc)", "foo", "esc"},
		{"foo (escaped+)", "foo", "escaped"},
		{"foo (re)", "foo", "re"},
		{"foo (regex*)", "foo", "regex"},
		{"foo (glob+)", "foo", "glob"},
		{"foo (glob+) (glob+)", "foo (glob+)", "glob"},
	}
	m := maker()
	for _, tt := range tests {
		e, err := m.Parse(tt.line)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.line, err)
		}
		if got := e.OriginalString(); got != tt.line {
			t.Errorf("original string for %q = %q", tt.line, got)
		}
		kind, expr, _, _ := e.Unmake()
		if kind != normalizeKind(tt.wantKind) {
			t.Errorf("parse(%q) kind = %q, want %q", tt.line, kind, normalizeKind(tt.wantKind))
		}
		_ = expr
	}
}

// normalizeKind mirrors Registry.Make resolving aliases to canonical kinds.
func normalizeKind(alias string) string {
	switch alias {
	case "eq":
		return "equal"
	case "esc":
		return "escaped"
	case "re":
		return "regex"
	case "gl":
		return "glob"
	default:
		return alias
	}
}

func TestParseToExpressionStringRoundTrip(t *testing.T) {
	tests := []struct{ from, to string }{
		{"foo", "foo"},
		{"foo (?)", "foo (?)"},
		{"foo (equal)", "foo"},
		{"foo (eq)", "foo"},
		{"foo (equal*)", "foo (*)"},
		{"foo (no-eol)", "foo (no-eol)"},
		{"foo (escaped)", "foo (escaped)"},
		{"foo (esc)", "foo (escaped)"},
		{"foo (esc+)", "foo (escaped+)"},
		{"foo (glob)", "foo (glob)"},
		{"foo (gl)", "foo (glob)"},
		{"foo (glob?)", "foo (glob?)"},
		{"foo (regex)", "foo (regex)"},
		{"foo (re)", "foo (regex)"},
		{"foo (regex*)", "foo (regex*)"},
	}
	m := maker()
	for _, tt := range tests {
		e, err := m.Parse(tt.from)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.from, err)
		}
		if got := e.ToExpressionString(escaper.Default()); got != tt.to {
			t.Errorf("%q rendered to %q, want %q", tt.from, got, tt.to)
		}
	}
}
