// Package expectation implements the Expectation grammar: an expression
// line optionally suffixed with "(<kind><quantifier>)" that describes how a
// line (or run of lines) of command output should be matched. Grounded on
// original_source/src/expectation.rs.
package expectation

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/rule"
)

// Expectation describes a match against one or more subsequent output lines.
type Expectation struct {
	// Optional expectations may be absent from the output entirely.
	Optional bool
	// Multiline expectations can match a run of multiple sequential lines.
	Multiline bool
	// Rule implements the actual line comparison.
	Rule rule.Rule

	original string
}

// Matches reports whether line satisfies the expectation's rule.
func (e Expectation) Matches(line []byte) bool {
	return e.Rule.Matches(line)
}

// ToExpressionString renders the expectation back into test-document syntax.
func (e Expectation) ToExpressionString(esc escaper.Escaper) string {
	return rule.ToExpressionString(e.Rule, e.Optional, e.Multiline, esc)
}

// OriginalString is the exact text as it appeared (newline-trimmed) in the
// test document.
func (e Expectation) OriginalString() string {
	return e.original
}

// Unmake decomposes the expectation into the components Maker.Make can
// reconstruct it from.
func (e Expectation) Unmake() (kind string, expression []byte, optional, multiline bool) {
	kind, expression = e.Rule.Unmake()
	return kind, expression, e.Optional, e.Multiline
}

// Equal compares two expectations by their rendered form, ignoring original text.
func (e Expectation) Equal(other Expectation) bool {
	return e.Optional == other.Optional &&
		e.Multiline == other.Multiline &&
		rule.Equal(e.Rule, other.Rule)
}

// Maker is a facade for Expectation creation, either from a line's text
// encoding or from its components.
type Maker struct {
	registry *rule.Registry
}

// NewMaker returns a Maker backed by registry.
func NewMaker(registry *rule.Registry) *Maker {
	return &Maker{registry: registry}
}

// Parse parses line (which may include the grammar's "(<kind><quantifier>)"
// suffix) into an Expectation.
//
// Grammar:
//
//	<expectation> ::= <expression> | <expression> (<kind>) | <expression> (<quantifier>) | <expression> (<kind><quantifier>)
//	<expression>  ::= "arbitrary text"
//	<kind>        ::= <equal-kind> | <no-eol-kind> | <escaped-kind> | <glob-kind> | <regex-kind>
//	<equal-kind>  ::= "equal" | "eq"
//	<no-eol-kind> ::= "no-eol"
//	<escaped-kind>::= "escaped" | "esc"
//	<glob-kind>   ::= "glob" | "gl"
//	<regex-kind>  ::= "regex" | "re"
//	<quantifier>  ::= "?" | "*" | "+"
func (m *Maker) Parse(line string) (Expectation, error) {
	expression, kind, quantifier := m.extract(line)
	multiline := quantifier == "*" || quantifier == "+"
	optional := quantifier == "*" || quantifier == "?"
	return m.Make(kind, expression, optional, multiline, trimNewlines(line))
}

// Make builds an Expectation directly from its components.
func (m *Maker) Make(kind, expression string, optional, multiline bool, original string) (Expectation, error) {
	r, err := m.registry.Make(kind, expression)
	if err != nil {
		return Expectation{}, fmt.Errorf("make expectation rule: %w", err)
	}
	return Expectation{
		Optional:  optional,
		Multiline: multiline,
		Rule:      r,
		original:  original,
	}, nil
}

// extract splits line into its expression, kind and quantifier components.
// Only the rightmost " (<kind|><quantifier|>)" suffix that reaches exactly
// to the end of line is ever a valid split point (any earlier "(" would
// leave the later suffix dangling as unconsumed trailing text) so a single
// rightmost-candidate check suffices in place of backtracking regex search.
func (m *Maker) extract(line string) (expression, kind, quantifier string) {
	if strings.HasSuffix(line, ")") {
		if idx := strings.LastIndex(line, " ("); idx >= 0 {
			content := line[idx+2 : len(line)-1]
			namePart, quant := content, ""
			if n := len(content); n > 0 {
				switch content[n-1] {
				case '?', '*', '+':
					quant = string(content[n-1])
					namePart = content[:n-1]
				}
			}
			if namePart == "" || m.isRegisteredName(namePart) {
				k := namePart
				if k == "" {
					k = "equal"
				}
				return line[:idx], k, quant
			}
		}
	}
	return line, "equal", ""
}

func (m *Maker) isRegisteredName(name string) bool {
	for _, n := range m.registry.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func trimNewlines(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
