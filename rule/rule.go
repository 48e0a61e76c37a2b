// Package rule implements the line-level matching algorithms behind a
// scrut expectation: Equal, NoEol, Escaped, Glob (default and Cram
// dialects) and Regex. It is grounded on
// original_source/src/rules/{rule,registry}.rs.
package rule

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/scrut/escaper"
)

// Rule implements the line-level comparison behind an Expectation.
type Rule interface {
	// Kind returns the rule's canonical (non-aliased) name.
	Kind() string
	// Matches reports whether line satisfies the rule.
	Matches(line []byte) bool
	// Unmake decomposes the rule into its canonical kind and raw expression,
	// from which Registry.Make can reconstruct an equivalent rule.
	Unmake() (kind string, expression []byte)
	// Clone returns an independent copy of the rule.
	Clone() Rule
}

// ToExpressionString renders rule as the expression text that would appear
// in a test document, given whether the owning expectation is optional
// and/or multiline. Equal-kind rules that contain unprintable characters are
// rendered through the escaped alias rather than bare.
func ToExpressionString(r Rule, optional, multiline bool, esc escaper.Escaper) string {
	quantifier, equalQuantifier := "", ""
	switch {
	case optional && multiline:
		quantifier, equalQuantifier = "*", " (*)"
	case optional:
		quantifier, equalQuantifier = "?", " (?)"
	case multiline:
		quantifier, equalQuantifier = "+", " (+)"
	}

	kind, expression := r.Unmake()
	rendered := esc.EscapedPrintable(expression)
	if kind == "equal" {
		if esc.HasUnprintable(expression) {
			return fmt.Sprintf("%s (escaped%s)", rendered, quantifier)
		}
		return rendered + equalQuantifier
	}
	return fmt.Sprintf("%s (%s%s)", rendered, kind, quantifier)
}

// String renders r using the Unicode escaper, matching the teacher's
// Display impl used for PartialEq and debug output.
func String(r Rule) string {
	kind, expression := r.Unmake()
	return kind + "::" + escaper.Default().EscapedPrintable(expression)
}

// Equal reports whether two rules render identically.
func Equal(a, b Rule) bool {
	return String(a) == String(b)
}

// MakeFunc constructs a Rule from its raw expression text.
type MakeFunc func(expression string) (Rule, error)

// Registry maps rule kind names (and aliases) to their constructors.
type Registry struct {
	makers map[string]MakeFunc
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{makers: map[string]MakeFunc{}}
}

// Register files maker under every name in names.
func (r *Registry) Register(maker MakeFunc, names ...string) *Registry {
	for _, name := range names {
		r.makers[name] = maker
	}
	return r
}

// Names returns every registered kind name and alias.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.makers))
	for name := range r.makers {
		names = append(names, name)
	}
	return names
}

// Make constructs a Rule of the given kind from expression. If kind is
// unknown, the error suggests the closest registered name, but only when
// some registered name contains kind's letters in order (case-insensitive)
// with a fuzzy distance of at most 3; otherwise it carries no suggestion.
func (r *Registry) Make(kind, expression string) (Rule, error) {
	if maker, ok := r.makers[kind]; ok {
		return maker(expression)
	}
	if suggestion := r.suggest(kind); suggestion != "" {
		return nil, fmt.Errorf("no rule maker for %q registered (did you mean %q?)", kind, suggestion)
	}
	return nil, fmt.Errorf("no rule maker for %q registered", kind)
}

func (r *Registry) suggest(kind string) string {
	ranks := fuzzy.RankFindFold(kind, r.Names())
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
		}
	}
	if best.Distance > 3 {
		return ""
	}
	return best.Target
}

// DefaultRegistry returns the registry used by default test documents:
// equal/eq, no-eol, escaped/esc, glob/gl (default dialect) and regex/re.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(MakeEqual, "equal", "eq")
	reg.Register(MakeNoEol, "no-eol")
	reg.Register(MakeEscaped, "escaped", "esc")
	reg.Register(MakeGlob, "glob", "gl")
	reg.Register(MakeRegex, "regex", "re")
	return reg
}

// CramRegistry returns the registry used for Cram-compatibility mode:
// identical to DefaultRegistry except glob/gl resolves to the anchored
// byte-regex Cram glob dialect.
func CramRegistry() *Registry {
	reg := DefaultRegistry()
	reg.Register(MakeCramGlob, "glob", "gl")
	return reg
}
