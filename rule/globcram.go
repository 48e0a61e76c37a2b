package rule

import (
	"regexp"
)

// cramGlobRule implements the Cram-compatible glob dialect, where a leading
// backslash before '*', '?' or '\\' escapes it to a literal, and every other
// character is treated literally. It is compiled to an anchored regular
// expression once at construction. Grounded on
// original_source/src/rules/glob_cram.rs.
type cramGlobRule struct {
	expression string
	re         *regexp.Regexp
}

// MakeCramGlob constructs the Cram-dialect "glob"/"gl" rule.
func MakeCramGlob(expression string) (Rule, error) {
	pattern := expression
	if stripped, ok := expressionAsEscaped(expression); ok {
		decoded, err := applyEscapedFilterUTF8(stripped)
		if err != nil {
			return nil, err
		}
		pattern = decoded
	}
	re, err := regexp.Compile(globToRegexString(pattern))
	if err != nil {
		return nil, err
	}
	return &cramGlobRule{expression: pattern, re: re}, nil
}

func (r *cramGlobRule) Kind() string { return "glob" }

func (r *cramGlobRule) Matches(line []byte) bool {
	return r.re.Match(trimNewlines(line))
}

func (r *cramGlobRule) Unmake() (string, []byte) {
	return r.Kind(), []byte(r.expression)
}

func (r *cramGlobRule) Clone() Rule {
	clone := *r
	return &clone
}

// globToRegexString renders glob as an anchored regex: "\*", "\?", "\\" pass
// through as literal escapes; bare '*' becomes ".*"; bare '?' becomes "."; any
// other character is regex-escaped.
func globToRegexString(glob string) string {
	runes := []rune(glob)
	out := make([]rune, 0, len(runes)*2+2)
	out = append(out, '^')
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '\\' && i+1 < len(runes) && isGlobEscapable(runes[i+1]):
			out = append(out, ch, runes[i+1])
			i++
		case ch == '*':
			out = append(out, '.', '*')
		case ch == '?':
			out = append(out, '.')
		default:
			out = append(out, []rune(regexp.QuoteMeta(string(ch)))...)
		}
	}
	out = append(out, '$')
	return string(out)
}

func isGlobEscapable(r rune) bool {
	return r == '*' || r == '?' || r == '\\'
}
