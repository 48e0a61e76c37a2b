package rule

// globRule implements the default-dialect glob match: '?' matches exactly
// one character, '*' matches zero or more characters, and backslash has no
// special escaping meaning (matching the Rust `wildmatch` crate's
// semantics used by original_source/src/rules/glob.rs). There is no glob
// matcher in the teacher/example pack with these exact semantics
// (path.Match escapes differently and rejects "/"), so this is a small
// hand-rolled matcher, documented in DESIGN.md.
type globRule struct {
	pattern string
}

// MakeGlob constructs the default "glob"/"gl" rule.
func MakeGlob(expression string) (Rule, error) {
	pattern := expression
	if stripped, ok := expressionAsEscaped(expression); ok {
		decoded, err := applyEscapedFilterUTF8(stripped)
		if err != nil {
			return nil, err
		}
		pattern = decoded
	}
	return &globRule{pattern: pattern}, nil
}

func (r *globRule) Kind() string { return "glob" }

func (r *globRule) Matches(line []byte) bool {
	return wildMatch(r.pattern, string(trimNewlines(line)))
}

func (r *globRule) Unmake() (string, []byte) {
	return r.Kind(), []byte(r.pattern)
}

func (r *globRule) Clone() Rule {
	clone := *r
	return &clone
}

// wildMatch reports whether text matches pattern, where '?' matches any one
// rune and '*' matches any run of runes (including none). No character in
// pattern can be escaped.
func wildMatch(pattern, text string) bool {
	p, t := []rune(pattern), []rune(text)
	var starP, starT int = -1, -1
	i, j := 0, 0
	for j < len(t) {
		if i < len(p) && (p[i] == '?' || p[i] == t[j]) {
			i++
			j++
			continue
		}
		if i < len(p) && p[i] == '*' {
			starP, starT = i, j
			i++
			continue
		}
		if starP != -1 {
			starP++
			starT++
			i, j = starP, starT
			continue
		}
		return false
	}
	for i < len(p) && p[i] == '*' {
		i++
	}
	return i == len(p)
}
