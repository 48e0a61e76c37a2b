package rule

import "strings"

// escapedRule decodes its expression's escape sequences once at construction
// time and compares the resulting raw bytes against a newline-trimmed line.
// Grounded on original_source/src/rules/escaped.rs.
type escapedRule struct {
	expression string
	decoded    []byte
}

// MakeEscaped constructs the "escaped"/"esc" rule.
func MakeEscaped(expression string) (Rule, error) {
	// Cram compat: ignore a trailing " (no-eol)" marker, since comparison is
	// always against a newline-trimmed line anyway.
	expression = strings.TrimSuffix(expression, " (no-eol)")
	decoded, err := applyEscapedFilterBytes(expression)
	if err != nil {
		return nil, err
	}
	return &escapedRule{expression: expression, decoded: decoded}, nil
}

func (r *escapedRule) Kind() string { return "escaped" }

func (r *escapedRule) Matches(line []byte) bool {
	return string(r.decoded) == string(trimNewlines(line))
}

func (r *escapedRule) Unmake() (string, []byte) {
	return r.Kind(), r.decoded
}

func (r *escapedRule) Clone() Rule {
	clone := *r
	clone.decoded = append([]byte(nil), r.decoded...)
	return &clone
}

func trimNewlines(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
