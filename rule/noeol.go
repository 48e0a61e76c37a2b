package rule

// noEolRule matches a line that equals expression exactly, with no trailing
// newline allowed. Grounded on original_source/src/rules/no_eol.rs.
type noEolRule struct {
	expression string
}

// MakeNoEol constructs the "no-eol" rule.
func MakeNoEol(expression string) (Rule, error) {
	return &noEolRule{expression: expression}, nil
}

func (r *noEolRule) Kind() string { return "no-eol" }

func (r *noEolRule) Matches(line []byte) bool {
	return string(line) == r.expression
}

func (r *noEolRule) Unmake() (string, []byte) {
	return r.Kind(), []byte(r.expression)
}

func (r *noEolRule) Clone() Rule {
	clone := *r
	return &clone
}
