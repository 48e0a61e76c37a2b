// Package docparse turns test documents (Cram ".t" files or Markdown files
// with fenced code blocks) into scrutcase.TestCase values. Grounded on
// original_source/src/parsers/{parser,cram,markdown}.rs and
// src/bin/utils/file_parser.rs.
package docparse

// Format identifies which surface grammar a document was (or should be)
// written in.
type Format int

const (
	// Cram is the line-oriented ".t" format: indented command/output blocks
	// introduced by a title comment and a `$ ` prompt.
	Cram Format = iota
	// Markdown is a Markdown document whose fenced code blocks (matching
	// configured language markers) hold the test cases.
	Markdown
)

// ParseFormat parses the CLI/document spelling of a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "cram":
		return Cram, true
	case "markdown":
		return Markdown, true
	default:
		return 0, false
	}
}

func (f Format) String() string {
	switch f {
	case Cram:
		return "cram"
	case Markdown:
		return "markdown"
	default:
		return "unknown"
	}
}
