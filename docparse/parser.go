package docparse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/rule"
	"github.com/aledsdavies/scrut/scrutcase"
)

// Parser extracts a document's configuration and test cases from its raw text.
type Parser interface {
	Parse(text string) (scrutcase.DocumentConfig, []scrutcase.TestCase, error)
}

// FileExtension returns the conventional file extension for a Format.
func FileExtension(f Format) string {
	switch f {
	case Cram:
		return "t"
	default:
		return "md"
	}
}

// FileParser picks the Cram or Markdown parser for a path by matching its
// name against the two configured glob patterns, preferring Cram on a tie.
// Grounded on original_source/src/bin/utils/file_parser.rs.
type FileParser struct {
	matchCram         string
	matchMarkdown     string
	markdownLanguages []string
	cramCompat        bool
}

// NewFileParser returns a FileParser matching Cram paths against
// matchCram and Markdown paths against matchMarkdown (both shell globs, e.g.
// "*.t" and "*.md").
func NewFileParser(matchMarkdown, matchCram string, markdownLanguages []string) *FileParser {
	return &FileParser{
		matchCram:         matchCram,
		matchMarkdown:     matchMarkdown,
		markdownLanguages: markdownLanguages,
	}
}

// WithCramCompat toggles Cram-dialect glob rule semantics for the parser
// this FileParser constructs (see rule.CramRegistry).
func (fp *FileParser) WithCramCompat(compat bool) *FileParser {
	fp.cramCompat = compat
	return fp
}

// ParserFor returns the Parser appropriate for path, by matching its base
// name against the configured glob patterns.
func (fp *FileParser) ParserFor(path string) (Parser, Format, error) {
	name := filepath.Base(path)
	if ok, _ := filepath.Match(fp.matchCram, name); ok {
		return fp.makeParser(Cram), Cram, nil
	}
	if ok, _ := filepath.Match(fp.matchMarkdown, name); ok {
		return fp.makeParser(Markdown), Markdown, nil
	}
	return nil, 0, fmt.Errorf("no parser registered for file %q", path)
}

func (fp *FileParser) makeParser(format Format) Parser {
	registry := rule.DefaultRegistry()
	if fp.cramCompat {
		registry = rule.CramRegistry()
	}
	maker := expectation.NewMaker(registry)
	if format == Cram {
		return NewDefaultCramParser(maker)
	}
	languages := fp.markdownLanguages
	if len(languages) == 0 {
		languages = DefaultMarkdownLanguages
	}
	return NewMarkdownParser(maker, languages)
}

// ParseAs parses contents with the Parser for an already-determined format,
// bypassing the glob-based dispatch ParserFor performs. Callers that match
// file names with a richer glob dialect than path/filepath.Match supports
// (see cmd/scrut/internal/harness.FileDiscovery, which uses
// github.com/gobwas/glob for brace alternation) determine the format
// themselves and use this instead of ParseFile.
func (fp *FileParser) ParseAs(contents string, format Format) (scrutcase.DocumentConfig, []scrutcase.TestCase, error) {
	return fp.makeParser(format).Parse(contents)
}

// ParseFile dispatches to the correct Parser for path and parses contents,
// which must already be UTF-8 with CRLF normalized to LF (see
// ReadTestDocument).
func (fp *FileParser) ParseFile(path, contents string) (scrutcase.DocumentConfig, []scrutcase.TestCase, Format, error) {
	parser, format, err := fp.ParserFor(path)
	if err != nil {
		return scrutcase.DocumentConfig{}, nil, 0, err
	}
	cfg, testcases, err := parser.Parse(contents)
	return cfg, testcases, format, err
}

// ReadTestDocument normalizes CRLF line endings to LF, matching
// original_source's replace_crlf step. It does not validate UTF-8: invalid
// byte sequences in raw are carried into the returned string unchanged.
func ReadTestDocument(raw []byte) string {
	return strings.ReplaceAll(string(raw), "\r\n", "\n")
}
