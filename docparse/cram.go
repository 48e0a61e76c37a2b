package docparse

import (
	"strings"

	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/scrutcase"
)

// DefaultCramIndention is the number of leading spaces a Cram file indents
// its testcase bodies with.
const DefaultCramIndention = 2

// CramParser reads Cram ".t" files: a title line, followed by an indented
// block of "$ "-prefixed shell expression line(s) and their expected
// output. Grounded on original_source/src/parsers/cram.rs.
type CramParser struct {
	maker     *expectation.Maker
	indention int
}

// NewCramParser returns a CramParser using indention spaces of indentation.
func NewCramParser(maker *expectation.Maker, indention int) *CramParser {
	return &CramParser{maker: maker, indention: indention}
}

// NewDefaultCramParser returns a CramParser using DefaultCramIndention.
func NewDefaultCramParser(maker *expectation.Maker) *CramParser {
	return NewCramParser(maker, DefaultCramIndention)
}

// Parse implements Parser.
func (p *CramParser) Parse(text string) (scrutcase.DocumentConfig, []scrutcase.TestCase, error) {
	engine := newLineParser(p.maker, true)
	lines := strings.Split(text, "\n")
	// strings.Split on a trailing "\n" leaves one empty trailing element
	// that text.lines() in Rust would not produce; drop it to match.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	indent := strings.Repeat(" ", p.indention)

	for index, line := range lines {
		if isComment(line) {
			continue
		}

		if line == "" {
			if engine.hasTestcaseBody() {
				if err := engine.endTestcase(index); err != nil {
					return scrutcase.DocumentConfig{}, nil, err
				}
			}
			continue
		}

		if rest, ok := strings.CutPrefix(line, indent); ok {
			engine.setTestcaseConfig(scrutcase.TestCaseConfig{})
			if _, err := engine.addTestcaseBody(rest, index); err != nil {
				return scrutcase.DocumentConfig{}, nil, err
			}
			continue
		}

		if err := engine.endTestcase(index); err != nil {
			return scrutcase.DocumentConfig{}, nil, err
		}
		engine.setTestcaseTitle(line)
	}

	if engine.hasTestcaseBody() {
		engine.setTestcaseConfig(scrutcase.TestCaseConfig{})
		if err := engine.endTestcase(len(lines)); err != nil {
			return scrutcase.DocumentConfig{}, nil, err
		}
	}

	return scrutcase.DocumentConfig{}, engine.testcases, nil
}
