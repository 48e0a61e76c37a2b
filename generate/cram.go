package generate

import (
	"strings"

	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/outcome"
)

// CramTestCaseGenerator renders Outcomes as a brand-new Cram document.
// Grounded on original_source/src/generators/cram.rs's CramTestCaseGenerator.
type CramTestCaseGenerator struct {
	Indention int
}

// NewCramTestCaseGenerator returns a generator using indention spaces.
func NewCramTestCaseGenerator(indention int) *CramTestCaseGenerator {
	return &CramTestCaseGenerator{Indention: indention}
}

// NewDefaultCramTestCaseGenerator uses docparse.DefaultCramIndention.
func NewDefaultCramTestCaseGenerator() *CramTestCaseGenerator {
	return NewCramTestCaseGenerator(docparse.DefaultCramIndention)
}

// GenerateTestCases implements TestCaseGenerator.
func (g *CramTestCaseGenerator) GenerateTestCases(outcomes []outcome.Outcome) (string, error) {
	indent := strings.Repeat(" ", g.Indention)
	var blocks []string
	for _, o := range outcomes {
		generated, err := renderTestCase(o)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if o.TestCase.Title != "" {
			sb.WriteString(o.TestCase.Title)
			sb.WriteString("\n")
		}
		sb.WriteString(cramIndented(indent, generated))
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n"), nil
}

// CramUpdateGenerator rewrites an existing Cram document by rebuilding it
// from the Outcomes alone: each block is its TestCase.Title line followed by
// the indented regenerated body, and blocks are joined by one blank line.
// The original text is not re-tokenized, so "#" comment lines, prose lines
// other than the one kept as a title, and the original blank-line layout
// are not carried over. Matches CramUpdateGenerator::generate_update.
type CramUpdateGenerator struct {
	Indention int
}

// NewCramUpdateGenerator returns an updater using indention spaces.
func NewCramUpdateGenerator(indention int) *CramUpdateGenerator {
	return &CramUpdateGenerator{Indention: indention}
}

// NewDefaultCramUpdateGenerator uses docparse.DefaultCramIndention.
func NewDefaultCramUpdateGenerator() *CramUpdateGenerator {
	return NewCramUpdateGenerator(docparse.DefaultCramIndention)
}

// GenerateUpdate implements UpdateGenerator.
func (g *CramUpdateGenerator) GenerateUpdate(original string, outcomes []outcome.Outcome) (string, error) {
	if len(outcomes) == 0 {
		return original, nil
	}
	indent := strings.Repeat(" ", g.Indention)
	var blocks []string
	for _, o := range outcomes {
		generated, err := renderTestCase(o)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if o.TestCase.Title != "" {
			sb.WriteString(o.TestCase.Title)
			sb.WriteString("\n")
		}
		sb.WriteString(cramIndented(indent, generated))
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n"), nil
}

func cramIndented(indent, from string) string {
	if from == "" {
		return ""
	}
	trimmed := strings.TrimRight(from, "\n")
	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n") + "\n"
}
