package generate

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/outcome"
)

// MarkdownTestCaseGenerator renders Outcomes as a brand-new Markdown
// document, one fenced code block per test case headed by its title.
// Grounded on original_source/src/generators/markdown.rs's
// MarkdownTestCaseGenerator.
type MarkdownTestCaseGenerator struct {
	Language string
}

// NewMarkdownTestCaseGenerator returns a generator tagging fences with language.
func NewMarkdownTestCaseGenerator(language string) *MarkdownTestCaseGenerator {
	return &MarkdownTestCaseGenerator{Language: language}
}

// NewDefaultMarkdownTestCaseGenerator uses the first of
// docparse.DefaultMarkdownLanguages.
func NewDefaultMarkdownTestCaseGenerator() *MarkdownTestCaseGenerator {
	return NewMarkdownTestCaseGenerator(docparse.DefaultMarkdownLanguages[0])
}

// GenerateTestCases implements TestCaseGenerator.
func (g *MarkdownTestCaseGenerator) GenerateTestCases(outcomes []outcome.Outcome) (string, error) {
	var blocks []string
	for _, o := range outcomes {
		generated, err := renderTestCase(o)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		if o.TestCase.Title != "" {
			sb.WriteString("# ")
			sb.WriteString(o.TestCase.Title)
			sb.WriteString("\n\n")
		}
		backticks := strings.Repeat("`", maxBacktickRun(generated)+1)
		sb.WriteString(backticks)
		sb.WriteString(g.Language)
		sb.WriteString("\n")
		sb.WriteString(generated)
		sb.WriteString(backticks)
		sb.WriteString("\n")
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n"), nil
}

// MarkdownUpdateGenerator rewrites an existing Markdown document's
// recognized fenced code blocks in place, leaving every other line
// (narrative text, verbatim code fences in other languages) untouched.
// Grounded on original_source/src/generators/markdown.rs's
// MarkdownUpdateGenerator.
type MarkdownUpdateGenerator struct {
	Languages []string
}

// NewMarkdownUpdateGenerator returns an updater recognizing the given
// fenced-code-block languages as test blocks.
func NewMarkdownUpdateGenerator(languages []string) *MarkdownUpdateGenerator {
	return &MarkdownUpdateGenerator{Languages: languages}
}

// NewDefaultMarkdownUpdateGenerator uses docparse.DefaultMarkdownLanguages.
func NewDefaultMarkdownUpdateGenerator() *MarkdownUpdateGenerator {
	return NewMarkdownUpdateGenerator(docparse.DefaultMarkdownLanguages)
}

func (g *MarkdownUpdateGenerator) hasLanguage(lang string) bool {
	for _, l := range g.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// GenerateUpdate implements UpdateGenerator.
func (g *MarkdownUpdateGenerator) GenerateUpdate(original string, outcomes []outcome.Outcome) (string, error) {
	if len(outcomes) == 0 {
		return original, nil
	}

	lines := strings.Split(original, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var out strings.Builder
	testcaseIndex := 0
	i := 0
	for i < len(lines) {
		line := lines[i]
		backticks, language, isStart := extractFenceStart(line)
		if !isStart {
			out.WriteString(line)
			out.WriteString("\n")
			i++
			continue
		}

		if !g.hasLanguage(language) {
			// verbatim fence: pass through unchanged until its closing marker.
			out.WriteString(line)
			out.WriteString("\n")
			i++
			for i < len(lines) {
				closed := strings.HasPrefix(lines[i], backticks)
				out.WriteString(lines[i])
				out.WriteString("\n")
				i++
				if closed {
					break
				}
			}
			continue
		}

		if testcaseIndex >= len(outcomes) {
			return "", errTooFewOutcomes(len(outcomes), testcaseIndex+1)
		}

		i++
		var commentLines []string
		for i < len(lines) && docparseIsComment(lines[i]) {
			commentLines = append(commentLines, lines[i])
			i++
		}
		for i < len(lines) && !strings.HasPrefix(lines[i], backticks) {
			i++
		}
		if i < len(lines) {
			i++ // skip the closing fence
		}

		generated, err := renderTestCase(outcomes[testcaseIndex])
		if err != nil {
			return "", err
		}
		newBackticks := strings.Repeat("`", maxBacktickRun(generated)+1)
		out.WriteString(newBackticks)
		out.WriteString(language)
		out.WriteString("\n")
		for _, c := range commentLines {
			out.WriteString(c)
			out.WriteString("\n")
		}
		out.WriteString(generated)
		out.WriteString(newBackticks)
		out.WriteString("\n")
		testcaseIndex++
	}

	return out.String(), nil
}

// extractFenceStart mirrors docparse's fence-open detection: a run of
// backticks (3 or more) followed by a non-backtick rest-of-line treated as
// the language tag.
func extractFenceStart(line string) (backticks, language string, ok bool) {
	for i, ch := range line {
		if ch != '`' {
			if i < 3 {
				return "", "", false
			}
			return line[:i], line[i:], true
		}
	}
	return "", "", false
}

func docparseIsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

func maxBacktickRun(codeBlock string) int {
	max := 2
	for _, line := range strings.Split(codeBlock, "\n") {
		count := 0
		for _, ch := range line {
			if ch != '`' {
				break
			}
			count++
		}
		if count > max {
			max = count
		}
	}
	return max
}

func errTooFewOutcomes(have, want int) error {
	return &tooFewOutcomesError{have: have, want: want}
}

type tooFewOutcomesError struct {
	have, want int
}

func (e *tooFewOutcomesError) Error() string {
	return fmt.Sprintf("only %d outcome(s) provided but the document has at least %d test block(s)", e.have, e.want)
}
