package docparse

import (
	"regexp"
	"strings"

	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/scrutcase"
)

// DefaultMarkdownLanguages are the fenced-code-block languages MarkdownParser
// treats as test cases when none are configured explicitly.
var DefaultMarkdownLanguages = []string{"scrut", "testcase"}

var paragraphStart = regexp.MustCompile(`^\p{L}+`)
var headerLine = regexp.MustCompile(`^(#+\s+)(.+)$`)

// MarkdownParser reads Markdown documents whose fenced code blocks (tagged
// with one of its configured languages) hold test cases; the paragraph or
// heading immediately preceding a code block becomes its title. Grounded on
// original_source/src/parsers/markdown.rs.
type MarkdownParser struct {
	maker     *expectation.Maker
	languages []string
}

// NewMarkdownParser returns a MarkdownParser that recognizes the given
// fenced-code-block languages as test cases.
func NewMarkdownParser(maker *expectation.Maker, languages []string) *MarkdownParser {
	return &MarkdownParser{maker: maker, languages: languages}
}

// NewDefaultMarkdownParser returns a MarkdownParser using DefaultMarkdownLanguages.
func NewDefaultMarkdownParser(maker *expectation.Maker) *MarkdownParser {
	return NewMarkdownParser(maker, DefaultMarkdownLanguages)
}

func (p *MarkdownParser) hasLanguage(lang string) bool {
	for _, l := range p.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Parse implements Parser. The returned DocumentConfig is always the zero
// value: a leading "---" YAML frontmatter block is not parsed as
// configuration, and a fence whose info string carries anything after the
// language tag (such as an inline "{k: v}" object) does not match a
// configured language, so that block is not read as a test case at all.
func (p *MarkdownParser) Parse(text string) (scrutcase.DocumentConfig, []scrutcase.TestCase, error) {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	engine := newLineParser(p.maker, false)
	var titleParagraph []string

	i := 0
	for i < len(lines) {
		line := lines[i]

		backticks, language, isBlockStart := extractCodeBlockStart(line)
		if !isBlockStart || language == "" || !p.hasLanguage(language) {
			if title, ok := extractTitle(line); ok {
				titleParagraph = append(titleParagraph, title)
				engine.setTestcaseTitle(strings.Join(titleParagraph, "\n"))
			} else if len(titleParagraph) > 0 {
				titleParagraph = nil
			}
			i++
			continue
		}

		// consume the rest of the code block.
		i++
		if i >= len(lines) {
			break
		}
		for i < len(lines) && isComment(lines[i]) {
			i++
		}
		var lastCodeIndex int
		for i < len(lines) && !strings.HasPrefix(lines[i], backticks) {
			if _, err := engine.addTestcaseBody(lines[i], i); err != nil {
				return scrutcase.DocumentConfig{}, nil, err
			}
			lastCodeIndex = i
			i++
		}
		if err := engine.endTestcase(lastCodeIndex); err != nil {
			return scrutcase.DocumentConfig{}, nil, err
		}
		titleParagraph = nil
		i++ // skip the closing fence
	}

	return scrutcase.DocumentConfig{}, engine.testcases, nil
}

// extractTitle returns the line's content as a title candidate if it looks
// like the start of a paragraph or a Markdown header.
func extractTitle(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if paragraphStart.MatchString(trimmed) {
		return trimmed, true
	}
	if m := headerLine.FindStringSubmatch(trimmed); m != nil {
		return m[2], true
	}
	return "", false
}

// extractCodeBlockStart reports whether line opens a fenced code block: a
// run of three or more backticks, optionally followed by a language tag.
func extractCodeBlockStart(line string) (backticks, language string, ok bool) {
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
