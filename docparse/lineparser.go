package docparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/scrutcase"
)

var exitCodeExpression = regexp.MustCompile(`^\[([0-9]+)\]$`)

// extractExitCode parses a line of the form "[<code>]" and returns the
// numeric value, or false if line isn't of that shape.
func extractExitCode(line string) (int, bool) {
	m := exitCodeExpression.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// isComment reports whether line is a "#"-prefixed comment line.
func isComment(line string) bool {
	return strings.HasPrefix(line, "#")
}

// bodyKind classifies what add_testcase_body just consumed.
type bodyKind int

const (
	bodyCommandStart bodyKind = iota
	bodyCommandContinue
	bodyExpectation
	bodyExitCode
)

// lineParser is a shared line-by-line engine used by both the Cram and
// Markdown surface grammars: it accumulates a shell expression (possibly
// spanning several "$ "/"> "-prefixed lines), its expectations, and an
// optional exit code, until told the test case has ended. Grounded on
// original_source/src/parsers/line_parser.rs.
type lineParser struct {
	maker *expectation.Maker

	testcases []scrutcase.TestCase

	title                string
	command              []string
	exitCode             *int
	expectations         []expectation.Expectation
	inCommand            bool
	allowMultipleCommands bool
	outputStartIndex     *int
	config               *scrutcase.TestCaseConfig
}

func newLineParser(maker *expectation.Maker, allowMultipleCommands bool) *lineParser {
	return &lineParser{maker: maker, allowMultipleCommands: allowMultipleCommands}
}

// addTestcaseBody feeds one line of a test case's body (command or
// expectation) at the given zero-based source line index.
func (p *lineParser) addTestcaseBody(line string, index int) (bodyKind, error) {
	if p.allowMultipleCommands || len(p.command) == 0 {
		if rest, ok := strings.CutPrefix(line, "$ "); ok {
			p.inCommand = true
			if len(p.command) != 0 {
				if err := p.endTestcase(index); err != nil {
					return 0, err
				}
			}
			if p.outputStartIndex == nil {
				idx := index
				p.outputStartIndex = &idx
			}
			p.command = append(p.command, rest)
			return bodyCommandStart, nil
		}
	}

	if p.inCommand {
		if rest, ok := strings.CutPrefix(line, "> "); ok {
			if len(p.command) == 0 {
				return 0, fmt.Errorf("line %d: command extender '>' requires previous command start '$' which is not given", index+1)
			}
			p.command = append(p.command, rest)
			return bodyCommandContinue, nil
		}
	}

	p.inCommand = false
	if code, ok := extractExitCode(line); ok {
		if p.exitCode != nil {
			return 0, fmt.Errorf("line %d: exit code provided multiple times", index+1)
		}
		p.exitCode = &code
		return bodyExitCode, nil
	}

	exp, err := p.maker.Parse(line)
	if err != nil {
		return 0, fmt.Errorf("parsing line %d: %w", index+1, err)
	}
	p.expectations = append(p.expectations, exp)
	return bodyExpectation, nil
}

func (p *lineParser) setTestcaseTitle(line string) {
	p.title = line
}

func (p *lineParser) setTestcaseConfig(cfg scrutcase.TestCaseConfig) {
	p.config = &cfg
}

// endTestcase closes out the test case currently being accumulated,
// appending it to p.testcases, or reports an error if expectations were
// given without a shell expression.
func (p *lineParser) endTestcase(lineIndex int) error {
	hasCommand := len(p.command) > 0
	hasExpectations := len(p.expectations) > 0
	if !hasCommand {
		if hasExpectations {
			return fmt.Errorf("line %d: testcase output expectation(s) given, but no shell expression specified", lineIndex+1)
		}
		return nil
	}

	lineNumber := lineIndex
	if p.outputStartIndex != nil {
		lineNumber = *p.outputStartIndex
	}

	cfg := scrutcase.TestCaseConfig{}
	if p.config != nil {
		cfg = *p.config
	}
	if cfg.OutputStream != nil && *cfg.OutputStream == scrutcase.StreamMarked {
		return fmt.Errorf("line %d: output_stream \"marked\" is not yet supported", lineIndex+1)
	}

	p.testcases = append(p.testcases, scrutcase.TestCase{
		Title:           p.title,
		ShellExpression: strings.Join(p.command, "\n"),
		ExitCode:        p.exitCode,
		Expectations:    append([]expectation.Expectation(nil), p.expectations...),
		LineNumber:      lineNumber + 1,
		Config:          cfg,
	})
	p.flush()
	return nil
}

// hasTestcaseBody reports whether a shell expression or expectation has been
// accumulated for the test case currently in progress.
func (p *lineParser) hasTestcaseBody() bool {
	return len(p.command) > 0 || len(p.expectations) > 0
}

func (p *lineParser) flush() {
	p.title = ""
	p.command = nil
	p.expectations = nil
	p.exitCode = nil
	p.outputStartIndex = nil
	p.config = nil
}
