package generate

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/scrut/diff"
	"github.com/aledsdavies/scrut/outcome"
)

// renderTestCase renders a single Outcome's shell expression, expectations
// and exit code back into test-document syntax. On success or a malformed
// diff, it reuses (or regenerates from the diff) expectation lines; on an
// invalid exit code, it writes the captured stdout as escaped expectation
// lines (via OutputStream.ToOutputString) followed by the actual "[N]" line.
// Grounded on
// original_source/src/generators/outcome.rs's Outcome::generate_testcase.
func renderTestCase(o outcome.Outcome) (string, error) {
	var sb strings.Builder
	sb.WriteString(renderExpression(o.TestCase.ShellExpression))

	if o.Success() {
		for _, exp := range o.TestCase.Expectations {
			sb.WriteString(exp.OriginalString())
			sb.WriteString("\n")
		}
		if code := renderExitCode(o); code != "" {
			sb.WriteString(code)
		}
		return sb.String(), nil
	}

	err := o.Result
	if d, ok := err.Diff(); ok {
		for _, line := range d.Lines {
			switch line.Kind {
			case diff.KindMatched:
				sb.WriteString(line.Expectation.OriginalString())
				sb.WriteString("\n")
			case diff.KindUnexpected:
				for _, l := range line.Lines {
					rendered := o.Escaper.EscapedExpectation(l.Bytes)
					suffix := ""
					if !strings.HasSuffix(string(l.Bytes), "\n") {
						suffix = " (no-eol)"
					}
					sb.WriteString(rendered)
					sb.WriteString(suffix)
					sb.WriteString("\n")
				}
			case diff.KindUnmatched:
				continue
			}
		}
		if code := renderExitCode(o); code != "" {
			sb.WriteString(code)
		}
		return sb.String(), nil
	}

	if actual, _, ok := err.ExitCodes(); ok {
		output := o.Output.Stdout.ToOutputString("", o.Escaper)
		sb.WriteString(output)
		sb.WriteString(fmt.Sprintf("[%d]\n", actual))
		return sb.String(), nil
	}

	if err.IsSkipped() {
		return "", fmt.Errorf("cannot generate testcase from a skipped outcome")
	}
	return "", fmt.Errorf("cannot generate testcase from internal error: %w", err)
}

// renderExpression renders a (possibly multiline) shell expression with the
// "$ " / "> " prefixes Cram and Markdown both use.
func renderExpression(expr string) string {
	lines := strings.Split(expr, "\n")
	var sb strings.Builder
	sb.WriteString("$ ")
	sb.WriteString(lines[0])
	sb.WriteString("\n")
	for _, line := range lines[1:] {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderExitCode renders the "[N]" trailer line when the observed exit code
// is non-zero, matching Outcome::generate_testcase_exit_code.
func renderExitCode(o outcome.Outcome) string {
	if code, ok := o.Output.ExitCode.IsCode(); ok && code != 0 {
		return fmt.Sprintf("[%d]\n", code)
	}
	return ""
}
