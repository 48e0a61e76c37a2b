package generate_test

import (
	"strings"
	"testing"

	"github.com/aledsdavies/scrut/diff"
	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/generate"
	"github.com/aledsdavies/scrut/outcome"
	"github.com/aledsdavies/scrut/rule"
	"github.com/aledsdavies/scrut/scrutcase"
)

func exp(t *testing.T, line string) expectation.Expectation {
	t.Helper()
	e, err := expectation.NewMaker(rule.DefaultRegistry()).Parse(line)
	if err != nil {
		t.Fatalf("parse expectation %q: %v", line, err)
	}
	return e
}

func TestCramGenerateTestCasesSuccess(t *testing.T) {
	e := exp(t, "an expectation")
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "This is a test",
			ShellExpression: "the command",
			Expectations:    []expectation.Expectation{e},
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("an expectation\n")), ExitCode: scrutcase.Code(0)},
		Escaper: escaper.Default(),
		Format:  docparse.Cram,
	}
	got, err := generate.NewDefaultCramTestCaseGenerator().GenerateTestCases([]outcome.Outcome{o})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := "This is a test\n  $ the command\n  an expectation\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestCramGenerateTestCasesMultilineCommand(t *testing.T) {
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "multi",
			ShellExpression: "echo \\\nsomething",
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("something\n")), ExitCode: scrutcase.Code(0)},
		Escaper: escaper.Default(),
		Format:  docparse.Cram,
	}
	got, err := generate.NewDefaultCramTestCaseGenerator().GenerateTestCases([]outcome.Outcome{o})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(got, "$ echo \\\n  > something") {
		t.Errorf("got:\n%q, want a '$ ' / '> ' continuation", got)
	}
}

func TestCramGenerateTestCasesNonZeroExitCode(t *testing.T) {
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "exit code",
			ShellExpression: "the command",
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("the output\n")), ExitCode: scrutcase.Code(123)},
		Escaper: escaper.Default(),
		Format:  docparse.Cram,
	}
	got, err := generate.NewDefaultCramTestCaseGenerator().GenerateTestCases([]outcome.Outcome{o})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(got, "[123]") {
		t.Errorf("got:\n%q, want a trailing [123] line", got)
	}
}

func TestCramGenerateTestCasesMalformedOutput(t *testing.T) {
	e := exp(t, "an expectation")
	d := diff.New([]diff.Line{
		{Kind: diff.KindUnmatched, Expectation: e},
		{Kind: diff.KindUnexpected, Lines: []diff.OutputLine{{Index: 0, Bytes: []byte("new output\n")}}},
	})
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "changed",
			ShellExpression: "the command",
			Expectations:    []expectation.Expectation{e},
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("new output\n")), ExitCode: scrutcase.Code(0)},
		Result:  outcome.MalformedOutput(d),
		Escaper: escaper.Default(),
		Format:  docparse.Cram,
	}
	got, err := generate.NewDefaultCramTestCaseGenerator().GenerateTestCases([]outcome.Outcome{o})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(got, "new output") {
		t.Errorf("got:\n%q, want the new output line", got)
	}
	if strings.Contains(got, "an expectation") {
		t.Errorf("got:\n%q, unmatched expectations should be dropped", got)
	}
}

func TestMarkdownGenerateTestCasesWrapsInFence(t *testing.T) {
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "A title",
			ShellExpression: "the command",
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("the output\n")), ExitCode: scrutcase.Code(0)},
		Escaper: escaper.Default(),
		Format:  docparse.Markdown,
	}
	got, err := generate.NewDefaultMarkdownTestCaseGenerator().GenerateTestCases([]outcome.Outcome{o})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(got, "```scrut\n$ the command\n") {
		t.Errorf("got:\n%q", got)
	}
	if !strings.HasSuffix(strings.TrimRight(got, "\n"), "```") {
		t.Errorf("got:\n%q, want a closing fence", got)
	}
}

func TestMarkdownUpdateGeneratorPreservesNarrative(t *testing.T) {
	original := "# Heading\n\nSome narrative text.\n\n```scrut\n$ old command\nold output\n```\n\nMore text.\n"
	e := exp(t, "old output")
	d := diff.New([]diff.Line{
		{Kind: diff.KindUnmatched, Index: 0, Expectation: e},
		{Kind: diff.KindUnexpected, Lines: []diff.OutputLine{{Index: 0, Bytes: []byte("new output\n")}}},
	})
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{
			ShellExpression: "old command",
			Expectations:    []expectation.Expectation{e},
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("new output\n")), ExitCode: scrutcase.Code(0)},
		Result:  outcome.MalformedOutput(d),
		Escaper: escaper.Default(),
		Format:  docparse.Markdown,
	}
	got, err := generate.NewDefaultMarkdownUpdateGenerator().GenerateUpdate(original, []outcome.Outcome{o})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(got, "Some narrative text.") || !strings.Contains(got, "More text.") {
		t.Errorf("got:\n%q, want narrative preserved", got)
	}
	if !strings.Contains(got, "new output") {
		t.Errorf("got:\n%q, want the new output", got)
	}
	if strings.Contains(got, "old output") {
		t.Errorf("got:\n%q, old output should have been replaced", got)
	}
}

func TestMarkdownUpdateGeneratorIgnoresUnrecognizedLanguage(t *testing.T) {
	original := "```python\nprint('hi')\n```\n"
	got, err := generate.NewDefaultMarkdownUpdateGenerator().GenerateUpdate(original, []outcome.Outcome{{
		TestCase: scrutcase.TestCase{ShellExpression: "x"},
		Output:   scrutcase.Output{ExitCode: scrutcase.Code(0)},
		Escaper:  escaper.Default(),
	}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != original {
		t.Errorf("got:\n%q, want the unrecognized block untouched", got)
	}
}
