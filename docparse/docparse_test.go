package docparse_test

import (
	"testing"

	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/rule"
)

func maker() *expectation.Maker {
	return expectation.NewMaker(rule.DefaultRegistry())
}

func TestCramMinimalTestcase(t *testing.T) {
	input := "This is a title\n  $ echo hello\n  hello\n"
	p := docparse.NewDefaultCramParser(maker())
	_, testcases, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(testcases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(testcases))
	}
	tc := testcases[0]
	if tc.Title != "This is a title" {
		t.Errorf("title = %q", tc.Title)
	}
	if tc.ShellExpression != "echo hello" {
		t.Errorf("shell expression = %q", tc.ShellExpression)
	}
	if len(tc.Expectations) != 1 || tc.Expectations[0].OriginalString() != "hello" {
		t.Errorf("expectations = %+v", tc.Expectations)
	}
	if tc.LineNumber != 2 {
		t.Errorf("line number = %d, want 2", tc.LineNumber)
	}
}

func TestCramMultilineCommand(t *testing.T) {
	input := "\nThe title\n  $ echo hello && \\\n  > echo more && \\\n  > echo most\n  hello\n  more\n  most\n"
	p := docparse.NewDefaultCramParser(maker())
	_, testcases, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(testcases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(testcases))
	}
	want := "echo hello && \\\necho more && \\\necho most"
	if testcases[0].ShellExpression != want {
		t.Errorf("shell expression = %q, want %q", testcases[0].ShellExpression, want)
	}
	if len(testcases[0].Expectations) != 3 {
		t.Errorf("got %d expectations, want 3", len(testcases[0].Expectations))
	}
}

func TestCramExitCodeExtracted(t *testing.T) {
	input := "\nThis has an exit code\n  $ command1\n  output\n  [4]\n"
	p := docparse.NewDefaultCramParser(maker())
	_, testcases, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(testcases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(testcases))
	}
	if testcases[0].ExitCode == nil || *testcases[0].ExitCode != 4 {
		t.Errorf("exit code = %v, want 4", testcases[0].ExitCode)
	}
}

func TestCramOnlyOneExitCodeAllowed(t *testing.T) {
	input := "\nOnly one exit code please\n  $ command1\n  [1]\n  [2]\n"
	p := docparse.NewDefaultCramParser(maker())
	_, _, err := p.Parse(input)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestCramMultipleTestcases(t *testing.T) {
	input := "\nThis is a title\n  $ echo hello\n  hello\n\n\n\nThis is the next title\n  $ echo something\n  something\nThis is the yet more title\n  $ echo lastly\n  lastly\n"
	p := docparse.NewDefaultCramParser(maker())
	_, testcases, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(testcases) != 3 {
		t.Fatalf("got %d testcases, want 3", len(testcases))
	}
}

func TestMarkdownSimple(t *testing.T) {
	input := "\nThis is a title\n\n```scrut\n$ echo hello\nhello\n```\n"
	p := docparse.NewDefaultMarkdownParser(maker())
	_, testcases, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(testcases) != 1 {
		t.Fatalf("got %d testcases, want 1", len(testcases))
	}
	tc := testcases[0]
	if tc.Title != "This is a title" {
		t.Errorf("title = %q", tc.Title)
	}
	if tc.ShellExpression != "echo hello" {
		t.Errorf("shell expression = %q", tc.ShellExpression)
	}
}

func TestMarkdownIgnoresUnrecognizedLanguage(t *testing.T) {
	input := "A title\n\n```python\nprint('hi')\n```\n"
	p := docparse.NewDefaultMarkdownParser(maker())
	_, testcases, err := p.Parse(input)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(testcases) != 0 {
		t.Fatalf("got %d testcases, want 0 for an unrecognized language block", len(testcases))
	}
}

func TestFileParserDispatchesByExtension(t *testing.T) {
	fp := docparse.NewFileParser("*.md", "*.t", nil)
	if _, format, err := fp.ParserFor("foo.t"); err != nil || format != docparse.Cram {
		t.Errorf("ParserFor(foo.t) = (%v, %v), want Cram", format, err)
	}
	if _, format, err := fp.ParserFor("foo.md"); err != nil || format != docparse.Markdown {
		t.Errorf("ParserFor(foo.md) = (%v, %v), want Markdown", format, err)
	}
	if _, _, err := fp.ParserFor("foo.txt"); err == nil {
		t.Error("expected an error for an unmatched extension")
	}
}
