package outcome_test

import (
	"testing"

	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/outcome"
	"github.com/aledsdavies/scrut/rule"
	"github.com/aledsdavies/scrut/scrutcase"
)

func mustExpectation(t *testing.T, kind, expr string, optional, multiline bool) expectation.Expectation {
	t.Helper()
	m := expectation.NewMaker(rule.DefaultRegistry())
	e, err := m.Make(kind, expr, optional, multiline, expr)
	if err != nil {
		t.Fatalf("make expectation: %v", err)
	}
	return e
}

func TestValidateSucceedsOnValid(t *testing.T) {
	exitCode := 123
	tc := scrutcase.TestCase{
		Title:           "a testcase",
		ShellExpression: "a command",
		Expectations:    []expectation.Expectation{mustExpectation(t, "no-eol", "the stdout", false, false)},
		ExitCode:        &exitCode,
		LineNumber:      234,
	}
	output := scrutcase.Output{
		Stdout:   scrutcase.NewOutputStream([]byte("the stdout")),
		Stderr:   scrutcase.NewOutputStream([]byte("the stderr")),
		ExitCode: scrutcase.Code(123),
	}
	if err := outcome.Validate(tc, output); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateFailsOnInvalidExitCode(t *testing.T) {
	exitCode := 234
	tc := scrutcase.TestCase{
		Title:           "a testcase",
		ShellExpression: "a command",
		Expectations:    []expectation.Expectation{mustExpectation(t, "no-eol", "the stdout", false, false)},
		ExitCode:        &exitCode,
		LineNumber:      123,
	}
	output := scrutcase.Output{
		Stdout:   scrutcase.NewOutputStream([]byte("the stdout")),
		Stderr:   scrutcase.NewOutputStream([]byte("the stderr")),
		ExitCode: scrutcase.Code(123),
	}
	err := outcome.Validate(tc, output)
	if err == nil {
		t.Fatal("expected an error")
	}
	actual, expected, ok := err.ExitCodes()
	if !ok {
		t.Fatalf("expected an InvalidExitCode error, got %v", err)
	}
	if actual != 123 || expected != 234 {
		t.Errorf("ExitCodes() = (%d, %d), want (123, 234)", actual, expected)
	}
}

func TestValidateFailsOnMalformedOutput(t *testing.T) {
	exitCode := 123
	tc := scrutcase.TestCase{
		Title:           "a testcase",
		ShellExpression: "a command",
		Expectations:    []expectation.Expectation{mustExpectation(t, "no-eol", "something not matching", false, false)},
		ExitCode:        &exitCode,
		LineNumber:      234,
	}
	output := scrutcase.Output{
		Stdout:   scrutcase.NewOutputStream([]byte("the stdout")),
		Stderr:   scrutcase.NewOutputStream([]byte("the stderr")),
		ExitCode: scrutcase.Code(123),
	}
	err := outcome.Validate(tc, output)
	if err == nil {
		t.Fatal("expected an error")
	}
	d, ok := err.Diff()
	if !ok {
		t.Fatalf("expected a MalformedOutput error, got %v", err)
	}
	if !d.HasDifferences() {
		t.Error("expected the wrapped diff to report differences")
	}
}
