package scrutcase

import "github.com/aledsdavies/scrut/expectation"

// TestCase is a single shell expression plus the expectations it must
// satisfy, as extracted from a test document. Grounded on
// original_source/src/testcase.rs.
type TestCase struct {
	// Title is the human-readable name of the test, either given explicitly
	// (Markdown heading, Cram comment) or derived from the shell expression.
	Title string

	// ShellExpression is the command to execute.
	ShellExpression string

	// Expectations are matched, in order, against the command's output.
	Expectations []expectation.Expectation

	// ExitCode is the expected exit code. nil means "0, unless the document
	// default says otherwise".
	ExitCode *int

	// LineNumber is the 1-based source line the test case starts on, used in
	// diagnostics.
	LineNumber int

	// Config holds this test case's already-merged-with-document-defaults
	// configuration.
	Config TestCaseConfig
}

// ExpectedExitCode returns the exit code this test case expects, defaulting
// to 0 when unset.
func (tc TestCase) ExpectedExitCode() int {
	if tc.ExitCode == nil {
		return 0
	}
	return *tc.ExitCode
}
