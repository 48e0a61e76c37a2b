// Package outcome aggregates everything a renderer needs to describe one
// executed test case: its TestCase, its actual Output, where it came from,
// and the validation result. Grounded on original_source/src/outcome.rs and
// src/testcase.rs.
package outcome

import (
	"fmt"

	"github.com/aledsdavies/scrut/diff"
	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/scrutcase"
)

// TestCaseError is a tagged union over why a TestCase failed validation.
type TestCaseError struct {
	kind     testCaseErrorKind
	diff     diff.Diff
	actual   int
	expected int
	internal error
}

type testCaseErrorKind int

const (
	errMalformedOutput testCaseErrorKind = iota
	errInvalidExitCode
	errInternal
	errSkipped
)

// MalformedOutput wraps a diff whose HasDifferences() is true.
func MalformedOutput(d diff.Diff) *TestCaseError {
	return &TestCaseError{kind: errMalformedOutput, diff: d}
}

// InvalidExitCode reports an exit code mismatch.
func InvalidExitCode(actual, expected int) *TestCaseError {
	return &TestCaseError{kind: errInvalidExitCode, actual: actual, expected: expected}
}

// Internal wraps an unexpected processing error (e.g. invalid UTF-8).
func Internal(err error) *TestCaseError {
	return &TestCaseError{kind: errInternal, internal: err}
}

// Skipped reports that the test case was intentionally skipped.
func Skipped() *TestCaseError {
	return &TestCaseError{kind: errSkipped}
}

// Diff returns the underlying diff for a MalformedOutput error.
func (e *TestCaseError) Diff() (diff.Diff, bool) {
	if e.kind == errMalformedOutput {
		return e.diff, true
	}
	return diff.Diff{}, false
}

// ExitCodes returns the actual/expected pair for an InvalidExitCode error.
func (e *TestCaseError) ExitCodes() (actual, expected int, ok bool) {
	if e.kind == errInvalidExitCode {
		return e.actual, e.expected, true
	}
	return 0, 0, false
}

// IsSkipped reports whether this is a Skipped error.
func (e *TestCaseError) IsSkipped() bool { return e.kind == errSkipped }

func (e *TestCaseError) Error() string {
	switch e.kind {
	case errMalformedOutput:
		return "output did not match expectations"
	case errInvalidExitCode:
		return fmt.Sprintf("exit code %d, expected %d", e.actual, e.expected)
	case errInternal:
		return fmt.Sprintf("internal error: %v", e.internal)
	case errSkipped:
		return "skipped"
	default:
		return "unknown test case error"
	}
}

func (e *TestCaseError) Unwrap() error {
	if e.kind == errInternal {
		return e.internal
	}
	return nil
}

// Validate checks output against tc's expectations and exit code,
// returning a *TestCaseError describing the first mismatch found, or nil on
// success. Exit code is checked first (only when output.ExitCode carries a
// definite code — a timeout or unknown status is left to the caller), then
// the full line-by-line diff.
func Validate(tc scrutcase.TestCase, output scrutcase.Output) *TestCaseError {
	if actual, ok := output.ExitCode.IsCode(); ok {
		expected := tc.ExpectedExitCode()
		if actual != expected {
			return InvalidExitCode(actual, expected)
		}
	}

	// StreamCombined is merged into Stdout.Bytes already, at spawn time (see
	// execctl.Execution.CombineOutput); only StreamStderr picks a different
	// buffer here.
	actual := output.Stdout.Bytes
	if tc.Config.EffectiveOutputStream() == scrutcase.StreamStderr {
		actual = output.Stderr.Bytes
	}

	tool := diff.NewTool(tc.Expectations)
	d := tool.Diff(actual)
	if d.HasDifferences() {
		return MalformedOutput(d)
	}
	return nil
}

// Result is either nil (success) or a *TestCaseError (failure), matching the
// original's Result<(), TestCaseError> shape.
type Result = *TestCaseError

// Location identifies where a test case came from: a file path and, for
// Markdown, the enclosing heading trail.
type Location struct {
	Path string
	// Title is an optional human-readable override, e.g. a Markdown
	// section heading trail joined with " > ".
	Title string
}

func (l Location) String() string {
	if l.Title == "" {
		return l.Path
	}
	return fmt.Sprintf("%s (%s)", l.Path, l.Title)
}

// Outcome is the aggregate a renderer consumes: the test case that ran, the
// output it produced, the validation result, and enough context (format,
// escaper, location) to render it faithfully.
type Outcome struct {
	TestCase scrutcase.TestCase
	Output   scrutcase.Output
	Result   Result
	Location *Location
	Format   docparse.Format
	Escaper  escaper.Escaper
}

// Success reports whether the outcome's test case validated cleanly.
func (o Outcome) Success() bool {
	return o.Result == nil
}
