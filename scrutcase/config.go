// Package scrutcase holds the data model for a single test case and the
// document/test-case configuration that governs how it runs: TestCase,
// TestCaseConfig, DocumentConfig, Output and ExitStatus. Grounded on
// original_source/src/{config,testcase,output}.rs.
package scrutcase

import "time"

// OutputStreamControl selects which output stream(s) expectations apply to.
type OutputStreamControl int

const (
	// StreamStdout considers only STDOUT.
	StreamStdout OutputStreamControl = iota
	// StreamStderr considers only STDERR.
	StreamStderr
	// StreamCombined merges STDOUT and STDERR; their relative order is not
	// guaranteed.
	StreamCombined
	// StreamMarked lets the user mark expectations with @STDOUT/@STDERR.
	// Parsing accepts it; constructing a TestCase with it is rejected until
	// this mode is implemented (see DESIGN.md open question decision).
	StreamMarked
)

func (s OutputStreamControl) String() string {
	switch s {
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	case StreamCombined:
		return "combined"
	case StreamMarked:
		return "marked"
	default:
		return "unknown"
	}
}

// ParseOutputStreamControl parses the YAML/document spelling of a stream mode.
func ParseOutputStreamControl(s string) (OutputStreamControl, bool) {
	switch s {
	case "stdout":
		return StreamStdout, true
	case "stderr":
		return StreamStderr, true
	case "combined":
		return StreamCombined, true
	case "marked":
		return StreamMarked, true
	default:
		return 0, false
	}
}

// WaitConfig configures an optional pre-execution delay.
type WaitConfig struct {
	// Timeout bounds how long to wait.
	Timeout time.Duration
	// Path, if set, ends the wait early as soon as it exists.
	Path string
}

// TestCaseConfig holds the per-test-case configuration. All fields are
// pointers (or zero-value sentinels) so "unset" is distinguishable from
// "explicitly set to the zero value" during the inherit-from-document-
// defaults merge.
type TestCaseConfig struct {
	// Detached marks a test whose shell expression detaches itself (e.g.
	// `nohup server &`); scrut then performs no output/exit-code evaluation.
	Detached *bool

	// Environment lists extra environment variables for this test.
	Environment map[string]string

	// KeepCRLF disables CRLF->LF translation when true.
	KeepCRLF *bool

	// OutputStream selects which stream(s) expectations apply to.
	OutputStream *OutputStreamControl

	// SkipDocumentCode is the exit code that, if returned, skips the rest of
	// the document.
	SkipDocumentCode *int

	// Timeout bounds a single test's execution.
	Timeout *time.Duration

	// Wait optionally delays test start.
	Wait *WaitConfig
}

// Merge returns a new TestCaseConfig with every unset field in c filled in
// from defaults, implementing the document-defaults inheritance semantics.
func (c TestCaseConfig) Merge(defaults TestCaseConfig) TestCaseConfig {
	merged := c
	if merged.Detached == nil {
		merged.Detached = defaults.Detached
	}
	if merged.Environment == nil {
		merged.Environment = defaults.Environment
	}
	if merged.KeepCRLF == nil {
		merged.KeepCRLF = defaults.KeepCRLF
	}
	if merged.OutputStream == nil {
		merged.OutputStream = defaults.OutputStream
	}
	if merged.SkipDocumentCode == nil {
		merged.SkipDocumentCode = defaults.SkipDocumentCode
	}
	if merged.Timeout == nil {
		merged.Timeout = defaults.Timeout
	}
	if merged.Wait == nil {
		merged.Wait = defaults.Wait
	}
	return merged
}

// IsDetached reports the effective detached setting.
func (c TestCaseConfig) IsDetached() bool {
	return c.Detached != nil && *c.Detached
}

// EffectiveOutputStream returns the configured stream, defaulting to stdout.
func (c TestCaseConfig) EffectiveOutputStream() OutputStreamControl {
	if c.OutputStream == nil {
		return StreamStdout
	}
	return *c.OutputStream
}

// EffectiveSkipDocumentCode returns the configured skip code, defaulting to
// 80 (Cram's historic convention), matching SKIP.
func (c TestCaseConfig) EffectiveSkipDocumentCode() int {
	if c.SkipDocumentCode == nil {
		return SkipExitCode
	}
	return *c.SkipDocumentCode
}

// DocumentConfig holds the configuration scoped to a whole test document.
type DocumentConfig struct {
	// Append lists paths whose test cases are appended after this file's own.
	Append []string
	// Prepend lists paths whose test cases are prepended before this file's own.
	Prepend []string
	// Defaults apply to every TestCase in the document unless overridden.
	Defaults TestCaseConfig
	// LanguageMarkers lists Markdown code-block languages scrut treats as
	// test cases (Markdown documents only).
	LanguageMarkers []string
	// Shell overrides the interpreter used to run shell expressions.
	Shell *string
	// TotalTimeout bounds the whole document's execution.
	TotalTimeout time.Duration
}
