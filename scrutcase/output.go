package scrutcase

import (
	"time"

	"github.com/aledsdavies/scrut/escaper"
)

// SkipExitCode is Cram's historic "rest of document skipped" exit code.
const SkipExitCode = 80

// ExitStatus is a tagged union over how a process ended: a definite exit
// code, a timeout, or an unknown/unobserved status (e.g. killed by signal).
type ExitStatus struct {
	kind    exitStatusKind
	code    int
	timeout time.Duration
}

type exitStatusKind int

const (
	exitCode exitStatusKind = iota
	exitTimeout
	exitSkipped
	exitDetached
	exitUnknown
)

// Code constructs a definite-exit-code status.
func Code(code int) ExitStatus { return ExitStatus{kind: exitCode, code: code} }

// Timeout constructs a status representing a process killed after exceeding d.
func Timeout(d time.Duration) ExitStatus { return ExitStatus{kind: exitTimeout, timeout: d} }

// Skipped constructs a status for a test case skipped via the document's
// skip-document exit code.
func Skipped() ExitStatus { return ExitStatus{kind: exitSkipped} }

// Detached constructs a status for a test case whose shell expression
// detached itself, so no exit code was observed by design.
func Detached() ExitStatus { return ExitStatus{kind: exitDetached} }

// Unknown constructs a status for a process whose outcome could not be observed.
func Unknown() ExitStatus { return ExitStatus{kind: exitUnknown} }

// SUCCESS is the conventional zero exit status.
var SUCCESS = Code(0)

// SKIP is the conventional "skip the rest of this document" exit status.
var SKIP = Code(SkipExitCode)

// IsCode reports whether the status carries a definite exit code, returning it.
func (s ExitStatus) IsCode() (int, bool) {
	if s.kind == exitCode {
		return s.code, true
	}
	return 0, false
}

// IsTimeout reports whether the status represents a timeout.
func (s ExitStatus) IsTimeout() (time.Duration, bool) {
	if s.kind == exitTimeout {
		return s.timeout, true
	}
	return 0, false
}

// IsSkipped reports whether the status represents a skip-document exit.
func (s ExitStatus) IsSkipped() bool { return s.kind == exitSkipped }

// IsDetached reports whether the status represents a detached test case.
func (s ExitStatus) IsDetached() bool { return s.kind == exitDetached }

// AsCode renders the status as an integer for display purposes: -1 for a
// timeout, -2 for skipped, -3 for detached, -255 for an unknown status, the
// actual code otherwise.
func (s ExitStatus) AsCode() int {
	switch s.kind {
	case exitCode:
		return s.code
	case exitTimeout:
		return -1
	case exitSkipped:
		return -2
	case exitDetached:
		return -3
	default:
		return -255
	}
}

func (s ExitStatus) String() string {
	switch s.kind {
	case exitCode:
		if s.code == 0 {
			return "success"
		}
		return "failed"
	case exitTimeout:
		return "timeout"
	case exitSkipped:
		return "skipped"
	case exitDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// OutputStream holds the raw bytes captured from a single stream (stdout or
// stderr), which may or may not end in a trailing newline.
type OutputStream struct {
	Bytes []byte
}

// NewOutputStream wraps raw bytes captured from a process.
func NewOutputStream(b []byte) OutputStream { return OutputStream{Bytes: b} }

// Lines splits the stream into newline-delimited lines, the final one
// omitting its terminator if the stream didn't end in "\n".
func (o OutputStream) Lines() [][]byte {
	if len(o.Bytes) == 0 {
		return nil
	}
	var lines [][]byte
	start := 0
	for i, b := range o.Bytes {
		if b == '\n' {
			lines = append(lines, o.Bytes[start:i])
			start = i + 1
		}
	}
	if start < len(o.Bytes) {
		lines = append(lines, o.Bytes[start:])
	}
	return lines
}

// ToOutputString renders the stream back into test-document syntax: each
// line escaped and newline-terminated, with " (no-eol)" appended to the
// final line when the stream itself did not end in a newline (and the
// escaped rendering of that line doesn't already end in " (escaped)", since
// that suffix already communicates the line was transformed).
func (o OutputStream) ToOutputString(prefix string, esc escaper.Escaper) string {
	lines := o.Lines()
	endsInNewline := len(o.Bytes) > 0 && o.Bytes[len(o.Bytes)-1] == '\n'

	var sb []byte
	for i, line := range lines {
		sb = append(sb, prefix...)
		rendered := esc.EscapedExpectation(line)
		sb = append(sb, rendered...)
		if i == len(lines)-1 && !endsInNewline {
			if len(rendered) < 10 || rendered[len(rendered)-10:] != " (escaped)" {
				sb = append(sb, " (no-eol)"...)
			}
		}
		sb = append(sb, '\n')
	}
	return string(sb)
}

// Output is the full captured result of running a test case's shell
// expression.
type Output struct {
	Stdout   OutputStream
	Stderr   OutputStream
	ExitCode ExitStatus
}
