package execctl

import "fmt"

// timeoutScope distinguishes a total-batch timeout from a single execution's
// own timeout. Grounded on original_source/src/executors/error.rs's
// ExecutionTimeout enum.
type timeoutScope struct {
	total bool
	index int
}

// Total reports a batch-wide timeout, matching ExecutionTimeout::Total.
func Total() timeoutScope { return timeoutScope{total: true} }

// AtIndex reports a single execution's own timeout, matching
// ExecutionTimeout::Index(i).
func AtIndex(i int) timeoutScope { return timeoutScope{index: i} }

type errKind int

const (
	errFailed errKind = iota
	errAborted
	errTimeout
	errSkipped
)

// Error is the tagged union of everything that can go wrong running a batch
// of Executions, grounded on original_source/src/executors/error.rs's
// ExecutionError enum.
type Error struct {
	kind    errKind
	index   int
	err     error
	timeout timeoutScope
}

// Failed reports that the execution at index itself could not be run (e.g.
// the shell failed to spawn), matching ExecutionError::Failed.
func Failed(index int, err error) *Error {
	return &Error{kind: errFailed, index: index, err: err}
}

// Aborted reports that a whole batch had to be abandoned, matching
// ExecutionError::Aborted.
func Aborted(err error) *Error {
	return &Error{kind: errAborted, err: err}
}

// Timeout reports a timeout, either for the whole batch or a single
// execution, matching ExecutionError::Timeout.
func Timeout(scope timeoutScope) *Error {
	return &Error{kind: errTimeout, timeout: scope}
}

// Skipped reports that the execution at index requested the batch be
// abandoned via its skip-document exit code, matching
// ExecutionError::Skipped.
func Skipped(index int) *Error {
	return &Error{kind: errSkipped, index: index}
}

// IsTimeout reports whether err is a Timeout, and if so whether it was the
// batch's total timeout (as opposed to a single execution's own).
func (e *Error) IsTimeout() (total bool, ok bool) {
	if e == nil || e.kind != errTimeout {
		return false, false
	}
	return e.timeout.total, true
}

// IsSkipped reports whether err is a Skipped, and the index that requested
// it.
func (e *Error) IsSkipped() (index int, ok bool) {
	if e == nil || e.kind != errSkipped {
		return 0, false
	}
	return e.index, true
}

func (e *Error) Error() string {
	switch e.kind {
	case errFailed:
		return fmt.Sprintf("execution %d failed: %v", e.index, e.err)
	case errAborted:
		return fmt.Sprintf("execution aborted: %v", e.err)
	case errTimeout:
		if e.timeout.total {
			return "execution batch timed out"
		}
		return fmt.Sprintf("execution %d timed out", e.timeout.index)
	case errSkipped:
		return fmt.Sprintf("execution %d requested skipping remaining test cases", e.index)
	default:
		return "unknown execution error"
	}
}

func (e *Error) Unwrap() error { return e.err }
