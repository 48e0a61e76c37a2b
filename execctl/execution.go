// Package execctl runs the shell expressions of test cases and captures
// their output. It implements the spec's stateful, per-expression-process
// executor (one interpreter process per expression, sharing a state
// directory across a batch) as well as a simpler single-script sequential
// alternative for batches that need none of the stateful design's
// per-case features. Grounded on original_source/src/executors/.
package execctl

import "time"

// Execution is everything a Runner needs to run one shell expression: what
// to run, which extra environment to layer on top of the runner's own, and
// how long to allow it to run. Grounded on
// original_source/src/executors/execution.rs.
type Execution struct {
	Expression  string
	Environment map[string]string
	// Timeout bounds this execution's wall-clock time; zero means no limit.
	Timeout time.Duration
	// CombineOutput merges stderr into stdout at the pipe level for this
	// execution alone, on top of whatever Context.CombineOutput already
	// requests for the whole batch.
	CombineOutput bool
}

// WithExpression returns a copy of e with its Expression replaced, mirroring
// the builder-style `.expression(...)` used by BashRunner to substitute a
// wrapped script in place of the user's original shell expression.
func (e Execution) WithExpression(expr string) Execution {
	e.Expression = expr
	return e
}

// WithTimeout returns a copy of e with its Timeout replaced.
func (e Execution) WithTimeout(d time.Duration) Execution {
	e.Timeout = d
	return e
}

// Context is execution-batch-scoped configuration shared by every Execution
// in a batch. Grounded on original_source/src/executors/context.rs.
type Context struct {
	// Directory is the working directory executions run in; empty means
	// inherit the current process's.
	Directory string
	// TempDirectory, if set, is the parent directory the stateful executor
	// creates its per-batch state directory under.
	TempDirectory string
	// CombineOutput merges stderr into stdout at the pipe level.
	CombineOutput bool
	// TotalTimeout bounds an entire batch of executions; zero uses
	// DefaultTotalTimeout.
	TotalTimeout time.Duration
	// KeepCRLF disables CRLF->LF normalization of captured output.
	KeepCRLF bool
}
