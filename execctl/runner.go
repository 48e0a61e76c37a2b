package execctl

import (
	"time"

	"github.com/aledsdavies/scrut/scrutcase"
)

// Runner runs a single Execution and returns its Output. Grounded on
// original_source/src/executors/runner.rs.
type Runner interface {
	Run(name string, execution Execution, context Context) (scrutcase.Output, error)
}

// Executor runs a whole batch of test cases at once and returns their
// Outputs in order. Grounded on original_source/src/executors/executor.rs.
type Executor interface {
	ExecuteAll(testcases []scrutcase.TestCase, context Context) ([]scrutcase.Output, error)
}

// DefaultTotalTimeout bounds an entire batch of executions when
// Context.TotalTimeout is zero, matching original_source's
// DEFAULT_TOTAL_TIMEOUT.
const DefaultTotalTimeout = 15 * time.Minute
