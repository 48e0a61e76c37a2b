package execctl

import (
	"fmt"
	"os"
	"strings"

	"github.com/aledsdavies/scrut/internal/invariant"
	"github.com/aledsdavies/scrut/scrutcase"
)

// excludedVariables lists shell-introspection and process-identity variables
// that must never be carried from one expression's dumped state into the
// next, since their value is determined anew by the shell on every
// invocation. Grounded on original_source/src/executors/bash_runner.rs's
// BASH_EXCLUDED_VARIABLES.
var excludedVariables = []string{
	"__SCRUT_TEMP_STATE_PATH",
	"BASHOPTS",
	"BASH_ALIASES",
	"BASH_ARGC",
	"BASH_ARGV",
	"BASH_ARGV0",
	"BASH_CMDS",
	"BASH_COMMAND",
	"BASH_EXECUTION_STRING",
	"BASH_LINENO",
	"BASH_REMATCH",
	"BASH_SOURCE",
	"BASH_SUBSHELL",
	"BASH_VERSINFO",
	"COPROC",
	"DIRSTACK",
	"EUID",
	"FUNCNAME",
	"LINENO",
	"PPID",
	"SHELLOPTS",
	"UID",
}

// stateFileName is the file within a batch's state directory that carries
// dumped shell state (variables, aliases, shopt/set flags) between
// executions.
const stateFileName = "state"

// bashWrapperTemplate sources the previous expression's dumped state, runs
// the user's expression, then dumps the resulting state back out, excluding
// the blocklisted variables. There is no bundled wrapper-script asset to
// draw on here, so this is authored directly from the stateful executor's
// contract (source-before, dump-after, minus blocklist).
const bashWrapperTemplate = `
__SCRUT_TEMP_STATE_PATH=%q
if [ -f "$__SCRUT_TEMP_STATE_PATH/%s" ]; then
  source "$__SCRUT_TEMP_STATE_PATH/%s"
fi

%s
__SCRUT_EXIT_CODE=$?

{
  declare -p | grep -v -E '^declare -[a-zA-Z-]* (%s)='
  declare -f
  alias -p
  shopt -p
  set -o | awk '{print "set " ($2=="on"?"-o":"+o") " " $1}'
} > "$__SCRUT_TEMP_STATE_PATH/%s.tmp" 2>/dev/null
mv "$__SCRUT_TEMP_STATE_PATH/%s.tmp" "$__SCRUT_TEMP_STATE_PATH/%s"

exit $__SCRUT_EXIT_CODE
`

// BashRunner wraps a SubprocessRunner so that consecutive executions sharing
// a state directory observe each other's exported variables, functions,
// aliases and shell options, as if run in one long-lived session. Grounded
// on original_source/src/executors/bash_runner.rs.
type BashRunner struct {
	Shell          string
	StateDirectory string
	subprocess     *SubprocessRunner
}

// NewBashRunner returns a BashRunner sharing stateDirectory across the
// executions it runs.
func NewBashRunner(shell, stateDirectory string) *BashRunner {
	invariant.Precondition(shell != "", "bash runner requires a shell path")
	invariant.Precondition(stateDirectory != "", "bash runner requires a state directory")
	return &BashRunner{
		Shell:          shell,
		StateDirectory: stateDirectory,
		subprocess:     NewSubprocessRunner(shell),
	}
}

// StatefulGenerator returns a function StatefulExecutor calls once per batch
// to build a fresh BashRunner rooted at that batch's state directory,
// matching BashRunner::stateful_generator.
func StatefulGenerator(shell string) func(stateDirectory string) Runner {
	return func(stateDirectory string) Runner {
		return NewBashRunner(shell, stateDirectory)
	}
}

// Run implements Runner.
func (r *BashRunner) Run(name string, execution Execution, ctx Context) (scrutcase.Output, error) {
	invariant.NotNil(r, "bash runner")
	exclude := strings.Join(excludedVariables, "|")
	wrapped := fmt.Sprintf(
		bashWrapperTemplate,
		r.StateDirectory, stateFileName, stateFileName,
		execution.Expression,
		exclude,
		stateFileName, stateFileName, stateFileName,
	)
	return r.subprocess.Run(name, execution.WithExpression(wrapped), ctx)
}

// newStateDirectory creates a batch-scoped temporary directory for the
// stateful executor, under parent if given or the OS default otherwise.
func newStateDirectory(parent string) (string, error) {
	if parent == "" {
		return os.MkdirTemp("", ".state.")
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(parent, ".state.")
}
