package execctl

import (
	"fmt"
	"time"

	"github.com/aledsdavies/scrut/internal/invariant"
	"github.com/aledsdavies/scrut/scrutcase"
)

// RunnerGenerator builds a fresh Runner rooted at a batch's shared state
// directory. Grounded on original_source's StatefulExecutorRunnerGenerator.
type RunnerGenerator func(stateDirectory string) Runner

// StatefulExecutor runs each test case in a batch as a fresh process, but
// shares one state directory across the whole batch so that a Runner (e.g.
// BashRunner) can carry shell state from one expression to the next.
// Supports both a per-batch total timeout and per-case timeouts. Grounded on
// original_source/src/executors/stateful_executor.rs.
type StatefulExecutor struct {
	generator     RunnerGenerator
	stateDirParent string
}

// NewStatefulExecutor returns a StatefulExecutor whose Runners are built by
// generator. stateDirParent, if non-empty, is where the batch's temporary
// state directory is created; empty uses the OS default temp location.
func NewStatefulExecutor(generator RunnerGenerator, stateDirParent string) *StatefulExecutor {
	invariant.NotNil(generator, "runner generator")
	return &StatefulExecutor{generator: generator, stateDirParent: stateDirParent}
}

type timeoutCandidate struct {
	isGlobal bool
	timeout  time.Duration
}

// ExecuteAll implements Executor.
func (e *StatefulExecutor) ExecuteAll(testcases []scrutcase.TestCase, ctx Context) ([]scrutcase.Output, error) {
	stateDir, err := newStateDirectory(e.stateDirParent)
	if err != nil {
		return nil, Aborted(fmt.Errorf("create state directory: %w", err))
	}

	totalTimeout := ctx.TotalTimeout
	if totalTimeout <= 0 {
		totalTimeout = DefaultTotalTimeout
	}
	var deadline time.Time
	hasDeadline := totalTimeout > 0
	if hasDeadline {
		deadline = time.Now().Add(totalTimeout)
	}

	runner := e.generator(stateDir)

	var outputs []scrutcase.Output
	for index, tc := range testcases {
		name := fmt.Sprintf("exec%d", index+1)

		candidates := make([]timeoutCandidate, 0, 2)
		if tc.Config.Timeout != nil {
			candidates = append(candidates, timeoutCandidate{isGlobal: false, timeout: *tc.Config.Timeout})
		}
		if hasDeadline {
			candidates = append(candidates, timeoutCandidate{isGlobal: true, timeout: deadline.Sub(time.Now())})
		}
		isGlobalTimeout, timeout := smallestTimeout(candidates)
		if len(candidates) > 0 && timeout <= 0 {
			if isGlobalTimeout {
				return nil, Timeout(Total())
			}
			return nil, Timeout(AtIndex(index))
		}

		if tc.Config.Wait != nil {
			if err := AwaitWait(tc.Config.Wait); err != nil {
				return nil, Failed(index, fmt.Errorf("wait: %w", err))
			}
		}

		execution := Execution{
			Expression:    tc.ShellExpression,
			Environment:   tc.Config.Environment,
			Timeout:       timeout,
			CombineOutput: tc.Config.EffectiveOutputStream() == scrutcase.StreamCombined,
		}

		output, err := runner.Run(name, execution, ctx)
		if err != nil {
			return nil, Failed(index, err)
		}

		skipCode := tc.Config.EffectiveSkipDocumentCode()
		switch {
		case tc.Config.IsDetached():
			// ignore whatever was observed; detached cases still dump state.
			outputs = append(outputs, scrutcase.Output{ExitCode: scrutcase.Detached()})
			continue
		}

		if code, ok := output.ExitCode.IsCode(); ok {
			if code == skipCode {
				return nil, Skipped(index)
			}
			outputs = append(outputs, output)
			continue
		}
		if _, ok := output.ExitCode.IsTimeout(); ok {
			if isGlobalTimeout {
				return nil, Timeout(Total())
			}
			return nil, Timeout(AtIndex(index))
		}
		if output.ExitCode.IsSkipped() {
			return nil, Skipped(index)
		}

		// unknown/unobserved status: pad remaining outputs and stop, matching
		// the original's "things are hairy, better end" handling.
		outputs = append(outputs, output)
		for len(outputs) < len(testcases) {
			outputs = append(outputs, scrutcase.Output{ExitCode: scrutcase.Unknown()})
		}
		break
	}

	return outputs, nil
}

// smallestTimeout picks the smaller of a per-case and a remaining-total
// timeout candidate, reporting whether the chosen one was the global one.
// It takes the literal minimum by duration; on a tie the first candidate
// (the per-case one, when present) wins.
func smallestTimeout(candidates []timeoutCandidate) (isGlobal bool, timeout time.Duration) {
	if len(candidates) == 0 {
		return false, 0
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.timeout < best.timeout {
			best = c
		}
	}
	return best.isGlobal, best.timeout
}
