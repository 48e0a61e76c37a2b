package execctl

import "github.com/aledsdavies/scrut/scrutcase"

// NewExecutor picks SequentialExecutor when every test case in testcases
// needs none of the stateful design's per-case features (a timeout, an
// explicitly configured skip code, detachment, a wait, or a combined output
// stream), falling back to StatefulExecutor otherwise. Per SPEC_FULL.md §11: the stateful, per-expression-process
// design remains the default and the target of edge-case behavior; the
// sequential alternative is only used when it is provably equivalent.
func NewExecutor(shell, stateDirParent string, testcases []scrutcase.TestCase) Executor {
	if needsStatefulFeatures(testcases) {
		return NewStatefulExecutor(StatefulGenerator(shell), stateDirParent)
	}
	return NewSequentialExecutor(shell)
}

func needsStatefulFeatures(testcases []scrutcase.TestCase) bool {
	for _, tc := range testcases {
		if tc.Config.Timeout != nil {
			return true
		}
		if tc.Config.IsDetached() {
			return true
		}
		if tc.Config.SkipDocumentCode != nil {
			return true
		}
		if tc.Config.Wait != nil {
			return true
		}
		// a per-case combined-output request can only be honored by giving the
		// case its own process (Execution.CombineOutput); SequentialExecutor
		// runs every case in one shared script and can only combine for the
		// whole batch via Context.CombineOutput.
		if tc.Config.EffectiveOutputStream() == scrutcase.StreamCombined {
			return true
		}
	}
	return false
}
