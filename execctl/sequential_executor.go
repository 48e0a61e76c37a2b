package execctl

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/aledsdavies/scrut/internal/invariant"
	"github.com/aledsdavies/scrut/scrutcase"
)

// dividerPrefix marks the synthetic lines SequentialExecutor injects between
// executions in its generated script, so it can split one process's combined
// output back into per-test-case results. Grounded on
// original_source/src/executors/sequential_executor.rs.
const dividerPrefix = "~~~~~~~~EXECDIVIDER::"

// SequentialExecutor runs every test case's shell expression in one shared
// shell process, letting environment variables and shell state flow
// naturally from one expression to the next. It does not support
// per-execution timeouts or detached cases; only the batch-wide total
// timeout applies. If any case exits with a skip-document code, the whole
// batch is reported as Skipped at index 0. NewExecutor selects it
// automatically only when a batch needs none of the per-case features. Grounded on
// original_source/src/executors/sequential_executor.rs (SequentialShellExecutor).
type SequentialExecutor struct {
	Shell string
}

// NewSequentialExecutor returns a SequentialExecutor invoking shell.
func NewSequentialExecutor(shell string) *SequentialExecutor {
	invariant.Precondition(shell != "", "sequential executor requires a shell path")
	return &SequentialExecutor{Shell: shell}
}

// ExecuteAll implements Executor.
func (e *SequentialExecutor) ExecuteAll(testcases []scrutcase.TestCase, ctx Context) ([]scrutcase.Output, error) {
	salt, err := randomAlphanumeric(20)
	if err != nil {
		return nil, Aborted(fmt.Errorf("generate divider salt: %w", err))
	}

	script, err := buildSequentialScript(testcases, salt, ctx.CombineOutput)
	if err != nil {
		return nil, err
	}

	totalTimeout := ctx.TotalTimeout
	if totalTimeout <= 0 {
		totalTimeout = DefaultTotalTimeout
	}

	runner := NewSubprocessRunner(e.Shell)
	output, err := runner.Run("sequential", Execution{Expression: script, Timeout: totalTimeout}, ctx)
	if err != nil {
		return nil, Aborted(err)
	}

	if _, ok := output.ExitCode.IsTimeout(); ok {
		return nil, Timeout(Total())
	}
	if output.ExitCode.IsSkipped() {
		return nil, Skipped(0)
	}

	outputs, err := splitDividedOutput(output.Stdout.Bytes, salt)
	if err != nil {
		return nil, err
	}
	for _, o := range outputs {
		if code, ok := o.ExitCode.IsCode(); ok {
			for _, tc := range testcases {
				if code == tc.Config.EffectiveSkipDocumentCode() {
					return nil, Skipped(0)
				}
			}
		}
	}
	if len(outputs) != len(testcases) {
		return nil, Aborted(fmt.Errorf("expected %d execution result(s) but found %d", len(testcases), len(outputs)))
	}

	if !ctx.CombineOutput {
		stderrParts, err := splitDividedOutput(output.Stderr.Bytes, salt)
		if err != nil {
			return nil, err
		}
		for i := range outputs {
			if i < len(stderrParts) {
				outputs[i].Stderr = stderrParts[i].Stdout
			}
		}
	}

	return outputs, nil
}

// buildSequentialScript renders a script that runs each test case's shell
// expression followed by a divider line carrying its index and exit code,
// exporting and then unsetting any per-case environment variables around it.
func buildSequentialScript(testcases []scrutcase.TestCase, salt string, combineOutput bool) (string, error) {
	var lines []string
	for index, tc := range testcases {
		if tc.Config.Timeout != nil {
			return "", Failed(index, fmt.Errorf("timeout per execution not supported in sequential execution"))
		}

		var unset []string
		if len(tc.Config.Environment) > 0 {
			keys := make([]string, 0, len(tc.Config.Environment))
			for k := range tc.Config.Environment {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				lines = append(lines, fmt.Sprintf("export %s=%s", k, shellQuote(tc.Config.Environment[k])))
				unset = append(unset, fmt.Sprintf("unset %s", k))
			}
		}

		lines = append(lines, tc.ShellExpression)

		// double-quoted (not shellQuote's single quotes) so "$?" expands to
		// the expression's actual exit code when echoed.
		footer := fmt.Sprintf("%s%s::%d::$?", dividerPrefix, salt, index)
		lines = append(lines, "", fmt.Sprintf("echo %q", footer))
		if !combineOutput {
			lines = append(lines, fmt.Sprintf("1>&2 echo %q", footer))
		}
		lines = append(lines, unset...)
	}
	return strings.Join(lines, "\n"), nil
}

// splitDividedOutput splits raw output at divider lines back into one Output
// per execution index, matching sequential_executor.rs's
// iterate_divided_output/parse_divider_bytes.
func splitDividedOutput(raw []byte, salt string) ([]scrutcase.Output, error) {
	var outputs []scrutcase.Output
	var buffer []byte
	expected := 0

	for _, line := range strings.SplitAfter(string(raw), "\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimRight(line, "\n")
		idx := strings.Index(trimmed, dividerPrefix)
		if idx < 0 {
			buffer = append(buffer, []byte(line)...)
			continue
		}

		prefix := trimmed[:idx]
		rest := trimmed[idx+len(dividerPrefix):]
		parts := strings.SplitN(rest, "::", 3)
		if len(parts) != 3 || parts[0] != salt {
			return nil, Aborted(fmt.Errorf("malformed divider line %q", trimmed))
		}
		outputIndex, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, Aborted(fmt.Errorf("parse divider output index: %w", err))
		}
		exitCode, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, Aborted(fmt.Errorf("parse divider exit code: %w", err))
		}
		if outputIndex != expected {
			return nil, Aborted(fmt.Errorf("unexpected result (expected index %d, found %d)", expected, outputIndex))
		}

		body := append([]byte(nil), buffer...)
		body = append(body, prefix...)
		outputs = append(outputs, scrutcase.Output{
			Stdout:   scrutcase.NewOutputStream(body),
			ExitCode: scrutcase.Code(exitCode),
		})
		expected++
		buffer = nil
	}
	return outputs, nil
}

// shellQuote wraps s in single quotes for POSIX shell, matching
// shell_escape::unix::escape's approach.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func randomAlphanumeric(n int) (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out), nil
}
