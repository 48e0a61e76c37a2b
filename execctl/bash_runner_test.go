package execctl_test

import (
	"os"
	"strings"
	"testing"

	"github.com/aledsdavies/scrut/execctl"
)

func TestBashRunnerPersistsStateAcrossExecutions(t *testing.T) {
	dir, err := os.MkdirTemp("", "bashrunner.")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	defer os.RemoveAll(dir)

	shell := testShell(t)
	if !strings.Contains(shell, "bash") {
		t.Skip("bash-specific state dump/restore requires a real bash")
	}
	r := execctl.NewBashRunner(shell, dir)

	if _, err := r.Run("exec1", execctl.Execution{Expression: "export FOO=bar"}, execctl.Context{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	out, err := r.Run("exec2", execctl.Execution{Expression: "echo $FOO"}, execctl.Context{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if string(out.Stdout.Bytes) != "bar\n" {
		t.Errorf("stdout = %q, want the variable from the previous execution to be visible", out.Stdout.Bytes)
	}
}

func TestBashRunnerExcludesBlocklistedVariables(t *testing.T) {
	dir, err := os.MkdirTemp("", "bashrunner.")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	defer os.RemoveAll(dir)

	shell := testShell(t)
	if !strings.Contains(shell, "bash") {
		t.Skip("bash-specific state dump/restore requires a real bash")
	}
	r := execctl.NewBashRunner(shell, dir)

	if _, err := r.Run("exec1", execctl.Execution{Expression: "true"}, execctl.Context{}); err != nil {
		t.Fatalf("first run: %v", err)
	}

	state, err := os.ReadFile(dir + "/state")
	if err != nil {
		t.Fatalf("read state file: %v", err)
	}
	if strings.Contains(string(state), "BASH_SOURCE") {
		t.Errorf("dumped state contains a blocklisted variable: %s", state)
	}
}

func TestBashRunnerCapturesExitCode(t *testing.T) {
	dir, err := os.MkdirTemp("", "bashrunner.")
	if err != nil {
		t.Fatalf("mkdtemp: %v", err)
	}
	defer os.RemoveAll(dir)

	r := execctl.NewBashRunner(testShell(t), dir)
	out, err := r.Run("exec1", execctl.Execution{Expression: "( exit 42 )"}, execctl.Context{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code, ok := out.ExitCode.IsCode(); !ok || code != 42 {
		t.Errorf("exit code = (%d, %v), want (42, true)", code, ok)
	}
}
