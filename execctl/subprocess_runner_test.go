package execctl_test

import (
	"testing"
	"time"

	"github.com/aledsdavies/scrut/execctl"
)

func testShell(t *testing.T) string {
	t.Helper()
	return execctl.DefaultShell()
}

func TestSubprocessRunnerDelegatesStdout(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	out, err := r.Run("t", execctl.Execution{Expression: "echo OK"}, execctl.Context{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out.Stdout.Bytes) != "OK\n" {
		t.Errorf("stdout = %q, want %q", out.Stdout.Bytes, "OK\n")
	}
	if code, ok := out.ExitCode.IsCode(); !ok || code != 0 {
		t.Errorf("exit code = (%d, %v), want (0, true)", code, ok)
	}
}

func TestSubprocessRunnerDelegatesStderr(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	out, err := r.Run("t", execctl.Execution{Expression: "1>&2 echo OK"}, execctl.Context{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out.Stderr.Bytes) != "OK\n" {
		t.Errorf("stderr = %q, want %q", out.Stderr.Bytes, "OK\n")
	}
}

func TestSubprocessRunnerDelegatesExitCode(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	out, err := r.Run("t", execctl.Execution{Expression: "( exit 123 )"}, execctl.Context{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if code, ok := out.ExitCode.IsCode(); !ok || code != 123 {
		t.Errorf("exit code = (%d, %v), want (123, true)", code, ok)
	}
}

func TestSubprocessRunnerCombinesOutput(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	out, err := r.Run("t", execctl.Execution{Expression: "echo OUT1; 1>&2 echo ERR1; echo OUT2"},
		execctl.Context{CombineOutput: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out.Stdout.Bytes) != "OUT1\nERR1\nOUT2\n" {
		t.Errorf("combined stdout = %q", out.Stdout.Bytes)
	}
	if len(out.Stderr.Bytes) != 0 {
		t.Errorf("stderr should be empty when combining, got %q", out.Stderr.Bytes)
	}
}

func TestSubprocessRunnerRespectsTimeout(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	start := time.Now()
	out, err := r.Run("t", execctl.Execution{
		Expression: "sleep 2 && echo OK",
		Timeout:    100 * time.Millisecond,
	}, execctl.Context{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("runner did not honor timeout, took %v", elapsed)
	}
	if _, ok := out.ExitCode.IsTimeout(); !ok {
		t.Errorf("exit code = %v, want a timeout status", out.ExitCode)
	}
}

func TestSubprocessRunnerNormalizesCRLF(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	out, err := r.Run("t", execctl.Execution{Expression: `printf 'a\r\nb\r\n'`}, execctl.Context{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out.Stdout.Bytes) != "a\nb\n" {
		t.Errorf("stdout = %q, want CRLF normalized to LF", out.Stdout.Bytes)
	}
}

func TestSubprocessRunnerKeepsCRLFWhenRequested(t *testing.T) {
	r := execctl.NewSubprocessRunner(testShell(t))
	out, err := r.Run("t", execctl.Execution{Expression: `printf 'a\r\nb\r\n'`}, execctl.Context{KeepCRLF: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out.Stdout.Bytes) != "a\r\nb\r\n" {
		t.Errorf("stdout = %q, want CRLF preserved", out.Stdout.Bytes)
	}
}
