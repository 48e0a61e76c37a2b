package execctl

import (
	"os"
	"runtime"
)

// DefaultShell returns the shell interpreter to spawn for executions, in
// order of preference: $SHELL, then /bin/bash, then /bin/sh. On Windows it
// falls back to "bash" (expected to be a WSL/git-bash shim on PATH), matching
// original_source's platform-specific DEFAULT_SHELL constant.
func DefaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	if runtime.GOOS == "windows" {
		return "bash"
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash"
	}
	return "/bin/sh"
}
