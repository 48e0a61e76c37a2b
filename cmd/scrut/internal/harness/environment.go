package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// TestEnvironment sets up the work directory and environment variables test
// executions run under, and tears down whatever it created itself once
// Close is called. Grounded on
// original_source/src/bin/utils/environment.rs's TestEnvironment.
type TestEnvironment struct {
	Shell string

	// workDirectory is where per-test-file directories are created.
	// workDirectoryProvided means it was given by the user and must not be
	// removed on Close (only a user-provided directory's own ephemeral tmp
	// subdirectory is).
	workDirectory         string
	workDirectoryProvided bool

	// tmpDirectory is exposed to executions as TMPDIR. It is ephemeral
	// (needs explicit removal on Close) exactly when workDirectory was
	// user-provided; otherwise it's a permanent subdirectory nested inside
	// the ephemeral work directory, and gets removed along with it.
	// Grounded on TestEnvironment::new's EnvironmentDirectory pairing.
	tmpDirectory  string
	tmpEphemeral  bool

	namer *UniqueNamer
}

// NewTestEnvironment creates the work/tmp directory pair. If provided is
// non-empty, it is used as the (permanent) work directory and a temporary
// tmp directory is created inside it; otherwise a temporary work directory
// is created and a permanent "__tmp" subdirectory inside that serves as the
// tmp directory. Grounded on TestEnvironment::new.
func NewTestEnvironment(shell, provided string) (*TestEnvironment, error) {
	var workDirectory, tmpDirectory string
	var workProvided, tmpEphemeral bool

	if provided != "" {
		abs, err := filepath.Abs(provided)
		if err != nil {
			return nil, fmt.Errorf("resolve work directory %q: %w", provided, err)
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("create work directory %q: %w", abs, err)
		}
		tmp, err := os.MkdirTemp(abs, "temp")
		if err != nil {
			return nil, fmt.Errorf("create temporary tmp directory in %q: %w", abs, err)
		}
		workDirectory, workProvided = abs, true
		tmpDirectory, tmpEphemeral = tmp, true
	} else {
		work, err := os.MkdirTemp("", "execution")
		if err != nil {
			return nil, fmt.Errorf("create temporary work directory: %w", err)
		}
		tmp := filepath.Join(work, "__tmp")
		if err := os.Mkdir(tmp, 0o755); err != nil {
			return nil, fmt.Errorf("create tmp directory in temporary work directory: %w", err)
		}
		workDirectory, workProvided = work, false
		tmpDirectory, tmpEphemeral = tmp, false
	}

	return &TestEnvironment{
		Shell:                 shell,
		workDirectory:         workDirectory,
		workDirectoryProvided: workProvided,
		tmpDirectory:          tmpDirectory,
		tmpEphemeral:          tmpEphemeral,
		namer:                 NewUniqueNamer(workDirectory),
	}, nil
}

// WorkDirectory returns the base work directory.
func (e *TestEnvironment) WorkDirectory() string { return e.workDirectory }

// InitTestFile returns the work directory and environment variables for one
// test file: a unique subdirectory of the base work directory (unless a
// work directory was explicitly provided, in which case it's shared), plus
// TESTDIR/TESTFILE/TMPDIR/TESTSHELL and the C-locale variables every
// execution needs, with CRAMTMP/TMP/TEMP added in cram-compat mode.
// Grounded on TestEnvironment::init_test_file / TestFileEnvironment.
func (e *TestEnvironment) InitTestFile(testFilePath string, cramCompat bool) (string, map[string]string, error) {
	abs, err := filepath.Abs(testFilePath)
	if err != nil {
		return "", nil, fmt.Errorf("resolve test file path %q: %w", testFilePath, err)
	}
	testFileDirectory, testFileName := filepath.Split(abs)
	testFileDirectory = filepath.Clean(testFileDirectory)

	var testWorkDirectory string
	if e.workDirectoryProvided {
		testWorkDirectory = e.workDirectory
	} else {
		testWorkDirectory = filepath.Join(e.workDirectory, e.namer.NextName(testFileName))
		if _, err := os.Stat(testWorkDirectory); os.IsNotExist(err) {
			if err := os.Mkdir(testWorkDirectory, 0o755); err != nil {
				return "", nil, fmt.Errorf("create working directory %q: %w", testWorkDirectory, err)
			}
		}
	}

	env := map[string]string{
		"TESTDIR":     testFileDirectory,
		"TESTFILE":    testFileName,
		"TMPDIR":      e.tmpDirectory,
		"TESTSHELL":   e.Shell,
		"LANG":        "C",
		"LANGUAGE":    "C",
		"LC_ALL":      "C",
		"TZ":          "GMT",
		"COLUMNS":     "80",
		"CDPATH":      "",
		"GREP_OPTIONS": "",
	}
	if cramCompat {
		env["CRAMTMP"] = e.workDirectory
		env["TMP"] = e.tmpDirectory
		env["TEMP"] = e.tmpDirectory
	}

	return testWorkDirectory, env, nil
}

// Close removes whichever of the work/tmp directory pair this
// TestEnvironment created itself, matching TestEnvironment's Drop impl.
func (e *TestEnvironment) Close() error {
	if !e.workDirectoryProvided {
		if err := os.RemoveAll(e.workDirectory); err != nil {
			return fmt.Errorf("remove temporary work directory %q: %w", e.workDirectory, err)
		}
	}
	if e.tmpEphemeral {
		if err := os.RemoveAll(e.tmpDirectory); err != nil {
			return fmt.Errorf("remove temporary tmp directory %q: %w", e.tmpDirectory, err)
		}
	}
	return nil
}
