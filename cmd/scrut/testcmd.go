package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/scrut/cmd/scrut/internal/harness"
	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/execctl"
	"github.com/aledsdavies/scrut/outcome"
	"github.com/aledsdavies/scrut/scrutcase"
)

// errValidationFailed signals a clean (already-rendered) test failure, so
// main can exit non-zero without printing a second, redundant error line.
var errValidationFailed = errors.New("one or more test cases failed")

type testFlagValues struct {
	prependPaths      []string
	appendPaths       []string
	debug             bool
	markdownLanguages []string
	matchCram         string
	matchMarkdown     string
	noColor           bool
	renderer          string
	timeoutSeconds    int
}

// newTestCommand builds "scrut test". Grounded on
// original_source/src/bin/commands/test.rs.
func newTestCommand(globals *globalFlagValues) *cobra.Command {
	flags := &testFlagValues{
		markdownLanguages: append([]string(nil), docparse.DefaultMarkdownLanguages...),
		matchCram:         "*.{t,cram}",
		matchMarkdown:     "*.{md,markdown}",
		renderer:          "auto",
		timeoutSeconds:    900,
	}

	cmd := &cobra.Command{
		Use:   "test <path>...",
		Short: "Run test files and report whether their expectations hold",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(globals, flags, args)
		},
	}

	cmd.Flags().StringSliceVarP(&flags.prependPaths, "prepend-test-file-paths", "P", nil, "Test files whose cases run before each file's own")
	cmd.Flags().StringSliceVarP(&flags.appendPaths, "append-test-file-paths", "A", nil, "Test files whose cases run after each file's own")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Print parsed test cases to STDERR before running them")
	cmd.Flags().StringSliceVar(&flags.markdownLanguages, "markdown-languages", flags.markdownLanguages, "Markdown fence languages considered test cases")
	_ = cmd.Flags().MarkHidden("markdown-languages")
	cmd.Flags().StringVar(&flags.matchCram, "match-cram", flags.matchCram, "Glob pattern for Cram test files")
	cmd.Flags().StringVar(&flags.matchMarkdown, "match-markdown", flags.matchMarkdown, "Glob pattern for Markdown test files")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVarP(&flags.renderer, "renderer", "r", flags.renderer, "Output renderer: auto, pretty, diff, json or yaml")
	cmd.Flags().IntVarP(&flags.timeoutSeconds, "timeout-seconds", "S", flags.timeoutSeconds, "Timeout in seconds for each test file's whole batch; 0 uses the 15 minute default")

	return cmd
}

func runTest(globals *globalFlagValues, flags *testFlagValues, paths []string) error {
	gf, err := globals.toGlobalFlags()
	if err != nil {
		return err
	}

	rendererKind, err := harness.ParseScrutRenderer(flags.renderer)
	if err != nil {
		return err
	}

	discovery, err := harness.NewFileDiscovery(flags.matchMarkdown, flags.matchCram, flags.markdownLanguages, gf.CramCompat)
	if err != nil {
		return err
	}

	tests, err := discovery.FindAndParse(paths)
	if err != nil {
		return err
	}
	prepend, err := findOptional(discovery, flags.prependPaths)
	if err != nil {
		return err
	}
	appended, err := findOptional(discovery, flags.appendPaths)
	if err != nil {
		return err
	}

	env, err := harness.NewTestEnvironment(gf.Shell, gf.WorkDirectory)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	var allOutcomes []outcome.Outcome
	anyFailed := false

	for _, file := range tests {
		format := file.Format
		cramCompat := gf.CramCompat || format == docparse.Cram

		workDir, envVars, err := env.InitTestFile(file.Path, cramCompat)
		if err != nil {
			return err
		}

		cases := make([]scrutcase.TestCase, 0, len(prepend)+len(file.TestCases)+len(appended))
		cases = append(cases, flattenTestCases(prepend)...)
		cases = append(cases, file.TestCases...)
		cases = append(cases, flattenTestCases(appended)...)
		cases = mergeEnvironment(mergeDefaults(cases, file.Config.Defaults), envVars)

		if flags.debug {
			debugTestCases(file.Path, cases)
		}

		batchCtx := execctl.Context{
			Directory:     workDir,
			CombineOutput: gf.IsCombineOutput(&format),
			KeepCRLF:      gf.IsKeepOutputCRLF(&format),
		}
		if flags.timeoutSeconds > 0 {
			batchCtx.TotalTimeout = time.Duration(flags.timeoutSeconds) * time.Second
		}

		loc := &outcome.Location{Path: file.Path}
		esc := escaper.Escaper{Mode: gf.OutputEscaping(&format)}

		executor := execctl.NewExecutor(gf.Shell, "", cases)
		outputs, err := executor.ExecuteAll(cases, batchCtx)
		if err != nil {
			var execErr *execctl.Error
			if errors.As(err, &execErr) {
				if _, ok := execErr.IsSkipped(); ok {
					for _, tc := range cases {
						allOutcomes = append(allOutcomes, outcome.Outcome{
							TestCase: tc, Result: outcome.Skipped(), Location: loc, Format: format, Escaper: esc,
						})
					}
					continue
				}
			}
			return fmt.Errorf("execute %s: %w", file.Path, err)
		}

		for i, tc := range cases {
			result := outcome.Validate(tc, outputs[i])
			if result != nil {
				anyFailed = true
			}
			allOutcomes = append(allOutcomes, outcome.Outcome{
				TestCase: tc, Output: outputs[i], Result: result, Location: loc, Format: format, Escaper: esc,
			})
		}
	}

	renderer := harness.ResolveRenderer(rendererKind, flags.noColor)
	rendered, err := renderer.Render(allOutcomes)
	if err != nil {
		return fmt.Errorf("render outcomes: %w", err)
	}
	fmt.Fprint(os.Stdout, rendered)

	if anyFailed {
		return errValidationFailed
	}
	return nil
}

func findOptional(discovery *harness.FileDiscovery, paths []string) ([]harness.ParsedTestFile, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	return discovery.FindAndParse(paths)
}

func flattenTestCases(files []harness.ParsedTestFile) []scrutcase.TestCase {
	var cases []scrutcase.TestCase
	for _, f := range files {
		cases = append(cases, f.TestCases...)
	}
	return cases
}

func mergeDefaults(cases []scrutcase.TestCase, defaults scrutcase.TestCaseConfig) []scrutcase.TestCase {
	merged := make([]scrutcase.TestCase, len(cases))
	for i, tc := range cases {
		tc.Config = tc.Config.Merge(defaults)
		merged[i] = tc
	}
	return merged
}

// mergeEnvironment layers each test case's own (already document-default-
// merged) environment on top of the file's own TESTDIR/TESTFILE/TMPDIR/etc.
// variables. execctl.Context carries no environment of its own: it's the
// per-TestCase Config.Environment map that execctl.StatefulExecutor /
// SequentialExecutor read from, so this is the only place these variables
// can be injected.
func mergeEnvironment(cases []scrutcase.TestCase, fileEnv map[string]string) []scrutcase.TestCase {
	merged := make([]scrutcase.TestCase, len(cases))
	for i, tc := range cases {
		env := make(map[string]string, len(fileEnv)+len(tc.Config.Environment))
		for k, v := range fileEnv {
			env[k] = v
		}
		for k, v := range tc.Config.Environment {
			env[k] = v
		}
		tc.Config.Environment = env
		merged[i] = tc
	}
	return merged
}

func debugTestCases(path string, cases []scrutcase.TestCase) {
	fmt.Fprintf(os.Stderr, "--- %s: %d test case(s) ---\n", path, len(cases))
	for i, tc := range cases {
		fmt.Fprintf(os.Stderr, "[%d] %s\n    $ %s\n", i, tc.Title, tc.ShellExpression)
	}
}
