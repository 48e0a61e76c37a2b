package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/scrut/cmd/scrut/internal/harness"
	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/execctl"
	"github.com/aledsdavies/scrut/generate"
	"github.com/aledsdavies/scrut/outcome"
	"github.com/aledsdavies/scrut/scrutcase"
)

type createFlagValues struct {
	format         string
	output         string
	title          string
	timeoutSeconds int
}

// newCreateCommand builds "scrut create". Grounded on
// original_source/src/bin/commands/create.rs. The original dispatches to a
// dedicated BashScriptExecutor for this one-shot capture; here a single
// bare scrutcase.TestCase (no per-case timeout/detach/skip-code/wait) is
// handed to execctl.NewExecutor, which picks SequentialExecutor for exactly
// that shape, so no separate executor type is needed.
func newCreateCommand(globals *globalFlagValues) *cobra.Command {
	flags := &createFlagValues{
		format:         "markdown",
		output:         "-",
		title:          "Command executes successfully",
		timeoutSeconds: 900,
	}

	cmd := &cobra.Command{
		Use:   "create <shell-expression>...",
		Short: `Create a test from a shell expression (use "-" to read it from STDIN)`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(globals, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", flags.format, "Test format to create: markdown or cram")
	cmd.Flags().StringVarP(&flags.output, "output", "o", flags.output, `Where to write the generated test ("-" for STDOUT)`)
	cmd.Flags().StringVarP(&flags.title, "title", "t", flags.title, "Title for the generated test case")
	cmd.Flags().IntVarP(&flags.timeoutSeconds, "timeout-seconds", "S", flags.timeoutSeconds, "Max execution time for the shell expression")

	return cmd
}

func runCreate(globals *globalFlagValues, flags *createFlagValues, args []string) error {
	if flags.timeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}
	format, ok := docparse.ParseFormat(flags.format)
	if !ok {
		return fmt.Errorf("unknown --format %q (want markdown or cram)", flags.format)
	}

	gf, err := globals.toGlobalFlags()
	if err != nil {
		return err
	}

	expression, err := resolveShellExpression(args)
	if err != nil {
		return err
	}

	env, err := harness.NewTestEnvironment(gf.Shell, gf.WorkDirectory)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	testFilePath := filepath.Join(env.WorkDirectory(), "testfile.tmp")
	workDir, envVars, err := env.InitTestFile(testFilePath, format == docparse.Cram)
	if err != nil {
		return err
	}

	tc := scrutcase.TestCase{
		Title:           flags.title,
		ShellExpression: expression,
		Config:          scrutcase.TestCaseConfig{Environment: envVars},
	}

	batchCtx := execctl.Context{
		Directory:     workDir,
		CombineOutput: gf.IsCombineOutput(nil),
		KeepCRLF:      gf.IsKeepOutputCRLF(nil),
		TotalTimeout:  time.Duration(flags.timeoutSeconds) * time.Second,
	}

	cases := []scrutcase.TestCase{tc}
	executor := execctl.NewExecutor(gf.Shell, "", cases)
	outputs, err := executor.ExecuteAll(cases, batchCtx)
	if err != nil {
		return fmt.Errorf("execute shell expression: %w", err)
	}
	if len(outputs) != 1 {
		return fmt.Errorf("expected 1 output from execution, got %d", len(outputs))
	}

	result := outcome.Validate(tc, outputs[0])
	o := outcome.Outcome{
		TestCase: tc,
		Output:   outputs[0],
		Result:   result,
		Format:   format,
		Escaper:  escaper.Escaper{Mode: gf.OutputEscaping(&format)},
	}

	var generator generate.TestCaseGenerator
	if format == docparse.Cram {
		generator = generate.NewDefaultCramTestCaseGenerator()
	} else {
		generator = generate.NewDefaultMarkdownTestCaseGenerator()
	}
	generated, err := generator.GenerateTestCases([]outcome.Outcome{o})
	if err != nil {
		return fmt.Errorf("generate test: %w", err)
	}

	if flags.output == "-" {
		fmt.Fprint(os.Stdout, generated)
		return nil
	}
	return os.WriteFile(flags.output, []byte(generated), 0o644)
}

// resolveShellExpression joins args with a space, or, when args is the
// single element "-", reads newline-joined lines from STDIN.
func resolveShellExpression(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		var lines []string
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read STDIN: %w", err)
		}
		return strings.Join(lines, "\n"), nil
	}
	return strings.Join(args, " "), nil
}
