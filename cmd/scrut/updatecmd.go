package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/scrut/cmd/scrut/internal/harness"
	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/execctl"
	"github.com/aledsdavies/scrut/generate"
	"github.com/aledsdavies/scrut/outcome"
	"github.com/aledsdavies/scrut/render"
)

type updateFlagValues struct {
	debug             bool
	markdownLanguages []string
	noColor           bool
	outputSuffix      string
	assumeYes         bool
	matchCram         string
	matchMarkdown     string
	replace           bool
	timeoutSeconds    int
	convert           string
}

// newUpdateCommand builds "scrut update". Grounded on
// original_source/src/bin/commands/update.rs.
func newUpdateCommand(globals *globalFlagValues) *cobra.Command {
	flags := &updateFlagValues{
		markdownLanguages: append([]string(nil), docparse.DefaultMarkdownLanguages...),
		outputSuffix:      ".new",
		matchCram:         "*.{t,cram}",
		matchMarkdown:     "*.{md,markdown}",
		timeoutSeconds:    900,
	}

	cmd := &cobra.Command{
		Use:   "update <path>...",
		Short: "Re-run test files and rewrite their output expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(globals, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Print parsed test cases to STDERR before running them")
	cmd.Flags().StringSliceVar(&flags.markdownLanguages, "markdown-languages", flags.markdownLanguages, "Markdown fence languages considered test cases")
	_ = cmd.Flags().MarkHidden("markdown-languages")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVarP(&flags.outputSuffix, "output-suffix", "o", flags.outputSuffix, "Suffix added to the rewritten file's name")
	cmd.Flags().BoolVarP(&flags.assumeYes, "assume-yes", "y", false, "Overwrite existing files without asking")
	cmd.Flags().StringVar(&flags.matchCram, "match-cram", flags.matchCram, "Glob pattern for Cram test files")
	cmd.Flags().StringVar(&flags.matchMarkdown, "match-markdown", flags.matchMarkdown, "Glob pattern for Markdown test files")
	cmd.Flags().BoolVarP(&flags.replace, "replace", "r", false, "Replace the file's contents in place instead of writing a new file")
	cmd.Flags().IntVarP(&flags.timeoutSeconds, "timeout-seconds", "S", flags.timeoutSeconds, "Timeout in seconds for each test file's whole batch; 0 uses the 15 minute default")
	cmd.Flags().StringVarP(&flags.convert, "convert", "c", "", "Convert to another format instead of updating in place: markdown or cram")

	return cmd
}

func runUpdate(globals *globalFlagValues, flags *updateFlagValues, paths []string) error {
	gf, err := globals.toGlobalFlags()
	if err != nil {
		return err
	}

	var convertTo *docparse.Format
	if flags.convert != "" {
		format, ok := docparse.ParseFormat(flags.convert)
		if !ok {
			return fmt.Errorf("unknown --convert %q (want markdown or cram)", flags.convert)
		}
		convertTo = &format
	}

	discovery, err := harness.NewFileDiscovery(flags.matchMarkdown, flags.matchCram, flags.markdownLanguages, gf.CramCompat)
	if err != nil {
		return err
	}
	tests, err := discovery.FindAndParse(paths)
	if err != nil {
		return err
	}

	env, err := harness.NewTestEnvironment(gf.Shell, gf.WorkDirectory)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	diffRenderer := render.NewPrettyRenderer(!flags.noColor)

	var countUpdated, countUnchanged, countSkipped int

	for _, test := range tests {
		format := test.Format
		// Matches update.rs's cram_compat binding: unlike "scrut test", this
		// ignores --cram-compat and tracks only the file's own format.
		cramCompat := format == docparse.Cram

		if len(test.TestCases) == 0 {
			fmt.Fprintf(os.Stderr, "Ignoring file %s that does not contain any testcases\n", test.Path)
			countSkipped++
			continue
		}

		workDir, envVars, err := env.InitTestFile(test.Path, cramCompat)
		if err != nil {
			return err
		}
		cases := mergeEnvironment(test.TestCases, envVars)

		if flags.debug {
			debugTestCases(test.Path, cases)
		}

		batchCtx := execctl.Context{
			Directory:     workDir,
			CombineOutput: gf.IsCombineOutput(&format),
			KeepCRLF:      gf.IsKeepOutputCRLF(&format),
		}
		if flags.timeoutSeconds > 0 {
			batchCtx.TotalTimeout = time.Duration(flags.timeoutSeconds) * time.Second
		}

		executor := execctl.NewExecutor(gf.Shell, "", cases)
		outputs, err := executor.ExecuteAll(cases, batchCtx)
		if err != nil {
			var execErr *execctl.Error
			if errors.As(err, &execErr) {
				if _, ok := execErr.IsSkipped(); ok {
					fmt.Fprintf(os.Stderr, "Skipping test file %s\n", test.Path)
					countSkipped++
					continue
				}
			}
			return fmt.Errorf("execute %s: %w", test.Path, err)
		}

		loc := &outcome.Location{Path: test.Path}
		esc := escaper.Escaper{Mode: gf.OutputEscaping(&format)}
		outcomes := make([]outcome.Outcome, len(cases))
		for i, tc := range cases {
			result := outcome.Validate(tc, outputs[i])
			outcomes[i] = outcome.Outcome{
				TestCase: tc, Output: outputs[i], Result: result, Location: loc, Format: format, Escaper: esc,
			}
		}

		isConversion := convertTo != nil && *convertTo != format
		var updated string
		var outputFormat docparse.Format
		if isConversion {
			updated, outputFormat, err = convertTest(*convertTo, flags.markdownLanguages, outcomes)
		} else {
			updated, err = updateTest(format, flags.markdownLanguages, test.Content, outcomes)
			outputFormat = format
		}
		if err != nil {
			return fmt.Errorf("generate update for %s: %w", test.Path, err)
		}

		if updated == test.Content {
			countUnchanged++
			continue
		}

		rendered, err := diffRenderer.Render(outcomes)
		if err == nil {
			fmt.Fprint(os.Stderr, rendered)
		}

		outputPath := updateOutputPath(test.Path, outputFormat, isConversion, flags.replace, flags.outputSuffix)

		if !flags.assumeYes {
			if _, statErr := os.Stat(outputPath); statErr == nil {
				ok, err := confirm(fmt.Sprintf("Overwrite existing file %q?", outputPath))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(os.Stderr, "  Skipping!")
					countSkipped++
					continue
				}
			}
		}

		if err := os.WriteFile(outputPath, []byte(updated), 0o644); err != nil {
			return fmt.Errorf("write updated test file %q: %w", outputPath, err)
		}
		countUpdated++
	}

	printUpdateSummary(countUpdated, countSkipped, countUnchanged, flags.noColor)
	return nil
}

func updateTest(format docparse.Format, markdownLanguages []string, content string, outcomes []outcome.Outcome) (string, error) {
	var generator generate.UpdateGenerator
	if format == docparse.Cram {
		generator = generate.NewDefaultCramUpdateGenerator()
	} else {
		generator = generate.NewMarkdownUpdateGenerator(markdownLanguages)
	}
	return generator.GenerateUpdate(content, outcomes)
}

func convertTest(to docparse.Format, markdownLanguages []string, outcomes []outcome.Outcome) (string, docparse.Format, error) {
	var generator generate.TestCaseGenerator
	if to == docparse.Cram {
		generator = generate.NewDefaultCramTestCaseGenerator()
	} else {
		language := docparse.DefaultMarkdownLanguages[0]
		if len(markdownLanguages) > 0 {
			language = markdownLanguages[0]
		}
		generator = generate.NewMarkdownTestCaseGenerator(language)
	}
	generated, err := generator.GenerateTestCases(outcomes)
	return generated, to, err
}

func updateOutputPath(path string, outputFormat docparse.Format, isConversion, replace bool, suffix string) string {
	if isConversion {
		ext := docparse.FileExtension(outputFormat)
		stripped := strings.TrimSuffix(path, filepath.Ext(path))
		return stripped + "." + ext
	}
	if replace {
		return path
	}
	return path + suffix
}

func printUpdateSummary(updated, skipped, unchanged int, noColor bool) {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	prevNoColor := color.NoColor
	color.NoColor = noColor || !isTTY
	defer func() { color.NoColor = prevNoColor }()

	total := updated + skipped + unchanged
	updatedStr := color.GreenString("%d updated", updated)
	skippedStr := color.YellowString("%d skipped", skipped)
	unchangedStr := color.MagentaString("%d unchanged", unchanged)
	fmt.Printf("%s: %s file(s) of which %s, %s and %s\n", color.New(color.Underline).Sprint("Summary"), fmt.Sprint(total), updatedStr, skippedStr, unchangedStr)
}

// confirm prompts the user with a yes/no question on STDOUT/STDIN.
func confirm(prompt string) (bool, error) {
	fmt.Printf("> %s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
