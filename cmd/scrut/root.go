package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/scrut/cmd/scrut/internal/harness"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/execctl"
)

// globalFlagValues backs the persistent flags shared across every
// subcommand. Grounded on
// original_source/src/bin/commands/root.rs's GlobalParameters.
type globalFlagValues struct {
	cramCompat     bool
	combineOutput  bool
	keepOutputCRLF bool
	escaping       string
	shell          string
	workDirectory  string
}

// toGlobalFlags validates and converts the raw flag values into a
// harness.GlobalFlags.
func (g *globalFlagValues) toGlobalFlags() (harness.GlobalFlags, error) {
	flags := harness.GlobalFlags{
		CramCompat:     g.cramCompat,
		CombineOutput:  g.combineOutput,
		KeepOutputCRLF: g.keepOutputCRLF,
		Shell:          g.shell,
		WorkDirectory:  g.workDirectory,
	}
	if g.escaping != "" {
		mode, ok := escaper.ParseMode(g.escaping)
		if !ok {
			return harness.GlobalFlags{}, fmt.Errorf("unknown --escaping %q (want unicode or ascii)", g.escaping)
		}
		flags.Escaping = &mode
	}
	return flags, nil
}

// newRootCommand assembles the scrut command tree.
func newRootCommand() *cobra.Command {
	globals := &globalFlagValues{shell: execctl.DefaultShell()}

	root := &cobra.Command{
		Use:           "scrut",
		Short:         "Run and generate CLI tests from Cram or Markdown documents",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().BoolVarP(&globals.cramCompat, "cram-compat", "C", false, "Enable full Cram compatibility (implies combine-output and keep-output-crlf)")
	root.PersistentFlags().BoolVar(&globals.combineOutput, "combine-output", false, "Merge STDERR into STDOUT")
	root.PersistentFlags().BoolVar(&globals.keepOutputCRLF, "keep-output-crlf", false, "Do not normalize CRLF to LF in captured output")
	root.PersistentFlags().StringVarP(&globals.escaping, "escaping", "e", "", "Escaping mode for output: unicode or ascii (default depends on format)")
	root.PersistentFlags().StringVarP(&globals.shell, "shell", "s", globals.shell, "Shell interpreter to run test expressions with")
	root.PersistentFlags().StringVarP(&globals.workDirectory, "work-directory", "w", "", "Directory to run tests in (default: a fresh temporary directory)")

	root.AddCommand(newTestCommand(globals))
	root.AddCommand(newCreateCommand(globals))
	root.AddCommand(newUpdateCommand(globals))

	return root
}
