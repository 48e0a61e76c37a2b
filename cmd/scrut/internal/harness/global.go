// Package harness holds the support logic shared by the scrut subcommands:
// the global flag set and its derived behaviors, test-file discovery,
// per-file execution environments and unique naming, and output renderer
// selection. Kept separate from package main so it can be unit tested
// directly, mirroring how opal-lang-opal's cli splits non-cobra logic into
// internal/ packages alongside its package-main entry point.
package harness

import (
	"github.com/aledsdavies/scrut/docparse"
	"github.com/aledsdavies/scrut/escaper"
)

// GlobalFlags is the set of flags shared across scrut's create/test/update
// subcommands. Grounded on
// original_source/src/bin/commands/root.rs's GlobalParameters /
// GlobalSharedParameters.
type GlobalFlags struct {
	// CramCompat turns on Cram-compatible defaults: CRAM* environment
	// variables, the Cram-dialect glob rule, combined output and kept CRLF.
	CramCompat bool
	// CombineOutput merges STDOUT and STDERR into a single stream.
	CombineOutput bool
	// KeepOutputCRLF disables CRLF->LF normalization of captured output.
	KeepOutputCRLF bool
	// Escaping overrides the default output escaping mode. nil means
	// "derive from the document format" (see OutputEscaping).
	Escaping *escaper.Mode
	// Shell is the interpreter test expressions run in.
	Shell string
	// WorkDirectory, if set, is used instead of a temporary directory.
	WorkDirectory string
}

// IsCombineOutput reports whether STDOUT/STDERR should be combined for a
// document of the given format (nil when the format isn't known yet).
// Grounded on GlobalSharedParameters::is_combine_output.
func (g GlobalFlags) IsCombineOutput(format *docparse.Format) bool {
	return g.CombineOutput || g.CramCompat || (format != nil && *format == docparse.Cram)
}

// IsKeepOutputCRLF reports whether CRLF line endings in captured output
// should be preserved rather than normalized to LF. Grounded on
// GlobalSharedParameters::is_keep_output_crlf.
func (g GlobalFlags) IsKeepOutputCRLF(format *docparse.Format) bool {
	return g.KeepOutputCRLF || g.CramCompat || (format != nil && *format == docparse.Cram)
}

// OutputEscaping returns the escaping mode to use for a document of the
// given format: the explicit override if set, else Unicode for Markdown and
// Ascii for Cram (nil format defaults to Markdown's Unicode). Grounded on
// GlobalSharedParameters::output_escaping.
func (g GlobalFlags) OutputEscaping(format *docparse.Format) escaper.Mode {
	if g.Escaping != nil {
		return *g.Escaping
	}
	if format != nil && *format == docparse.Cram {
		return escaper.Ascii
	}
	return escaper.Unicode
}
