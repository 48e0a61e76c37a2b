package harness

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/aledsdavies/scrut/render"
)

// ScrutRenderer selects which render.Renderer a run should use. Grounded on
// original_source/src/bin/commands/root.rs's ScrutRenderer enum.
type ScrutRenderer int

const (
	// RendererAuto picks Pretty when STDOUT is a TTY, Diff otherwise.
	RendererAuto ScrutRenderer = iota
	// RendererPretty always uses the colored/monochrome diff report.
	RendererPretty
	// RendererDiff is the Pretty report with color forced off.
	RendererDiff
	// RendererJSON emits a JSON array of outcomes.
	RendererJSON
	// RendererYAML emits a YAML document of outcomes.
	RendererYAML
)

// ParseScrutRenderer parses the --renderer flag's spelling.
func ParseScrutRenderer(s string) (ScrutRenderer, error) {
	switch s {
	case "auto":
		return RendererAuto, nil
	case "pretty":
		return RendererPretty, nil
	case "diff":
		return RendererDiff, nil
	case "json":
		return RendererJSON, nil
	case "yaml":
		return RendererYAML, nil
	default:
		return 0, fmt.Errorf("unknown renderer %q (want auto, pretty, diff, json or yaml)", s)
	}
}

// ResolveRenderer returns the render.Renderer r selects. noColor forces
// monochrome output even for Pretty/Auto. Auto uses color only when STDOUT
// is a terminal, matching the original's TTY + console::colors_enabled
// check (ported here with mattn/go-isatty, already present in the pack's
// dependency graph via fatih/color's own terminal detection).
func ResolveRenderer(r ScrutRenderer, noColor bool) render.Renderer {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	switch r {
	case RendererPretty:
		return render.NewPrettyRenderer(!noColor)
	case RendererDiff:
		return render.NewPrettyRenderer(false)
	case RendererJSON:
		return render.NewJSONRenderer(true)
	case RendererYAML:
		return render.NewYAMLRenderer()
	default: // RendererAuto
		return render.NewPrettyRenderer(!noColor && isTTY)
	}
}
