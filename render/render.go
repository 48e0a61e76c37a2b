// Package render turns validated Outcomes into human- or machine-readable
// text: a colored diff-highlighting summary for terminals, or structured
// JSON/YAML/CBOR for tooling. Grounded on original_source/src/renderers/.
package render

import "github.com/aledsdavies/scrut/outcome"

// Renderer formats a batch of Outcomes as a single string. Grounded on
// original_source/src/renderers/renderer.rs's Renderer trait.
type Renderer interface {
	Render(outcomes []outcome.Outcome) (string, error)
}
