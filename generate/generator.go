// Package generate renders Outcomes back into test-document source: either
// a brand-new document from captured output ("scrut create"), or an
// existing document with its test blocks refreshed in place ("scrut
// update"). Grounded on original_source/src/generators/.
package generate

import "github.com/aledsdavies/scrut/outcome"

// TestCaseGenerator renders a set of Outcomes as a brand-new document.
// Grounded on original_source/src/generators/generator.rs's
// TestCaseGenerator trait.
type TestCaseGenerator interface {
	GenerateTestCases(outcomes []outcome.Outcome) (string, error)
}

// UpdateGenerator rewrites an existing document, replacing each test
// block's body with its corresponding Outcome's regenerated body.
// MarkdownUpdateGenerator leaves every other line unchanged;
// CramUpdateGenerator rebuilds the whole document from the Outcomes (see its
// doc for what that does not carry over). Grounded on
// original_source/src/generators/generator.rs's UpdateGenerator trait.
type UpdateGenerator interface {
	GenerateUpdate(original string, outcomes []outcome.Outcome) (string, error)
}
