package render

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/aledsdavies/scrut/outcome"
)

// outcomeDTO is the serializable projection of an outcome.Outcome: the
// aggregate itself carries an escaper.Escaper and unexported fields that
// don't translate to a wire format, so structured renderers marshal this
// instead. Grounded on original_source/src/renderers/structured.rs, which
// derives Serialize directly on Outcome; Go has no derive macros, so the
// projection is explicit here.
type outcomeDTO struct {
	Location        string    `json:"location,omitempty" yaml:"location,omitempty" cbor:"location,omitempty"`
	Title           string    `json:"title,omitempty" yaml:"title,omitempty" cbor:"title,omitempty"`
	LineNumber      int       `json:"line_number" yaml:"line_number" cbor:"line_number"`
	ShellExpression string    `json:"shell_expression" yaml:"shell_expression" cbor:"shell_expression"`
	Success         bool      `json:"success" yaml:"success" cbor:"success"`
	ExitStatus      string    `json:"exit_status" yaml:"exit_status" cbor:"exit_status"`
	ExitCode        int       `json:"exit_code" yaml:"exit_code" cbor:"exit_code"`
	Stdout          string    `json:"stdout,omitempty" yaml:"stdout,omitempty" cbor:"stdout,omitempty"`
	Stderr          string    `json:"stderr,omitempty" yaml:"stderr,omitempty" cbor:"stderr,omitempty"`
	Error           *errorDTO `json:"error,omitempty" yaml:"error,omitempty" cbor:"error,omitempty"`
}

type errorDTO struct {
	Kind             string `json:"kind" yaml:"kind" cbor:"kind"`
	Message          string `json:"message" yaml:"message" cbor:"message"`
	ActualExitCode   *int   `json:"actual_exit_code,omitempty" yaml:"actual_exit_code,omitempty" cbor:"actual_exit_code,omitempty"`
	ExpectedExitCode *int   `json:"expected_exit_code,omitempty" yaml:"expected_exit_code,omitempty" cbor:"expected_exit_code,omitempty"`
}

func toDTO(o outcome.Outcome) outcomeDTO {
	dto := outcomeDTO{
		Title:           o.TestCase.Title,
		LineNumber:      o.TestCase.LineNumber,
		ShellExpression: o.TestCase.ShellExpression,
		Success:         o.Success(),
		ExitStatus:      o.Output.ExitCode.String(),
		ExitCode:        o.Output.ExitCode.AsCode(),
		Stdout:          string(o.Output.Stdout.Bytes),
		Stderr:          string(o.Output.Stderr.Bytes),
	}
	if o.Location != nil {
		dto.Location = o.Location.String()
	}
	if o.Result != nil {
		dto.Error = toErrorDTO(o.Result)
	}
	return dto
}

func toErrorDTO(err *outcome.TestCaseError) *errorDTO {
	e := &errorDTO{Message: err.Error()}
	switch {
	case err.IsSkipped():
		e.Kind = "skipped"
	default:
		if _, ok := err.Diff(); ok {
			e.Kind = "malformed_output"
		} else if actual, expected, ok := err.ExitCodes(); ok {
			e.Kind = "invalid_exit_code"
			e.ActualExitCode = &actual
			e.ExpectedExitCode = &expected
		} else {
			e.Kind = "internal"
		}
	}
	return e
}

func toDTOs(outcomes []outcome.Outcome) []outcomeDTO {
	dtos := make([]outcomeDTO, len(outcomes))
	for i, o := range outcomes {
		dtos[i] = toDTO(o)
	}
	return dtos
}

// JSONRenderer renders outcomes as a JSON array, matching
// original_source/src/renderers/structured.rs's JsonRenderer.
type JSONRenderer struct {
	Pretty bool
}

// NewJSONRenderer returns a JSONRenderer, indenting output when pretty.
func NewJSONRenderer(pretty bool) *JSONRenderer {
	return &JSONRenderer{Pretty: pretty}
}

// Render implements Renderer.
func (r *JSONRenderer) Render(outcomes []outcome.Outcome) (string, error) {
	dtos := toDTOs(outcomes)
	var b []byte
	var err error
	if r.Pretty {
		b, err = json.MarshalIndent(dtos, "", "  ")
	} else {
		b, err = json.Marshal(dtos)
	}
	if err != nil {
		return "", fmt.Errorf("render json: %w", err)
	}
	return string(b), nil
}

// YAMLRenderer renders outcomes as a YAML document, matching
// original_source/src/renderers/structured.rs's YamlRenderer.
type YAMLRenderer struct{}

// NewYAMLRenderer returns a YAMLRenderer.
func NewYAMLRenderer() *YAMLRenderer { return &YAMLRenderer{} }

// Render implements Renderer.
func (r *YAMLRenderer) Render(outcomes []outcome.Outcome) (string, error) {
	b, err := yaml.Marshal(toDTOs(outcomes))
	if err != nil {
		return "", fmt.Errorf("render yaml: %w", err)
	}
	return string(b), nil
}

// CBORRenderer renders outcomes as a raw, canonically encoded CBOR byte
// sequence, for tooling that wants a compact, self-describing binary
// structured format. Not present in the original
// (which only ships JSON/YAML); added because the teacher's own
// `core/planfmt/canonical.go` already depends on
// github.com/fxamacker/cbor/v2 for exactly this kind of structured-result
// encoding, and the pack's own stack is to be exercised wherever it fits.
type CBORRenderer struct{}

// NewCBORRenderer returns a CBORRenderer.
func NewCBORRenderer() *CBORRenderer { return &CBORRenderer{} }

// Render implements Renderer. Output is the raw CBOR encoding; callers that
// need text (e.g. writing to a terminal) should base64 or hex-encode it
// themselves, matching how canonical.go treats its own CBOR payloads as
// opaque bytes rather than text. Uses the canonical encoding mode, the same
// one core/planfmt/canonical.go reaches for, so the same outcomes always
// encode to the same bytes.
func (r *CBORRenderer) Render(outcomes []outcome.Outcome) (string, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return "", fmt.Errorf("create cbor encoder: %w", err)
	}
	b, err := encMode.Marshal(toDTOs(outcomes))
	if err != nil {
		return "", fmt.Errorf("render cbor: %w", err)
	}
	return string(b), nil
}
