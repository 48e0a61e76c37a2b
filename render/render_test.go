package render_test

import (
	"strings"
	"testing"

	"github.com/aledsdavies/scrut/diff"
	"github.com/aledsdavies/scrut/escaper"
	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/outcome"
	"github.com/aledsdavies/scrut/render"
	"github.com/aledsdavies/scrut/rule"
	"github.com/aledsdavies/scrut/scrutcase"
)

func exp(t *testing.T, line string) expectation.Expectation {
	t.Helper()
	e, err := expectation.NewMaker(rule.DefaultRegistry()).Parse(line)
	if err != nil {
		t.Fatalf("parse expectation %q: %v", line, err)
	}
	return e
}

func successOutcome() outcome.Outcome {
	return outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "the title",
			ShellExpression: "the command",
			LineNumber:      3,
		},
		Output:  scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("the stdout\n")), ExitCode: scrutcase.Code(0)},
		Escaper: escaper.Default(),
	}
}

func failingOutcome(t *testing.T) outcome.Outcome {
	e := exp(t, "expected line")
	d := diff.New([]diff.Line{
		{Kind: diff.KindUnmatched, Index: 0, Expectation: e},
		{Kind: diff.KindUnexpected, Lines: []diff.OutputLine{{Index: 0, Bytes: []byte("actual line\n")}}},
	})
	return outcome.Outcome{
		TestCase: scrutcase.TestCase{
			Title:           "a failing test",
			ShellExpression: "the command",
			LineNumber:      10,
			Expectations:    []expectation.Expectation{e},
		},
		Output:   scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("actual line\n")), ExitCode: scrutcase.Code(0)},
		Result:   outcome.MalformedOutput(d),
		Location: &outcome.Location{Path: "test.t"},
		Escaper:  escaper.Default(),
	}
}

func TestPrettyRendererRendersFailureAndSummary(t *testing.T) {
	r := render.NewPrettyRenderer(false)
	got, err := r.Render([]outcome.Outcome{successOutcome(), failingOutcome(t)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "test.t:10") {
		t.Errorf("got:\n%s\nwant the location:line header", got)
	}
	if !strings.Contains(got, "a failing test") {
		t.Errorf("got:\n%s\nwant the title", got)
	}
	if !strings.Contains(got, "expected line") {
		t.Errorf("got:\n%s\nwant the unmatched expectation", got)
	}
	if !strings.Contains(got, "actual line") {
		t.Errorf("got:\n%s\nwant the unexpected output", got)
	}
	if !strings.Contains(got, "1 succeeded") || !strings.Contains(got, "1 failed") {
		t.Errorf("got:\n%s\nwant a 1/1 summary", got)
	}
}

func TestPrettyRendererSkipsSuccessOutcomes(t *testing.T) {
	r := render.NewPrettyRenderer(false)
	got, err := r.Render([]outcome.Outcome{successOutcome()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "the command") {
		t.Errorf("got:\n%s, success outcomes should not render a body", got)
	}
}

func TestPrettyRendererRendersInvalidExitCode(t *testing.T) {
	o := outcome.Outcome{
		TestCase: scrutcase.TestCase{ShellExpression: "exit 7", LineNumber: 1},
		Output:   scrutcase.Output{Stdout: scrutcase.NewOutputStream([]byte("out\n")), ExitCode: scrutcase.Code(7)},
		Result:   outcome.InvalidExitCode(7, 0),
		Escaper:  escaper.Default(),
	}
	r := render.NewPrettyRenderer(false)
	got, err := r.Render([]outcome.Outcome{o})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "expected: 0") || !strings.Contains(got, "actual:   7") {
		t.Errorf("got:\n%s, want expected/actual exit codes", got)
	}
}

func TestJSONRendererRoundTripsFields(t *testing.T) {
	r := render.NewJSONRenderer(false)
	got, err := r.Render([]outcome.Outcome{successOutcome()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, `"shell_expression":"the command"`) {
		t.Errorf("got:\n%s, want the shell expression field", got)
	}
	if !strings.Contains(got, `"success":true`) {
		t.Errorf("got:\n%s, want success:true", got)
	}
	if !strings.Contains(got, `"exit_code":0`) {
		t.Errorf("got:\n%s, want exit_code:0", got)
	}
}

func TestYAMLRendererRendersOutcomes(t *testing.T) {
	r := render.NewYAMLRenderer()
	got, err := r.Render([]outcome.Outcome{successOutcome()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "shell_expression: the command") {
		t.Errorf("got:\n%s, want the shell expression field", got)
	}
}

func TestCBORRendererEncodesWithoutError(t *testing.T) {
	r := render.NewCBORRenderer()
	got, err := r.Render([]outcome.Outcome{successOutcome(), failingOutcome(t)})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(got) == 0 {
		t.Errorf("want non-empty cbor output")
	}
}
