package diff_test

import (
	"testing"

	"github.com/aledsdavies/scrut/diff"
	"github.com/aledsdavies/scrut/expectation"
	"github.com/aledsdavies/scrut/rule"
)

func mustExpectation(t *testing.T, kind, expr string, optional, multiline bool) expectation.Expectation {
	t.Helper()
	m := expectation.NewMaker(rule.DefaultRegistry())
	original := expr
	if kind != "equal" {
		original = expr + " (" + kind + ")"
	}
	e, err := m.Make(kind, expr, optional, multiline, original)
	if err != nil {
		t.Fatalf("make expectation: %v", err)
	}
	return e
}

func TestExactMatch(t *testing.T) {
	tool := diff.NewTool([]expectation.Expectation{mustExpectation(t, "equal", "foo", false, false)})
	d := tool.Diff([]byte("foo\n"))
	if d.HasDifferences() {
		t.Fatalf("expected no differences, got %+v", d.Lines)
	}
	if len(d.Lines) != 1 || d.Lines[0].Kind != diff.KindMatched {
		t.Fatalf("expected single matched line, got %+v", d.Lines)
	}
}

func TestExactNoMatch(t *testing.T) {
	tool := diff.NewTool([]expectation.Expectation{mustExpectation(t, "equal", "bar", false, false)})
	d := tool.Diff([]byte("foo\n"))
	if !d.HasDifferences() {
		t.Fatal("expected differences")
	}
}

func TestQuantifiersOptional(t *testing.T) {
	tests := []struct {
		name         string
		expectations []expectation.Expectation
		lines        []byte
		wantMatch    bool
	}{
		{
			"required-missing",
			[]expectation.Expectation{mustExpectation(t, "equal", "foo", false, false)},
			nil,
			false,
		},
		{
			"required-present",
			[]expectation.Expectation{mustExpectation(t, "equal", "foo", false, false)},
			[]byte("foo\n"),
			true,
		},
		{
			"optional-missing",
			[]expectation.Expectation{mustExpectation(t, "equal", "foo", true, false)},
			nil,
			true,
		},
		{
			"optional-present",
			[]expectation.Expectation{mustExpectation(t, "equal", "foo", true, false)},
			[]byte("foo\n"),
			true,
		},
		{
			"all-required-present",
			[]expectation.Expectation{
				mustExpectation(t, "equal", "foo", false, false),
				mustExpectation(t, "equal", "bar", false, false),
				mustExpectation(t, "equal", "baz", false, false),
			},
			[]byte("foo\nbar\nbaz\n"),
			true,
		},
		{
			"all-optional-present",
			[]expectation.Expectation{
				mustExpectation(t, "equal", "foo", true, false),
				mustExpectation(t, "equal", "bar", true, false),
				mustExpectation(t, "equal", "baz", true, false),
			},
			[]byte("foo\nbar\nbaz\n"),
			true,
		},
		{
			"first-optional-absent",
			[]expectation.Expectation{
				mustExpectation(t, "equal", "foo", true, false),
				mustExpectation(t, "equal", "bar", true, false),
				mustExpectation(t, "equal", "baz", true, false),
			},
			[]byte("bar\nbaz\n"),
			true,
		},
		{
			"middle-optional-absent",
			[]expectation.Expectation{
				mustExpectation(t, "equal", "foo", true, false),
				mustExpectation(t, "equal", "bar", true, false),
				mustExpectation(t, "equal", "baz", true, false),
			},
			[]byte("foo\nbaz\n"),
			true,
		},
		{
			"last-optional-absent",
			[]expectation.Expectation{
				mustExpectation(t, "equal", "foo", true, false),
				mustExpectation(t, "equal", "bar", true, false),
				mustExpectation(t, "equal", "baz", true, false),
			},
			[]byte("foo\nbar\n"),
			true,
		},
		{
			"all-optional-absent",
			[]expectation.Expectation{
				mustExpectation(t, "equal", "foo", true, false),
				mustExpectation(t, "equal", "bar", true, false),
				mustExpectation(t, "equal", "baz", true, false),
			},
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diff.NewTool(tt.expectations).Diff(tt.lines)
			if got := !d.HasDifferences(); got != tt.wantMatch {
				t.Errorf("HasDifferences() -> match=%v, want %v; lines=%+v", got, tt.wantMatch, d.Lines)
			}
		})
	}
}

func TestMultilineMorePreciseExpectationPreempts(t *testing.T) {
	expectations := []expectation.Expectation{
		mustExpectation(t, "equal", "foo", false, true),
		mustExpectation(t, "equal", "foo", false, false),
	}
	tool := diff.NewTool(expectations)
	d := tool.Diff([]byte("foo\nfoo\n"))
	if d.HasDifferences() {
		t.Fatalf("expected no differences, got %+v", d.Lines)
	}
	if len(d.Lines) != 2 {
		t.Fatalf("expected 2 matched groups, got %d: %+v", len(d.Lines), d.Lines)
	}
	if len(d.Lines[0].Lines) != 1 {
		t.Errorf("expected the multiline expectation to stop at 1 line, got %d", len(d.Lines[0].Lines))
	}
}

func TestUnexpectedLinesBetweenMatches(t *testing.T) {
	expectations := []expectation.Expectation{
		mustExpectation(t, "equal", "foo1", false, false),
		mustExpectation(t, "equal", "bar", false, false),
	}
	tool := diff.NewTool(expectations)
	d := tool.Diff([]byte("bla\nfoo1\nfoo2\nfoo3\nbar\n"))
	if !d.HasDifferences() {
		t.Fatalf("expected differences, since unexpected lines are present, got %+v", d.Lines)
	}
	var kinds []diff.Kind
	for _, l := range d.Lines {
		kinds = append(kinds, l.Kind)
	}
	want := []diff.Kind{diff.KindUnexpected, diff.KindMatched, diff.KindUnexpected, diff.KindMatched}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
