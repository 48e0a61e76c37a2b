// Package diff implements the alignment algorithm between a list of
// expectations and the actual lines of command output. It is the hard part
// of scrut: a dual-cursor walk that greedily matches multiline runs while
// letting a more specific upcoming expectation preempt a greedy one, and
// that treats "a future expectation matches" as always preferable to "a
// future line matches" when neither the current line nor expectation agree.
// Grounded on original_source/src/diff.rs.
package diff

import (
	"github.com/aledsdavies/scrut/expectation"
)

// Line is one rendered entry of a Diff: either a run of output lines matched
// by an expectation, an expectation that found no match, or a run of output
// lines for which no expectation exists.
type Line struct {
	Kind Kind

	// Index is the expectation's position in the original expectation list.
	// Valid for KindMatched and KindUnmatched.
	Index int
	// Expectation is the expectation involved. Valid for KindMatched and
	// KindUnmatched.
	Expectation expectation.Expectation
	// Lines are the (index, raw bytes) pairs of output lines involved. Valid
	// for KindMatched and KindUnexpected.
	Lines []OutputLine
}

// OutputLine pairs a zero-based output line index with its raw bytes.
type OutputLine struct {
	Index int
	Bytes []byte
}

// Kind discriminates the three Line variants.
type Kind int

const (
	KindMatched Kind = iota
	KindUnmatched
	KindUnexpected
)

// Diff is the result of comparing expectations against output.
type Diff struct {
	Lines []Line

	CountMatched     int
	CountUnmatched   int
	CountOutputLines int
}

// New computes summary counters over lines and returns the Diff.
func New(lines []Line) Diff {
	d := Diff{Lines: lines}
	for _, l := range lines {
		switch l.Kind {
		case KindMatched:
			d.CountMatched++
			d.CountOutputLines += len(l.Lines)
		case KindUnmatched:
			d.CountUnmatched++
		case KindUnexpected:
			d.CountOutputLines += len(l.Lines)
		}
	}
	return d
}

// HasDifferences reports whether any line is not a full match.
func (d Diff) HasDifferences() bool {
	for _, l := range d.Lines {
		if l.Kind != KindMatched {
			return true
		}
	}
	return false
}

// Tool compares output against a fixed list of expectations.
type Tool struct {
	Expectations []expectation.Expectation
}

// NewTool constructs a Tool from the provided expectations.
func NewTool(expectations []expectation.Expectation) Tool {
	return Tool{Expectations: expectations}
}

// splitLines splits output at '\n', keeping the trailing newline attached to
// each line except (possibly) the last, matching Rust's split_at_newline.
func splitLines(output []byte) [][]byte {
	if len(output) == 0 {
		return nil
	}
	var lines [][]byte
	start := 0
	for i := 0; i < len(output); i++ {
		if output[i] == '\n' {
			lines = append(lines, output[start:i+1])
			start = i + 1
		}
	}
	if start < len(output) {
		lines = append(lines, output[start:])
	}
	return lines
}

// Diff compares output against t.Expectations and returns the alignment.
func (t Tool) Diff(output []byte) Diff {
	lines := splitLines(output)
	toOutputLine := func(i int) OutputLine {
		return OutputLine{Index: i, Bytes: append([]byte(nil), lines[i]...)}
	}

	expectationIndex := 0
	lineIndex := 0
	var diffs []Line
	matchStart := -1 // -1 means "unset", mirroring Rust's Option<usize>

	for expectationIndex < len(t.Expectations) && lineIndex < len(lines) {
		exp := t.Expectations[expectationIndex]
		var nextExp *expectation.Expectation
		if expectationIndex+1 < len(t.Expectations) {
			nextExp = &t.Expectations[expectationIndex+1]
		}
		line := lines[lineIndex]

		if exp.Matches(line) {
			if exp.Multiline {
				if nextExp != nil && (exp.Optional || matchStart != -1) && nextExp.Matches(line) {
					if matchStart != -1 {
						diffs = append(diffs, Line{
							Kind:        KindMatched,
							Index:       expectationIndex,
							Expectation: exp,
							Lines:       outputRange(toOutputLine, matchStart, lineIndex),
						})
					}
					expectationIndex++
					matchStart = -1
					continue
				}

				if matchStart == -1 {
					matchStart = lineIndex
				}
				lineIndex++
				continue
			}

			diffs = append(diffs, Line{
				Kind:        KindMatched,
				Index:       expectationIndex,
				Expectation: exp,
				Lines:       []OutputLine{toOutputLine(lineIndex)},
			})
			lineIndex++
			expectationIndex++
			continue
		}

		if matchStart != -1 {
			diffs = append(diffs, Line{
				Kind:        KindMatched,
				Index:       expectationIndex,
				Expectation: exp,
				Lines:       outputRange(toOutputLine, matchStart, lineIndex),
			})
			matchStart = -1
			expectationIndex++
			continue
		}
		matchStart = -1

		switch kind, idx := t.peekMatch(lineIndex, lines, expectationIndex); kind {
		case peekNextExpectation:
			for i := expectationIndex; i < idx; i++ {
				if !t.Expectations[i].Optional {
					diffs = append(diffs, Line{Kind: KindUnmatched, Index: i, Expectation: t.Expectations[i]})
				}
			}
			expectationIndex = idx

		case peekNextLine:
			diffs = append(diffs, Line{Kind: KindUnexpected, Lines: outputRange(toOutputLine, lineIndex, idx)})
			lineIndex = idx

		default:
			if !exp.Optional {
				diffs = append(diffs, Line{Kind: KindUnmatched, Index: expectationIndex, Expectation: exp})
			}
			expectationIndex++
		}
	}

	if matchStart != -1 {
		diffs = append(diffs, Line{
			Kind:        KindMatched,
			Index:       expectationIndex,
			Expectation: t.Expectations[expectationIndex],
			Lines:       outputRange(toOutputLine, matchStart, lineIndex),
		})
		expectationIndex++
	}

	if expectationIndex < len(t.Expectations) {
		for i := expectationIndex; i < len(t.Expectations); i++ {
			if !t.Expectations[i].Optional {
				diffs = append(diffs, Line{Kind: KindUnmatched, Index: i, Expectation: t.Expectations[i]})
			}
		}
	}

	if lineIndex < len(lines) {
		diffs = append(diffs, Line{Kind: KindUnexpected, Lines: outputRange(toOutputLine, lineIndex, len(lines))})
	}

	return New(diffs)
}

func outputRange(toOutputLine func(int) OutputLine, from, to int) []OutputLine {
	out := make([]OutputLine, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, toOutputLine(i))
	}
	return out
}

type peekKind int

const (
	peekNone peekKind = iota
	peekNextExpectation
	peekNextLine
)

// peekMatch looks for whichever is closer: a future expectation that
// matches the current line, or a future line that matches the current
// expectation. A future expectation always wins when both exist.
func (t Tool) peekMatch(currentLineIndex int, lines [][]byte, currentExpectationIndex int) (peekKind, int) {
	if idx, ok := t.peekMatchingExpectation(lines[currentLineIndex], currentExpectationIndex+1); ok {
		return peekNextExpectation, idx
	}
	if idx, ok := t.peekMatchingLine(t.Expectations[currentExpectationIndex], currentLineIndex+1, lines); ok {
		return peekNextLine, idx
	}
	return peekNone, 0
}

func (t Tool) peekMatchingLine(exp expectation.Expectation, startLineIndex int, lines [][]byte) (int, bool) {
	for i := startLineIndex; i < len(lines); i++ {
		if exp.Matches(lines[i]) {
			return i, true
		}
	}
	return 0, false
}

func (t Tool) peekMatchingExpectation(line []byte, startExpectationIndex int) (int, bool) {
	for i := startExpectationIndex; i < len(t.Expectations); i++ {
		if t.Expectations[i].Matches(line) {
			return i, true
		}
	}
	return 0, false
}
