package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ormasoftchile/extel/pkg/outcome"
)

// Summary counts individual outcomes across a run; a parameterized test
// contributes one count per input.
type Summary struct {
	Tests  int `json:"tests"`
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// OK reports whether nothing failed.
func (s Summary) OK() bool { return s.Failed == 0 }

// Add folds other into s.
func (s Summary) Add(other Summary) Summary {
	return Summary{
		Tests:  s.Tests + other.Tests,
		Total:  s.Total + other.Total,
		Passed: s.Passed + other.Passed,
		Failed: s.Failed + other.Failed,
	}
}

// Summarize aggregates results.
func Summarize(results []outcome.TestResult) Summary {
	s := Summary{Tests: len(results)}
	for _, r := range results {
		for _, o := range r.Report.Outcomes() {
			s.Total++
			if o.Success() {
				s.Passed++
			} else {
				s.Failed++
			}
		}
	}
	return s
}

// WriteSummary prints the totals of a suite run followed by a table of the
// failing tests, names padded to a common display width.
func WriteSummary(w io.Writer, suite string, results []outcome.TestResult) error {
	s := Summarize(results)
	if _, err := fmt.Fprintf(w, "\n  %s: %d tests, %d outcomes, %d passed, %d failed\n",
		suite, s.Tests, s.Total, s.Passed, s.Failed); err != nil {
		return err
	}

	type failure struct{ label, message string }
	var failures []failure
	width := 0
	for i, r := range results {
		outcomes := r.Report.Outcomes()
		for k, o := range outcomes {
			if o.Success() {
				continue
			}
			label := fmt.Sprintf("#%d %s", i+1, r.Name)
			if r.Report.Kind() == outcome.KindParameterized {
				label = fmt.Sprintf("#%d.%d %s", i+1, k+1, r.Name)
			}
			if lw := runewidth.StringWidth(label); lw > width {
				width = lw
			}
			failures = append(failures, failure{label, firstLine(o.Message())})
		}
	}

	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "    ✗ %s  %s\n", runewidth.FillRight(f.label, width), f.message); err != nil {
			return err
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
