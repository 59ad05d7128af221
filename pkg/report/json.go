package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/ormasoftchile/extel/pkg/outcome"
)

// Document is the top-level JSON structure for extel run --json.
type Document struct {
	RunID   string          `json:"run_id"`
	Suites  []SuiteDocument `json:"suites"`
	Summary Summary         `json:"summary"`
}

// SuiteDocument holds the results of one suite.
type SuiteDocument struct {
	Suite   string           `json:"suite"`
	Results []ResultDocument `json:"results"`
	Summary Summary          `json:"summary"`
}

// ResultDocument is the JSON form of a TestResult.
type ResultDocument struct {
	Ordinal  int               `json:"ordinal"`
	Name     string            `json:"name"`
	Kind     string            `json:"kind"`
	Passed   bool              `json:"passed"`
	Outcomes []OutcomeDocument `json:"outcomes"`
}

// OutcomeDocument is the JSON form of an Outcome.
type OutcomeDocument struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// NewDocument starts a document with a fresh run ID.
func NewDocument() *Document {
	return &Document{RunID: uuid.NewString(), Suites: []SuiteDocument{}}
}

// AddSuite appends a suite's results and updates the overall summary.
func (d *Document) AddSuite(suite string, results []outcome.TestResult) {
	sd := SuiteDocument{
		Suite:   suite,
		Results: make([]ResultDocument, 0, len(results)),
		Summary: Summarize(results),
	}
	for i, r := range results {
		rd := ResultDocument{
			Ordinal: i + 1,
			Name:    r.Name,
			Kind:    r.Report.Kind().String(),
			Passed:  r.Passed(),
		}
		for _, o := range r.Report.Outcomes() {
			rd.Outcomes = append(rd.Outcomes, OutcomeDocument{Passed: o.Success(), Message: o.Message()})
		}
		sd.Results = append(sd.Results, rd)
	}
	d.Suites = append(d.Suites, sd)
	d.Summary = d.Summary.Add(sd.Summary)
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
