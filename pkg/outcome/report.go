package outcome

// Kind distinguishes single-shot reports from parameterized ones.
type Kind int

const (
	// KindSingle is the report of a test invoked once.
	KindSingle Kind = iota
	// KindParameterized is the report of a test invoked once per input value.
	KindParameterized
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindParameterized:
		return "parameterized"
	}
	return "unknown"
}

// Report is the full result of a test entry: one Outcome for a single test,
// or one Outcome per input for a parameterized test, in input order.
type Report struct {
	kind     Kind
	outcomes []Outcome
}

// Single wraps one Outcome.
func Single(o Outcome) Report {
	return Report{kind: KindSingle, outcomes: []Outcome{o}}
}

// Parameterized wraps the ordered outcomes of a parameterized test. The slice
// is copied so later changes by the caller are not observed.
func Parameterized(outcomes []Outcome) Report {
	cp := make([]Outcome, len(outcomes))
	copy(cp, outcomes)
	return Report{kind: KindParameterized, outcomes: cp}
}

// Kind returns whether the report is single or parameterized.
func (r Report) Kind() Kind { return r.kind }

// Outcomes returns a copy of the report's outcomes in order.
func (r Report) Outcomes() []Outcome {
	cp := make([]Outcome, len(r.outcomes))
	copy(cp, r.outcomes)
	return cp
}

// Len returns the number of outcomes in the report.
func (r Report) Len() int { return len(r.outcomes) }

// At returns the i-th outcome.
func (r Report) At(i int) Outcome { return r.outcomes[i] }

// Outcome returns the outcome of a single report. For a parameterized report
// it returns the first failure, or Pass if every input succeeded.
func (r Report) Outcome() Outcome {
	for _, o := range r.outcomes {
		if o.Failed() {
			return o
		}
	}
	return Pass()
}

// Passed reports whether every outcome in the report is a success.
func (r Report) Passed() bool {
	return r.Outcome().Success()
}

// Failures counts failed outcomes.
func (r Report) Failures() int {
	n := 0
	for _, o := range r.outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// TestResult pairs a test entry's name with the report it produced.
type TestResult struct {
	Name   string
	Report Report
}

// Passed reports whether every outcome of the result succeeded.
func (r TestResult) Passed() bool { return r.Report.Passed() }
