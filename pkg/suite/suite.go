// Package suite runs ordered collections of named tests and streams their
// formatted results.
package suite

import (
	"fmt"

	"github.com/ormasoftchile/extel/pkg/logging"
	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/ormasoftchile/extel/pkg/param"
	"github.com/ormasoftchile/extel/pkg/report"
	"go.uber.org/zap"
)

// Entry is a named test registered in a suite.
type Entry struct {
	Name   string
	Invoke func() outcome.Report
}

// Test registers a single test.
func Test(name string, fn func() outcome.Outcome) Entry {
	return Entry{Name: name, Invoke: func() outcome.Report {
		return outcome.Single(fn())
	}}
}

// TestErr registers a single test whose body returns an error; see
// outcome.FromError.
func TestErr(name string, fn func() error) Entry {
	return Entry{Name: name, Invoke: func() outcome.Report {
		return outcome.Single(outcome.Run(fn))
	}}
}

// Parameterized registers fn to run once per input.
func Parameterized[T any](name string, fn func(T) outcome.Outcome, inputs ...T) Entry {
	return Entry{Name: name, Invoke: param.Expand(fn, inputs...)}
}

// Config controls where and how results are reported.
type Config struct {
	Output  Destination // nil behaves like None
	Colored bool
	Logger  *zap.Logger // nil disables logging
}

// DefaultConfig streams colored output to stdout.
func DefaultConfig() Config {
	return Config{Output: Stdout(), Colored: true}
}

// Suite is an ordered, immutable collection of entries.
type Suite struct {
	name    string
	entries []Entry
}

// New creates a suite. Entries run in the order given.
func New(name string, entries ...Entry) *Suite {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Suite{name: name, entries: cp}
}

// Name returns the suite name used in the report header.
func (s *Suite) Name() string { return s.name }

// Len returns the number of registered entries.
func (s *Suite) Len() int { return len(s.entries) }

// Entries returns a copy of the registered entries.
func (s *Suite) Entries() []Entry {
	cp := make([]Entry, len(s.entries))
	copy(cp, s.entries)
	return cp
}

// Run executes every entry in registration order and returns one result per
// entry, in the same order. When cfg.Output is active the suite header is
// written first and each result is written as soon as its test returns.
//
// Test failures are data: Run only fails when the destination cannot be
// opened, in which case no test runs. A panicking test is recorded as a
// failure of that test.
func (s *Suite) Run(cfg Config) ([]outcome.TestResult, error) {
	log := logging.OrNop(cfg.Logger).With(zap.String("suite", s.name))

	out, err := openStream(cfg.Output, log)
	if err != nil {
		return nil, err
	}
	defer out.close()

	out.emit(report.Header(s.name))

	results := make([]outcome.TestResult, 0, len(s.entries))
	for i, e := range s.entries {
		ordinal := i + 1
		log.Debug("running test", zap.Int("ordinal", ordinal), zap.String("test", e.Name))

		result := outcome.TestResult{Name: e.Name, Report: invoke(e)}
		out.emit(report.Format(result, ordinal, cfg.Colored))
		results = append(results, result)

		log.Debug("test finished",
			zap.Int("ordinal", ordinal),
			zap.String("test", e.Name),
			zap.Bool("passed", result.Passed()))
	}
	return results, nil
}

func invoke(e Entry) (r outcome.Report) {
	defer func() {
		if p := recover(); p != nil {
			r = outcome.Single(outcome.Failf("panic: %v", p))
		}
	}()
	if e.Invoke == nil {
		return outcome.Single(outcome.Fail("test has no body"))
	}
	return e.Invoke()
}

// Run is shorthand for New(name, entries...).Run(cfg).
func Run(name string, cfg Config, entries ...Entry) ([]outcome.TestResult, error) {
	return New(name, entries...).Run(cfg)
}

// SuiteResult is the output of one suite in a Set run.
type SuiteResult struct {
	Suite   string
	Results []outcome.TestResult
}

// Set is an ordered list of suites run one after another with the same
// configuration.
type Set []*Suite

// RunAll runs each suite in order. The destination is opened once and shared,
// so a File destination collects every suite instead of keeping only the
// last one.
func (set Set) RunAll(cfg Config) ([]SuiteResult, error) {
	log := logging.OrNop(cfg.Logger)
	if cfg.Output != nil {
		wc, err := cfg.Output.Open()
		if err != nil {
			return nil, fmt.Errorf("open output %s: %w", cfg.Output, err)
		}
		if wc == nil {
			cfg.Output = None()
		} else {
			defer func() {
				if err := wc.Close(); err != nil {
					log.Error("closing test output failed", zap.Error(err))
				}
			}()
			cfg.Output = Writer(wc)
		}
	}

	out := make([]SuiteResult, 0, len(set))
	for _, s := range set {
		results, err := s.Run(cfg)
		if err != nil {
			return out, fmt.Errorf("suite %s: %w", s.Name(), err)
		}
		out = append(out, SuiteResult{Suite: s.Name(), Results: results})
	}
	return out, nil
}
