// Package param lifts single-argument test functions over a fixed list of
// inputs.
package param

import "github.com/ormasoftchile/extel/pkg/outcome"

// Expand returns a thunk that calls fn once per input, in order, and collects
// the outcomes into a parameterized report. A failing input never stops the
// remaining inputs from running; outcome k always belongs to input k.
func Expand[T any](fn func(T) outcome.Outcome, inputs ...T) func() outcome.Report {
	in := make([]T, len(inputs))
	copy(in, inputs)
	return func() outcome.Report {
		outcomes := make([]outcome.Outcome, len(in))
		for i, v := range in {
			outcomes[i] = fn(v)
		}
		return outcome.Parameterized(outcomes)
	}
}

// ExpandErr is Expand for error-returning test bodies.
func ExpandErr[T any](fn func(T) error, inputs ...T) func() outcome.Report {
	return Expand(func(v T) outcome.Outcome {
		return outcome.FromError(fn(v))
	}, inputs...)
}
