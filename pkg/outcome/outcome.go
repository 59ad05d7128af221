// Package outcome defines the result model for extel tests: the Outcome of a
// single invocation and the Report of a whole test entry.
package outcome

import "fmt"

// Outcome is the success or failure of one test invocation.
// The zero value is a success.
type Outcome struct {
	failed  bool
	message string
}

// Pass returns a successful Outcome.
func Pass() Outcome {
	return Outcome{}
}

// Fail returns a failed Outcome carrying an already rendered message.
func Fail(message string) Outcome {
	return Outcome{failed: true, message: message}
}

// Failf is Fail with fmt.Sprintf formatting.
func Failf(format string, args ...any) Outcome {
	return Fail(fmt.Sprintf(format, args...))
}

// FromCondition returns Pass if cond holds, else Fail(message).
func FromCondition(cond bool, message string) Outcome {
	if cond {
		return Pass()
	}
	return Fail(message)
}

// Assert returns Pass if cond holds. Otherwise the failure message is built
// from source, the literal text of the condition as written by the caller:
// "[x == y] assertion failed".
func Assert(cond bool, source string) Outcome {
	return FromCondition(cond, defaultMessage(source))
}

// Assertf is FromCondition with a formatted failure message. The message is
// only rendered when cond is false.
func Assertf(cond bool, format string, args ...any) Outcome {
	if cond {
		return Pass()
	}
	return Failf(format, args...)
}

func defaultMessage(source string) string {
	return fmt.Sprintf("[%s] assertion failed", source)
}

// Success reports whether o is a success.
func (o Outcome) Success() bool { return !o.failed }

// Failed reports whether o is a failure.
func (o Outcome) Failed() bool { return o.failed }

// Message returns the failure message, or "" for a success.
func (o Outcome) Message() string { return o.message }

// Err converts a failed Outcome back into a *TestFailed error. It returns nil
// for a success.
func (o Outcome) Err() error {
	if !o.failed {
		return nil
	}
	return &TestFailed{Message: o.message}
}

func (o Outcome) String() string {
	if !o.failed {
		return "ok"
	}
	return "FAILED: " + o.message
}
