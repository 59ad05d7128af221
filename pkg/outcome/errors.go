package outcome

import "fmt"

// TestFailed is the only domain error kind. Test bodies that return errors
// use it to signal an explicit failure; every other error is passed through
// and rendered with its Error method.
type TestFailed struct {
	Message string
}

func (e *TestFailed) Error() string { return e.Message }

// Errorf builds a *TestFailed with a formatted message.
func Errorf(format string, args ...any) error {
	return &TestFailed{Message: fmt.Sprintf(format, args...)}
}

// FromError converts the error returned by a test body into an Outcome.
// nil is a success. A *TestFailed renders as its bare message, and wrapped
// lower-level errors keep the context added while propagating.
func FromError(err error) Outcome {
	if err == nil {
		return Pass()
	}
	return Fail(err.Error())
}

// Run invokes an error-returning test body and converts its result.
func Run(body func() error) Outcome {
	return FromError(body())
}
