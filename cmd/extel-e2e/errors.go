package main

import (
	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/ormasoftchile/extel/pkg/suite"
)

type unsupportedError struct{}

func (unsupportedError) Error() string { return "this is an error" }

func lookup(supported bool) (int, error) {
	if !supported {
		return 0, unsupportedError{}
	}
	return 0, nil
}

// unsupportedErrorTest converts a foreign error into a test failure.
func unsupportedErrorTest() error {
	res, err := lookup(true)
	if err != nil {
		return outcome.Errorf("%v", err)
	}
	return outcome.Assert(res == 0, "res == 0").Err()
}

// UnsupportedErrorTestSuite wraps an arbitrary error type into a failure.
func UnsupportedErrorTestSuite() *suite.Suite {
	return suite.New("UnsupportedErrorTestSuite",
		suite.TestErr("unsupported_error", unsupportedErrorTest),
	)
}
