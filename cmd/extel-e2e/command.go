package main

import (
	"context"

	"github.com/ormasoftchile/extel/pkg/command"
	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/ormasoftchile/extel/pkg/suite"
)

var executor command.Executor = &command.RealExecutor{}

func echo(x string) outcome.Outcome {
	res, err := command.New(`echo -n "{}"`, x).Run(context.Background(), executor)
	if err != nil {
		return outcome.FromError(err)
	}
	got := res.StdoutString()
	return outcome.Assertf(got == x, "expected '%s', got '%s'", x, got)
}

// CommandTestSuite round-trips quoted arguments through echo.
func CommandTestSuite() *suite.Suite {
	return suite.New("CommandTestSuite",
		suite.Parameterized("echo", echo, "hello world", "viva las vegas", "extel's working!"),
	)
}
