// Command extel-e2e registers suites in Go and runs them with the default
// configuration: colored results streamed to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/ormasoftchile/extel/pkg/suite"
)

func suites() suite.Set {
	return suite.Set{
		MathTestSuite(),
		CommandTestSuite(),
		Utf8TestSuite(),
		UnsupportedErrorTestSuite(),
	}
}

func main() {
	if _, err := suites().RunAll(suite.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "extel-e2e: %v\n", err)
		os.Exit(1)
	}
}
