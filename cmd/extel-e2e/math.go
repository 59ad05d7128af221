package main

import (
	"math"

	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/ormasoftchile/extel/pkg/suite"
)

func perfectSqrt(x float64) outcome.Outcome {
	sqrt := math.Sqrt(x)
	return outcome.Assertf(sqrt == math.Floor(sqrt), "%v is not a perfect square", x)
}

func calculateRatio(x, y float64) float64 {
	return (x + y) / y
}

func calculate() outcome.Outcome {
	result := calculateRatio(10, 2)
	return outcome.Assertf(result > 0, "value of calculateRatio(10, 2) <= 0: got %v", result)
}

// MathTestSuite checks numeric helpers; two of the perfect_sqrt inputs fail
// on purpose.
func MathTestSuite() *suite.Suite {
	return suite.New("MathTestSuite",
		suite.Parameterized("perfect_sqrt", perfectSqrt, 4, 16, 30, 32),
		suite.Test("calculate", calculate),
	)
}
