package outcome

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Expect evaluates a boolean expr-lang expression against env. The expression
// text doubles as the condition source, so a false result fails with
// "[<expression>] assertion failed". Compile and evaluation errors fail the
// outcome with the rendered error instead.
//
//	outcome.Expect(`exit_code == 0 && stdout contains "hello"`, env)
func Expect(expression string, env map[string]any) Outcome {
	ok, err := EvalCondition(expression, env)
	if err != nil {
		return Fail(err.Error())
	}
	return Assert(ok, strings.TrimSpace(expression))
}

// EvalCondition compiles and runs a boolean expression. An empty expression
// is true.
func EvalCondition(expression string, env map[string]any) (bool, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return true, nil
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile condition %q: %w", expression, err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval condition %q: %w", expression, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return bool (got %T: %v)", expression, output, output)
	}
	return result, nil
}

// CompileCondition checks that expression compiles against env without
// running it.
func CompileCondition(expression string, env map[string]any) error {
	if strings.TrimSpace(expression) == "" {
		return nil
	}
	if _, err := expr.Compile(expression, expr.Env(env), expr.AsBool()); err != nil {
		return fmt.Errorf("compile condition %q: %w", expression, err)
	}
	return nil
}
