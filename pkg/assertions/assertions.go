// Package assertions implements the output checks available to manifest
// tests: exit code, equality, substring, regex, JSON path and expression
// conditions.
package assertions

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ormasoftchile/extel/pkg/outcome"
)

// Result is the outcome of evaluating a single check.
type Result struct {
	Type     string `json:"type"` // exit_code, equals, not_equals, contains, not_contains, matches, stderr_contains, json_path, condition
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message"`
}

// Outcome converts the check into a test outcome; a failed check fails with
// its message.
func (r *Result) Outcome() outcome.Outcome {
	return outcome.FromCondition(r.Passed, r.Message)
}

// First returns the outcome of the first failed check, or Pass.
func First(results ...*Result) outcome.Outcome {
	for _, r := range results {
		if !r.Passed {
			return r.Outcome()
		}
	}
	return outcome.Pass()
}

// EvalExitCode checks if the actual exit code matches expected.
func EvalExitCode(actual, expected int) *Result {
	passed := actual == expected
	msg := fmt.Sprintf("exit code %d == %d", actual, expected)
	if !passed {
		msg = fmt.Sprintf("expected exit code %d, got %d", expected, actual)
	}
	return &Result{
		Type:     "exit_code",
		Expected: fmt.Sprintf("%d", expected),
		Actual:   fmt.Sprintf("%d", actual),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalEquals checks if output exactly equals expected.
func EvalEquals(output, expected string) *Result {
	passed := output == expected
	msg := fmt.Sprintf("output equals %q", expected)
	if !passed {
		msg = fmt.Sprintf("expected '%s', got '%s'", expected, truncate(output, 100))
	}
	return &Result{
		Type:     "equals",
		Expected: expected,
		Actual:   truncate(output, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalNotEquals checks that output does NOT exactly equal expected.
func EvalNotEquals(output, expected string) *Result {
	passed := output != expected
	msg := fmt.Sprintf("output does not equal %q", expected)
	if !passed {
		msg = fmt.Sprintf("output equals %q (unexpected)", expected)
	}
	return &Result{
		Type:     "not_equals",
		Expected: expected,
		Actual:   truncate(output, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalContains checks if output contains the expected substring.
func EvalContains(output, expected string) *Result {
	return contains("contains", "output", output, expected)
}

// EvalStderrContains checks if stderr contains the expected substring.
func EvalStderrContains(stderr, expected string) *Result {
	return contains("stderr_contains", "stderr", stderr, expected)
}

func contains(typ, subject, output, expected string) *Result {
	passed := strings.Contains(output, expected)
	msg := fmt.Sprintf("%s contains %q", subject, expected)
	if !passed {
		msg = fmt.Sprintf("%s does not contain %q", subject, expected)
	}
	return &Result{
		Type:     typ,
		Expected: expected,
		Actual:   truncate(output, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalNotContains checks that output does NOT contain the substring.
func EvalNotContains(output, expected string) *Result {
	passed := !strings.Contains(output, expected)
	msg := fmt.Sprintf("output does not contain %q", expected)
	if !passed {
		msg = fmt.Sprintf("output contains %q (unexpected)", expected)
	}
	return &Result{
		Type:     "not_contains",
		Expected: expected,
		Actual:   truncate(output, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalMatches checks if output matches the regex pattern.
func EvalMatches(output, pattern string) *Result {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &Result{
			Type:     "matches",
			Expected: pattern,
			Actual:   truncate(output, 200),
			Passed:   false,
			Message:  fmt.Sprintf("invalid regex: %v", err),
		}
	}
	passed := re.MatchString(output)
	msg := fmt.Sprintf("output matches /%s/", pattern)
	if !passed {
		msg = fmt.Sprintf("output does not match /%s/", pattern)
	}
	return &Result{
		Type:     "matches",
		Expected: pattern,
		Actual:   truncate(output, 200),
		Passed:   passed,
		Message:  msg,
	}
}

// EvalJSONPath extracts a value at a JSON path and compares to expected.
// Supports simple dot-notation paths like $.status.phase.
func EvalJSONPath(jsonOutput, path, expected string) *Result {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonOutput), &data); err != nil {
		return &Result{
			Type:     "json_path",
			Expected: expected,
			Actual:   truncate(jsonOutput, 200),
			Passed:   false,
			Message:  fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	actual, err := navigateJSONPath(data, path)
	if err != nil {
		return &Result{
			Type:     "json_path",
			Expected: expected,
			Actual:   "",
			Passed:   false,
			Message:  fmt.Sprintf("path %s: %v", path, err),
		}
	}

	actualStr := fmt.Sprintf("%v", actual)
	passed := actualStr == expected
	msg := fmt.Sprintf("json_path %s = %q", path, actualStr)
	if !passed {
		msg = fmt.Sprintf("json_path %s = %q, want %q", path, actualStr, expected)
	}
	return &Result{
		Type:     "json_path",
		Expected: expected,
		Actual:   actualStr,
		Passed:   passed,
		Message:  msg,
	}
}

// EvalCondition evaluates a boolean expr-lang expression against env. A false
// result fails with "[<expression>] assertion failed".
func EvalCondition(expression string, env map[string]any) *Result {
	o := outcome.Expect(expression, env)
	msg := fmt.Sprintf("condition %s holds", expression)
	if o.Failed() {
		msg = o.Message()
	}
	return &Result{
		Type:     "condition",
		Expected: expression,
		Passed:   o.Success(),
		Message:  msg,
	}
}

// navigateJSONPath navigates a simple JSON path ($.key1.key2).
func navigateJSONPath(data interface{}, path string) (interface{}, error) {
	path = strings.TrimPrefix(path, "$.")
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return data, nil
	}

	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected object at %q, got %T", part, current)
		}
		val, exists := m[part]
		if !exists {
			return nil, fmt.Errorf("key %q not found", part)
		}
		current = val
	}
	return current, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
