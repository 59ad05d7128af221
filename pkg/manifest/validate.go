package manifest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ormasoftchile/extel/pkg/command"
	"github.com/ormasoftchile/extel/pkg/governance"
	"github.com/ormasoftchile/extel/pkg/outcome"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"`    // structural, semantic, domain
	Path     string `json:"path"`     // location such as "tests[2].expect.matches"
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// HasErrors returns true if errs contains any error (not just warnings).
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity != "warning" {
			return true
		}
	}
	return false
}

// FirstError returns the first non-warning error, or the first entry if all
// are warnings.
func FirstError(errs []*ValidationError) *ValidationError {
	for _, e := range errs {
		if e.Severity != "warning" {
			return e
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ValidateFile performs the full 3-phase validation pipeline on a manifest file.
// Phase 1: Structural (strict YAML decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (custom Go rules)
// Warnings do not block a manifest from running.
func ValidateFile(path string) (*Manifest, []*ValidationError) {
	m, err := LoadFile(path)
	if err != nil {
		return nil, []*ValidationError{{
			Phase:    "structural",
			Message:  err.Error(),
			Severity: "error",
		}}
	}
	return m, Validate(m)
}

// Validate runs the semantic and domain phases on a decoded manifest.
func Validate(m *Manifest) []*ValidationError {
	var all []*ValidationError
	all = append(all, validateSemantic(m)...)
	all = append(all, ValidateDomain(m)...)
	if len(all) == 0 {
		return nil
	}
	return all
}

func semanticError(format string, args ...any) []*ValidationError {
	return []*ValidationError{{
		Phase:    "semantic",
		Message:  fmt.Sprintf(format, args...),
		Severity: "error",
	}}
}

// validateSemantic validates the manifest against the generated JSON Schema.
func validateSemantic(m *Manifest) []*ValidationError {
	data, err := json.Marshal(m)
	if err != nil {
		return semanticError("marshal for schema validation: %v", err)
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return semanticError("generate schema: %v", err)
	}

	schemaDoc, err := sjsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return semanticError("unmarshal schema: %v", err)
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("suite-v0.json", schemaDoc); err != nil {
		return semanticError("add schema resource: %v", err)
	}

	sch, err := c.Compile("suite-v0.json")
	if err != nil {
		return semanticError("compile schema: %v", err)
	}

	doc, err := sjsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return semanticError("unmarshal document: %v", err)
	}

	if err := sch.Validate(doc); err != nil {
		ve, ok := err.(*sjsonschema.ValidationError)
		if !ok {
			return semanticError("%v", err)
		}
		var errs []*ValidationError
		for _, cause := range flattenValidationErrors(ve) {
			errs = append(errs, &ValidationError{
				Phase:    "semantic",
				Path:     strings.Join(cause.InstanceLocation, "/"),
				Message:  fmt.Sprintf("%v", cause.ErrorKind),
				Severity: "error",
			})
		}
		return errs
	}
	return nil
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// ValidateDomain checks the rules the schema cannot express: unique test
// names, commands that tokenize and pass the governance policy, regexes and
// conditions that compile, and placeholders that have parameters to fill
// them.
func ValidateDomain(m *Manifest) []*ValidationError {
	var errs []*ValidationError
	add := func(path, severity, format string, args ...any) {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
			Severity: severity,
		})
	}

	policy, err := governance.NewEngine(m.Governance)
	if err != nil {
		add("governance", "error", "%v", err)
		policy = &governance.Engine{}
	}

	seen := make(map[string]int)
	for i, t := range m.Tests {
		path := fmt.Sprintf("tests[%d]", i)

		if prev, dup := seen[t.Name]; dup && t.Name != "" {
			add(path+".name", "error", "duplicate test name %q (first used by tests[%d])", t.Name, prev)
		} else {
			seen[t.Name] = i
		}

		var sample binding
		if t.Parameterized() {
			sample = binding{value: t.Parameters[0], set: true}
		}
		inv, err := command.Parse(sample.apply(expandEnv(t.Command, m.Env)))
		if err != nil {
			add(path+".command", "error", "invalid command: %v", err)
		} else if err := policy.CheckCommand(inv.Program); err != nil {
			add(path+".command", "error", "%v", err)
		}

		hasPlaceholder := strings.Contains(t.Command, command.Placeholder)
		switch {
		case hasPlaceholder && !t.Parameterized():
			add(path+".command", "warning", "command contains %s but the test has no parameters", command.Placeholder)
		case !hasPlaceholder && t.Parameterized():
			add(path+".parameters", "warning", "parameters are not referenced by the command")
		}

		if t.Expect.Matches != "" {
			if _, err := regexp.Compile(t.Expect.Matches); err != nil {
				add(path+".expect.matches", "error", "invalid regex %q: %v", t.Expect.Matches, err)
			}
		}
		if t.Expect.Condition != "" {
			if err := outcome.CompileCondition(t.Expect.Condition, conditionEnv(nil, "")); err != nil {
				add(path+".expect.condition", "error", "%v", err)
			}
		}
	}
	return errs
}
