// Package manifest defines the YAML suite manifest: a declarative list of
// command tests that is validated, then built into a runnable suite.
package manifest

import (
	"fmt"
	"io"
	"os"

	"github.com/ormasoftchile/extel/pkg/governance"
	"gopkg.in/yaml.v3"
)

// APIVersion is the only manifest version understood by this package.
const APIVersion = "extel/v0"

// Manifest is the top-level suite document.
type Manifest struct {
	APIVersion  string             `yaml:"apiVersion"            json:"apiVersion"            jsonschema:"required,enum=extel/v0"`
	Suite       string             `yaml:"suite"                 json:"suite"                 jsonschema:"required,minLength=1"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Env         map[string]string  `yaml:"env,omitempty"         json:"env,omitempty"`
	Governance  *governance.Policy `yaml:"governance,omitempty"  json:"governance,omitempty"`
	Tests       []Test             `yaml:"tests,omitempty"       json:"tests,omitempty"`
}

// Test is one command test. With Parameters set it runs once per parameter,
// substituting the parameter for every {} in Command and in the string
// expectations.
type Test struct {
	Name        string   `yaml:"name"                  json:"name"                  jsonschema:"required,minLength=1"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Command     string   `yaml:"command"               json:"command"               jsonschema:"required,minLength=1"`
	Parameters  []string `yaml:"parameters,omitempty"  json:"parameters,omitempty"`
	Trim        bool     `yaml:"trim,omitempty"        json:"trim,omitempty"`
	Expect      Expect   `yaml:"expect,omitempty"      json:"expect,omitempty"`
}

// Parameterized reports whether the test fans out over parameters.
func (t Test) Parameterized() bool { return len(t.Parameters) > 0 }

// Expect lists the checks applied to a command's result, in the order they
// are evaluated. Omitted fields are not checked; equals: "" asserts empty
// output.
type Expect struct {
	ExitCode       *int            `yaml:"exit_code,omitempty"       json:"exit_code,omitempty"`
	Equals         *string         `yaml:"equals,omitempty"          json:"equals,omitempty"`
	NotEquals      *string         `yaml:"not_equals,omitempty"      json:"not_equals,omitempty"`
	Contains       string          `yaml:"contains,omitempty"        json:"contains,omitempty"`
	NotContains    string          `yaml:"not_contains,omitempty"    json:"not_contains,omitempty"`
	Matches        string          `yaml:"matches,omitempty"         json:"matches,omitempty"`
	StderrContains string          `yaml:"stderr_contains,omitempty" json:"stderr_contains,omitempty"`
	JSONPath       *JSONPathExpect `yaml:"json_path,omitempty"       json:"json_path,omitempty"`
	Condition      string          `yaml:"condition,omitempty"       json:"condition,omitempty"`
}

// JSONPathExpect compares the value at a dot-notation path of JSON stdout.
type JSONPathExpect struct {
	Path   string `yaml:"path"   json:"path"   jsonschema:"required"`
	Equals string `yaml:"equals" json:"equals" jsonschema:"required"`
}

// LoadFile reads and strictly decodes a manifest file.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a manifest from r, rejecting unknown fields.
func Load(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
