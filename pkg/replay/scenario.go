// Package replay runs suites offline against pre-recorded command output,
// and records live runs into such scenarios.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a list of recorded command executions.
type Scenario struct {
	Commands []ScenarioCommand `yaml:"commands"`
}

// ScenarioCommand is a pre-recorded command with its output. Output that is
// not valid UTF-8 is saved as a !!binary scalar.
type ScenarioCommand struct {
	Argv     []string `yaml:"argv"`
	Stdout   string   `yaml:"stdout"`
	Stderr   string   `yaml:"stderr,omitempty"`
	ExitCode int      `yaml:"exit_code"`
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(s.Commands) == 0 {
		return nil, fmt.Errorf("scenario must have at least one command")
	}
	for i, c := range s.Commands {
		if len(c.Argv) == 0 {
			return nil, fmt.Errorf("scenario command %d: argv is empty", i)
		}
	}
	return &s, nil
}

// Save writes s as YAML to path.
func (s *Scenario) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario file: %w", err)
	}
	return nil
}
