// Package governance implements command allowlist/denylist, output redaction,
// and environment variable blocking for suite commands.
package governance

import (
	"fmt"
	"path/filepath"
)

// Policy restricts what a suite's commands may run and see.
type Policy struct {
	AllowedCommands []string        `yaml:"allowed_commands,omitempty" json:"allowed_commands,omitempty"`
	DeniedCommands  []string        `yaml:"denied_commands,omitempty"  json:"denied_commands,omitempty"`
	DenyEnvVars     []string        `yaml:"deny_env_vars,omitempty"    json:"deny_env_vars,omitempty"`
	Redact          []RedactionRule `yaml:"redact,omitempty"           json:"redact,omitempty"`
}

// RedactionRule replaces every match of Pattern in command output.
type RedactionRule struct {
	Pattern string `yaml:"pattern" json:"pattern" jsonschema:"required,minLength=1"`
	Replace string `yaml:"replace" json:"replace"`
}

// Engine evaluates a policy before and after execution.
type Engine struct {
	AllowedCommands []string
	DeniedCommands  []string
	DenyEnvVars     []string
	Redactions      []*CompiledRedaction
}

// NewEngine compiles policy. A nil policy yields a permissive engine.
func NewEngine(policy *Policy) (*Engine, error) {
	if policy == nil {
		return &Engine{}, nil
	}
	redactions, err := CompileRedactionRules(policy.Redact)
	if err != nil {
		return nil, err
	}
	for _, p := range policy.DenyEnvVars {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid env var deny pattern %q: %w", p, err)
		}
	}
	return &Engine{
		AllowedCommands: policy.AllowedCommands,
		DeniedCommands:  policy.DeniedCommands,
		DenyEnvVars:     policy.DenyEnvVars,
		Redactions:      redactions,
	}, nil
}

// CheckCommand validates a program name against the allowlist/denylist.
// Deny takes precedence over allow.
func (g *Engine) CheckCommand(program string) error {
	for _, denied := range g.DeniedCommands {
		if program == denied {
			return fmt.Errorf("command %q is denied by governance policy", program)
		}
	}

	if len(g.AllowedCommands) > 0 {
		for _, allowed := range g.AllowedCommands {
			if program == allowed {
				return nil
			}
		}
		return fmt.Errorf("command %q is not in the governance allowlist", program)
	}

	return nil
}

// CheckEnvVar validates an environment variable name against deny_env_vars patterns.
func (g *Engine) CheckEnvVar(name string) error {
	for _, pattern := range g.DenyEnvVars {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			// Invalid pattern: treat as blocking.
			return fmt.Errorf("invalid env var deny pattern %q: %w", pattern, err)
		}
		if matched {
			return fmt.Errorf("environment variable %q matches denied pattern %q", name, pattern)
		}
	}
	return nil
}
