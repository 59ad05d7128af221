package manifest

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ormasoftchile/extel/pkg/assertions"
	"github.com/ormasoftchile/extel/pkg/command"
	"github.com/ormasoftchile/extel/pkg/governance"
	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/ormasoftchile/extel/pkg/suite"
)

// Options configures how a manifest is turned into a suite.
type Options struct {
	Context  context.Context  // defaults to context.Background()
	Executor command.Executor // defaults to a RealExecutor; sees raw output

	// Wrap, if set, wraps the governed executor, so it only ever sees
	// redacted output. Recorders belong here rather than in Executor.
	Wrap func(command.Executor) command.Executor
}

// Build turns a manifest into a runnable suite. Tests run lazily: commands
// execute only when the suite is run. Commands go through the manifest's
// governance policy, if any.
func Build(m *Manifest, opts Options) (*suite.Suite, error) {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Executor == nil {
		opts.Executor = &command.RealExecutor{}
	}
	policy, err := governance.NewEngine(m.Governance)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", m.Suite, err)
	}

	exec := policy.Wrap(opts.Executor)
	if opts.Wrap != nil {
		exec = opts.Wrap(exec)
	}
	r := &runner{ctx: opts.Context, exec: exec, env: m.Env, environ: mergeEnv(m.Env)}
	entries := make([]suite.Entry, 0, len(m.Tests))
	for _, t := range m.Tests {
		t := t
		if t.Parameterized() {
			entries = append(entries, suite.Parameterized(t.Name, func(p string) outcome.Outcome {
				return r.run(t, binding{value: p, set: true})
			}, t.Parameters...))
			continue
		}
		entries = append(entries, suite.Test(t.Name, func() outcome.Outcome {
			return r.run(t, binding{})
		}))
	}
	return suite.New(m.Suite, entries...), nil
}

type runner struct {
	ctx     context.Context
	exec    command.Executor
	env     map[string]string
	environ []string
}

// binding is the parameter a test instance runs with, if any.
type binding struct {
	value string
	set   bool
}

func (b binding) apply(s string) string {
	if !b.set {
		return s
	}
	return strings.ReplaceAll(s, command.Placeholder, b.value)
}

func (r *runner) run(t Test, param binding) outcome.Outcome {
	inv, err := command.Parse(param.apply(expandEnv(t.Command, r.env)))
	if err != nil {
		return outcome.Failf("invalid command: %v", err)
	}
	res, err := r.exec.Execute(r.ctx, inv.Program, inv.Args, r.environ)
	if err != nil {
		return outcome.FromError(err)
	}
	return check(t.Expect, res, param, t.Trim)
}

// check evaluates the expectations in declaration order and stops at the
// first failure.
func check(e Expect, res *command.Result, param binding, trim bool) outcome.Outcome {
	stdout := res.StdoutString()
	stderr := res.StderrString()
	if trim {
		stdout = strings.TrimSpace(stdout)
		stderr = strings.TrimSpace(stderr)
	}
	sub := param.apply

	checks := []func() *assertions.Result{}
	if e.ExitCode != nil {
		checks = append(checks, func() *assertions.Result { return assertions.EvalExitCode(res.ExitCode, *e.ExitCode) })
	}
	if e.Equals != nil {
		checks = append(checks, func() *assertions.Result { return assertions.EvalEquals(stdout, sub(*e.Equals)) })
	}
	if e.NotEquals != nil {
		checks = append(checks, func() *assertions.Result { return assertions.EvalNotEquals(stdout, sub(*e.NotEquals)) })
	}
	if e.Contains != "" {
		checks = append(checks, func() *assertions.Result { return assertions.EvalContains(stdout, sub(e.Contains)) })
	}
	if e.NotContains != "" {
		checks = append(checks, func() *assertions.Result { return assertions.EvalNotContains(stdout, sub(e.NotContains)) })
	}
	if e.Matches != "" {
		checks = append(checks, func() *assertions.Result { return assertions.EvalMatches(stdout, e.Matches) })
	}
	if e.StderrContains != "" {
		checks = append(checks, func() *assertions.Result { return assertions.EvalStderrContains(stderr, sub(e.StderrContains)) })
	}
	if e.JSONPath != nil {
		checks = append(checks, func() *assertions.Result {
			return assertions.EvalJSONPath(stdout, e.JSONPath.Path, sub(e.JSONPath.Equals))
		})
	}
	if e.Condition != "" {
		checks = append(checks, func() *assertions.Result {
			env := conditionEnv(res, param.value)
			env["stdout"] = stdout
			env["stderr"] = stderr
			return assertions.EvalCondition(e.Condition, env)
		})
	}

	for _, c := range checks {
		if r := c(); !r.Passed {
			return r.Outcome()
		}
	}
	return outcome.Pass()
}

// conditionEnv is the variable set visible to condition expressions. A nil
// result yields zero values with the right types, for compile-time checks.
func conditionEnv(res *command.Result, param string) map[string]any {
	env := map[string]any{
		"stdout":      "",
		"stderr":      "",
		"exit_code":   0,
		"param":       param,
		"duration_ms": int64(0),
	}
	if res != nil {
		env["stdout"] = res.StdoutString()
		env["stderr"] = res.StderrString()
		env["exit_code"] = res.ExitCode
		env["duration_ms"] = res.Duration.Milliseconds()
	}
	return env
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv resolves ${VAR} references from vars, then the process
// environment. Unknown variables expand to the empty string. Bare $VAR is
// left alone so commands can still pass it to a shell.
func expandEnv(s string, vars map[string]string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRef.FindStringSubmatch(ref)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
}

// mergeEnv returns the process environment with vars layered on top, or nil
// when there is nothing to add so the child inherits the environment as is.
func mergeEnv(vars map[string]string) []string {
	if len(vars) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range vars {
		env = append(env, k+"="+v)
	}
	return env
}
