package governance

import (
	"context"

	"github.com/ormasoftchile/extel/pkg/command"
)

// Executor enforces an Engine around another executor: denied programs never
// start, blocked variables are stripped from the child environment, and
// stdout and stderr are redacted before anything inspects them.
type Executor struct {
	Engine *Engine
	Next   command.Executor
}

func (e *Executor) Execute(ctx context.Context, program string, args []string, env []string) (*command.Result, error) {
	if err := e.Engine.CheckCommand(program); err != nil {
		return nil, err
	}
	env, _ = e.Engine.FilterEnvVars(env)
	res, err := e.Next.Execute(ctx, program, args, env)
	if err != nil || len(e.Engine.Redactions) == 0 {
		return res, err
	}
	redacted := *res
	redacted.Stdout = []byte(RedactOutput(res.StdoutString(), e.Engine.Redactions))
	redacted.Stderr = []byte(RedactOutput(res.StderrString(), e.Engine.Redactions))
	return &redacted, nil
}

// Wrap returns next unchanged for a permissive engine, or a governed executor.
func (g *Engine) Wrap(next command.Executor) command.Executor {
	if len(g.AllowedCommands) == 0 && len(g.DeniedCommands) == 0 &&
		len(g.DenyEnvVars) == 0 && len(g.Redactions) == 0 {
		return next
	}
	return &Executor{Engine: g, Next: next}
}
