package replay

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ormasoftchile/extel/pkg/command"
)

// Executor implements command.Executor by matching commands against
// pre-recorded scenario entries. Fail-closed: returns an error if no match.
// Each entry is consumed once, so repeated commands replay in recorded order.
type Executor struct {
	scenario *Scenario
	used     []bool
}

// NewExecutor creates a replay Executor from a loaded scenario.
func NewExecutor(s *Scenario) *Executor {
	return &Executor{
		scenario: s,
		used:     make([]bool, len(s.Commands)),
	}
}

// Execute returns the first unused entry whose argv equals program+args.
func (r *Executor) Execute(ctx context.Context, program string, args []string, env []string) (*command.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	argv := append([]string{program}, args...)
	for i, sc := range r.scenario.Commands {
		if r.used[i] || !slices.Equal(argv, sc.Argv) {
			continue
		}
		r.used[i] = true
		return &command.Result{
			Stdout:   []byte(sc.Stdout),
			Stderr:   []byte(sc.Stderr),
			ExitCode: sc.ExitCode,
		}, nil
	}
	return nil, fmt.Errorf("replay: no matching scenario entry for command: %s", strings.Join(argv, " "))
}

// Unused returns the argv of every entry that was never replayed.
func (r *Executor) Unused() [][]string {
	var out [][]string
	for i, u := range r.used {
		if !u {
			out = append(out, r.scenario.Commands[i].Argv)
		}
	}
	return out
}

// Recorder wraps an executor and appends every completed execution to a
// scenario. Commands that fail to start are not recorded. Output is stored
// byte for byte, so invalid UTF-8 replays exactly as it was produced.
type Recorder struct {
	next     command.Executor
	Scenario *Scenario
}

// NewRecorder records the executions delegated to next.
func NewRecorder(next command.Executor) *Recorder {
	return &Recorder{next: next, Scenario: &Scenario{}}
}

// Wrap returns a recorder around next that appends to the same scenario as r.
func (r *Recorder) Wrap(next command.Executor) command.Executor {
	return &Recorder{next: next, Scenario: r.Scenario}
}

func (r *Recorder) Execute(ctx context.Context, program string, args []string, env []string) (*command.Result, error) {
	res, err := r.next.Execute(ctx, program, args, env)
	if err != nil {
		return nil, err
	}
	r.Scenario.Commands = append(r.Scenario.Commands, ScenarioCommand{
		Argv:     append([]string{program}, args...),
		Stdout:   string(res.Stdout),
		Stderr:   string(res.Stderr),
		ExitCode: res.ExitCode,
	})
	return res, nil
}
