package replay

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ormasoftchile/extel/pkg/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioParsing(t *testing.T) {
	data := []byte(`
commands:
  - argv: ["echo", "-n", "hello world"]
    stdout: "hello world"
    exit_code: 0
  - argv: ["false"]
    stdout: ""
    stderr: "boom\n"
    exit_code: 1
`)
	s, err := ParseScenario(data)
	require.NoError(t, err)
	require.Len(t, s.Commands, 2)
	assert.Equal(t, []string{"echo", "-n", "hello world"}, s.Commands[0].Argv)
	assert.Equal(t, "boom\n", s.Commands[1].Stderr)
	assert.Equal(t, 1, s.Commands[1].ExitCode)
}

func TestScenarioParsingRejects(t *testing.T) {
	for name, data := range map[string]string{
		"empty":      `{}`,
		"invalid":    `{{{invalid`,
		"empty argv": "commands:\n  - stdout: x\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestExecutorMatching(t *testing.T) {
	s := &Scenario{Commands: []ScenarioCommand{
		{Argv: []string{"echo", "a"}, Stdout: "first\n"},
		{Argv: []string{"echo", "b"}, Stdout: "b\n", ExitCode: 3},
		{Argv: []string{"echo", "a"}, Stdout: "second\n"},
	}}
	ex := NewExecutor(s)
	ctx := context.Background()

	res, err := ex.Execute(ctx, "echo", []string{"a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first\n", res.StdoutString())

	res, err = ex.Execute(ctx, "echo", []string{"a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "second\n", res.StdoutString())

	_, err = ex.Execute(ctx, "echo", []string{"a"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching scenario entry for command: echo a")

	assert.Equal(t, [][]string{{"echo", "b"}}, ex.Unused())

	res, err = ex.Execute(ctx, "echo", []string{"b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Empty(t, ex.Unused())
}

func TestExecutorCanceled(t *testing.T) {
	ex := NewExecutor(&Scenario{Commands: []ScenarioCommand{{Argv: []string{"true"}}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ex.Execute(ctx, "true", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type stubExecutor struct {
	res *command.Result
	err error
}

func (s stubExecutor) Execute(context.Context, string, []string, []string) (*command.Result, error) {
	return s.res, s.err
}

func TestRecorderRoundTrip(t *testing.T) {
	rec := NewRecorder(stubExecutor{res: &command.Result{Stdout: []byte("hi\n"), ExitCode: 0}})
	_, err := rec.Execute(context.Background(), "echo", []string{"hi"}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, rec.Scenario.Save(path))

	loaded, err := LoadScenario(path)
	require.NoError(t, err)
	res, err := NewExecutor(loaded).Execute(context.Background(), "echo", []string{"hi"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", res.StdoutString())
}

func TestRecorderSkipsStartFailures(t *testing.T) {
	rec := NewRecorder(stubExecutor{err: errors.New("not found")})
	_, err := rec.Execute(context.Background(), "nope", nil, nil)
	require.Error(t, err)
	assert.Empty(t, rec.Scenario.Commands)
}

func TestRecorderKeepsInvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'k', 0xff, '\n'}
	rec := NewRecorder(stubExecutor{res: &command.Result{Stdout: raw, Stderr: []byte{0xfe}}})
	_, err := rec.Execute(context.Background(), "emit", nil, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, rec.Scenario.Save(path))
	loaded, err := LoadScenario(path)
	require.NoError(t, err)

	res, err := NewExecutor(loaded).Execute(context.Background(), "emit", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, raw, res.Stdout)
	assert.Equal(t, []byte{0xfe}, res.Stderr)
	_, err = res.StdoutUTF8()
	assert.ErrorIs(t, err, command.ErrInvalidUTF8)
}

func TestRecorderWrapSharesScenario(t *testing.T) {
	rec := NewRecorder(stubExecutor{res: &command.Result{Stdout: []byte("a\n")}})
	wrapped := rec.Wrap(stubExecutor{res: &command.Result{Stdout: []byte("b\n")}})

	_, err := rec.Execute(context.Background(), "first", nil, nil)
	require.NoError(t, err)
	_, err = wrapped.Execute(context.Background(), "second", nil, nil)
	require.NoError(t, err)

	require.Len(t, rec.Scenario.Commands, 2)
	assert.Equal(t, "a\n", rec.Scenario.Commands[0].Stdout)
	assert.Equal(t, []string{"second"}, rec.Scenario.Commands[1].Argv)
	assert.Equal(t, "b\n", rec.Scenario.Commands[1].Stdout)
}
