package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrInvalidUTF8 is wrapped by errors from the strict decoding helpers.
var ErrInvalidUTF8 = errors.New("invalid conversion from UTF-8")

// NoExitCode is reported when a process ended without an exit status, for
// example because it was killed by a signal.
const NoExitCode = -1

// Result holds the output of a single command execution.
type Result struct {
	Stdout   []byte        `json:"stdout"`
	Stderr   []byte        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool { return r.ExitCode == 0 }

// StdoutString returns stdout with invalid UTF-8 replaced by U+FFFD.
func (r *Result) StdoutString() string { return lossy(r.Stdout) }

// StderrString returns stderr with invalid UTF-8 replaced by U+FFFD.
func (r *Result) StderrString() string { return lossy(r.Stderr) }

// StdoutUTF8 returns stdout, failing if it is not valid UTF-8.
func (r *Result) StdoutUTF8() (string, error) { return DecodeUTF8(r.Stdout) }

// StderrUTF8 returns stderr, failing if it is not valid UTF-8.
func (r *Result) StderrUTF8() (string, error) { return DecodeUTF8(r.Stderr) }

// DecodeUTF8 converts b to a string, failing with ErrInvalidUTF8 on the first
// invalid byte.
func DecodeUTF8(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return "", fmt.Errorf("%w: invalid byte %#x at offset %d", ErrInvalidUTF8, b[i], i)
		}
		i += size
	}
	return "", ErrInvalidUTF8
}

func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// Executor runs a program. Implementations: RealExecutor, and fakes in tests.
type Executor interface {
	Execute(ctx context.Context, program string, args []string, env []string) (*Result, error)
}

// RealExecutor runs commands via os/exec.
type RealExecutor struct{}

// Execute runs program with args and, when non-empty, env as the complete
// environment. A non-zero exit status is not an error; failing to start the
// process is.
// On Windows, if the program is not found directly it is retried through
// cmd.exe /C so that shell builtins (echo, set, …) work transparently.
func (r *RealExecutor) Execute(ctx context.Context, program string, args []string, env []string) (*Result, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, program, args...)
	if len(env) > 0 {
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if err != nil && runtime.GOOS == "windows" && isExecNotFound(err) {
		stdout.Reset()
		stderr.Reset()
		cmdLine := program
		for _, a := range args {
			cmdLine += " " + a
		}
		cmd = exec.CommandContext(ctx, "cmd.exe", "/C", cmdLine)
		if len(env) > 0 {
			cmd.Env = env
		}
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err = cmd.Run()
	}

	duration := time.Since(start)

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("execute command %q: %w", program, err)
		}
		// ExitCode is -1 when the process was terminated by a signal.
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}

// isExecNotFound returns true when the error indicates the executable was not found.
func isExecNotFound(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	var execErr *exec.Error
	return errors.As(err, &execErr)
}
