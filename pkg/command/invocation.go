package command

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Placeholder is substituted by Format.
const Placeholder = "{}"

// Invocation is a resolved program and its ordered arguments. It carries no
// shell semantics and is read-only once built.
type Invocation struct {
	Program string   `json:"program"`
	Args    []string `json:"args,omitempty"`
}

// Parse tokenizes template into an Invocation. A template without arguments
// yields a nil Args slice.
func Parse(template string) (*Invocation, error) {
	program, args, err := Tokenize(template)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		args = nil
	}
	return &Invocation{Program: program, Args: args}, nil
}

// MustParse is like Parse but panics on an empty template. An empty template
// is a programming error, not a test failure.
func MustParse(template string) *Invocation {
	inv, err := Parse(template)
	if err != nil {
		panic(fmt.Sprintf("command: parse %q: %v", template, err))
	}
	return inv
}

// New substitutes args into template and parses the result.
//
//	command.New(`echo -n "{}"`, "viva las vegas")
func New(template string, args ...any) *Invocation {
	return MustParse(Format(template, args...))
}

// Format replaces each {} in template, left to right, with the next argument
// rendered by fmt.Sprint. Placeholders without a matching argument are left
// in place; surplus arguments are ignored.
func Format(template string, args ...any) string {
	if len(args) == 0 || !strings.Contains(template, Placeholder) {
		return template
	}
	var b strings.Builder
	rest := template
	for _, arg := range args {
		idx := strings.Index(rest, Placeholder)
		if idx < 0 {
			break
		}
		b.WriteString(rest[:idx])
		b.WriteString(fmt.Sprint(arg))
		rest = rest[idx+len(Placeholder):]
	}
	b.WriteString(rest)
	return b.String()
}

// Cmd builds an *exec.Cmd for the invocation.
func (i *Invocation) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, i.Program, i.Args...)
}

// Run executes the invocation with ex.
func (i *Invocation) Run(ctx context.Context, ex Executor) (*Result, error) {
	return ex.Execute(ctx, i.Program, i.Args, nil)
}

// Argv returns the program followed by its arguments.
func (i *Invocation) Argv() []string {
	return append([]string{i.Program}, i.Args...)
}

// String renders the invocation as a shell command line that would pass the
// same argv, quoting only the words that need it.
func (i *Invocation) String() string {
	argv := i.Argv()
	escaped := make([]string, len(argv))
	for n, arg := range argv {
		escaped[n] = Escape(arg)
	}
	return strings.Join(escaped, " ")
}

// safeRE matches words that can appear literally in a shell command line.
var safeRE = regexp.MustCompile(`^[-\w@%+:,./][-\w@%+:,./=]*$`)

// Escape single-quotes s unless it is already shell-safe.
func Escape(s string) string {
	if safeRE.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
