// Package command turns shell-like command templates into structured process
// invocations and runs them.
//
// A template is split on single ASCII spaces. Substrings wrapped in single or
// double quotes are kept together as one argument, so
//
//	echo -n "hello world"
//
// resolves to the program "echo" with the arguments ["-n", "hello world"].
// No other shell semantics apply: there is no escaping, globbing, variable
// expansion or redirection.
package command

import (
	"errors"
	"strings"
)

// ErrEmptyCommand is returned when a template contains no program name.
var ErrEmptyCommand = errors.New("no command was provided")

// Tokenize splits a fully substituted template into a program name and its
// arguments.
//
// Quoting rules:
//   - a token starting with " or ' opens a quoted run;
//   - if the same token also ends with that quote, both quotes are stripped
//     and the remainder is one argument;
//   - otherwise following tokens are joined with a single space until one ends
//     with the opening quote, and the joined string is one argument;
//   - an unterminated run is not an error: its fragments are emitted as
//     separate arguments, with the opening quote stripped from the first one
//     (a bare quote character is kept as is).
//
// Empty tokens produced by repeated spaces are dropped outside of quotes and
// kept inside them, so a quoted run preserves its spacing.
func Tokenize(template string) (string, []string, error) {
	raw := strings.Split(strings.TrimSpace(template), " ")
	program := raw[0]
	if program == "" {
		return "", nil, ErrEmptyCommand
	}

	var args []string
	rest := raw[1:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		if tok == "" {
			continue
		}

		quote := tok[0]
		if !isQuote(quote) {
			args = append(args, tok)
			continue
		}

		if len(tok) >= 2 && tok[len(tok)-1] == quote {
			args = append(args, tok[1:len(tok)-1])
			continue
		}

		fragments := []string{tok[1:]}
		closed := false
		for i+1 < len(rest) {
			i++
			next := rest[i]
			if strings.HasSuffix(next, string(quote)) {
				fragments = append(fragments, next[:len(next)-1])
				closed = true
				break
			}
			fragments = append(fragments, next)
		}

		if closed {
			args = append(args, strings.Join(fragments, " "))
			continue
		}
		if len(tok) == 1 {
			fragments[0] = tok
		}
		for _, f := range fragments {
			if f == "" {
				continue
			}
			args = append(args, f)
		}
	}
	return program, args, nil
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}
