package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	for _, tc := range []struct {
		name     string
		template string
		program  string
		args     []string
	}{
		{"double quoted", `echo -n "hello world"`, "echo", []string{"-n", "hello world"}},
		{"single quoted", `echo 'hello world'`, "echo", []string{"hello world"}},
		{"no args", "ls", "ls", nil},
		{"surrounding whitespace", "  ls -la  ", "ls", []string{"-la"}},
		{"quoted word resumes", `echo "a" b 'c'`, "echo", []string{"a", "b", "c"}},
		{"empty quoted", `echo "" x`, "echo", []string{"", "x"}},
		{"apostrophe inside double quotes", `echo "it's fine"`, "echo", []string{"it's fine"}},
		{"other quote kept", `echo 'say "hi" now'`, "echo", []string{`say "hi" now`}},
		{"leading space in quotes", `echo " a b"`, "echo", []string{" a b"}},
		{"trailing space in quotes", `echo "a "`, "echo", []string{"a "}},
		{"repeated spaces outside quotes", "echo a  b", "echo", []string{"a", "b"}},
		{"repeated spaces inside quotes", `echo "a  b"`, "echo", []string{"a  b"}},
		{"unicode", `echo "héllo wörld" ✓`, "echo", []string{"héllo wörld", "✓"}},
		{"unterminated", `echo "never closed here`, "echo", []string{"never", "closed", "here"}},
		{"bare quote", `echo "`, "echo", []string{`"`}},
		{"bare quote then words", `echo ' x y`, "echo", []string{"'", "x", "y"}},
		{"mismatched close", `echo "a b'`, "echo", []string{"a", "b'"}},
		{"tab is not a separator", "echo a\tb", "echo", []string{"a\tb"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			program, args, err := Tokenize(tc.template)
			require.NoError(t, err)
			assert.Equal(t, tc.program, program)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestTokenizeEmpty(t *testing.T) {
	for _, tmpl := range []string{"", "   "} {
		_, _, err := Tokenize(tmpl)
		assert.ErrorIs(t, err, ErrEmptyCommand, "template %q", tmpl)
	}
}

func TestTokenizeSubstituted(t *testing.T) {
	program, args, err := Tokenize(Format(`echo -n "{}"`, "viva las vegas"))
	require.NoError(t, err)
	assert.Equal(t, "echo", program)
	assert.Equal(t, []string{"-n", "viva las vegas"}, args)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "echo 1 two", Format("echo {} {}", 1, "two"))
	assert.Equal(t, "echo 1 {}", Format("echo {} {}", 1))
	assert.Equal(t, "echo 1", Format("echo {}", 1, 2))
	assert.Equal(t, "echo {}", Format("echo {}"))
	assert.Equal(t, "echo", Format("echo", "ignored"))
}

func TestParse(t *testing.T) {
	inv, err := Parse("./test 1")
	require.NoError(t, err)
	assert.Equal(t, &Invocation{Program: "./test", Args: []string{"1"}}, inv)

	noArgs, err := Parse("./test")
	require.NoError(t, err)
	assert.Nil(t, noArgs.Args)
	assert.Equal(t, noArgs.Cmd(t.Context()).Args, (&Invocation{Program: "./test", Args: []string{}}).Cmd(t.Context()).Args)

	_, err = Parse(" ")
	assert.ErrorIs(t, err, ErrEmptyCommand)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("") })
	assert.NotPanics(t, func() { MustParse("true") })
}

func TestNew(t *testing.T) {
	inv := New(`echo -n "{}"`, "hello world")
	assert.Equal(t, "echo", inv.Program)
	assert.Equal(t, []string{"-n", "hello world"}, inv.Args)
	assert.Equal(t, []string{"echo", "-n", "hello world"}, inv.Argv())
}

func TestInvocationString(t *testing.T) {
	inv := New(`echo -n "{}"`, "it's here")
	assert.Equal(t, `echo -n 'it'"'"'s here'`, inv.String())
	assert.Equal(t, "ls -la /tmp", New("ls -la /tmp").String())
	assert.Equal(t, "printf ''", New(`printf ""`).String())
}

func TestEscape(t *testing.T) {
	for _, c := range []struct{ in, exp string }{
		{``, `''`},
		{`ab`, `ab`},
		{`a b`, `'a b'`},
		{`AZaz09@%_+=:,./-`, `AZaz09@%_+=:,./-`},
		{`=foo`, `'=foo'`},
		{`"`, `'"'`},
		{`a!b`, `'a!b'`},
	} {
		assert.Equal(t, c.exp, Escape(c.in), "Escape(%q)", c.in)
	}
}
