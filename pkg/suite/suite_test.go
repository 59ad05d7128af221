package suite

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ormasoftchile/extel/pkg/outcome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func alwaysPass() outcome.Outcome { return outcome.Pass() }

func alwaysFail() outcome.Outcome { return outcome.Fail("this test failed?") }

func TestRunToBuffer(t *testing.T) {
	var buf bytes.Buffer
	results, err := New("ExampleSuite",
		Test("always_pass", alwaysPass),
		Test("always_fail", alwaysFail),
	).Run(Config{Output: Writer(&buf)})
	require.NoError(t, err)

	assert.Equal(t,
		"[ExampleSuite]\n"+
			"Test #1 (always_pass) ... ok\n"+
			"Test #2 (always_fail) ... FAILED\n  [x] this test failed?\n",
		buf.String())

	require.Len(t, results, 2)
	assert.Equal(t, "always_pass", results[0].Name)
	assert.Equal(t, outcome.Single(outcome.Pass()), results[0].Report)
	assert.Equal(t, "always_fail", results[1].Name)
	assert.Equal(t, outcome.Single(outcome.Fail("this test failed?")), results[1].Report)
}

func TestRunPreservesRegistrationOrder(t *testing.T) {
	var entries []Entry
	var ran []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("t%02d", i)
		fail := i%3 == 0
		entries = append(entries, Test(name, func() outcome.Outcome {
			ran = append(ran, name)
			return outcome.FromCondition(!fail, name+" failed")
		}))
	}

	results, err := New("order", entries...).Run(Config{Output: None()})
	require.NoError(t, err)
	require.Len(t, results, len(entries))
	for i, r := range results {
		assert.Equal(t, entries[i].Name, r.Name)
		assert.Equal(t, entries[i].Name, ran[i])
	}
}

func TestRunStreamsEachResultImmediately(t *testing.T) {
	var buf bytes.Buffer
	var seenBySecond string
	_, err := New("stream",
		Test("first", alwaysPass),
		Test("second", func() outcome.Outcome {
			seenBySecond = buf.String()
			return outcome.Pass()
		}),
	).Run(Config{Output: Writer(&buf)})
	require.NoError(t, err)
	assert.Equal(t, "[stream]\nTest #1 (first) ... ok\n", seenBySecond)
}

func TestRunParameterized(t *testing.T) {
	var buf bytes.Buffer
	results, err := New("params",
		Parameterized("non_negative", func(x int) outcome.Outcome {
			return outcome.Assertf(x >= 0, "%d < 0", x)
		}, 1, 2, -2, 4),
	).Run(Config{Output: Writer(&buf)})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].Report.Len())
	assert.Equal(t,
		"[params]\n"+
			"Test #1.1 (non_negative) ... ok\n"+
			"Test #1.2 (non_negative) ... ok\n"+
			"Test #1.3 (non_negative) ... FAILED\n  [x] -2 < 0\n"+
			"Test #1.4 (non_negative) ... ok\n",
		buf.String())
}

func TestRunNoneWritesNothing(t *testing.T) {
	for name, cfg := range map[string]Config{
		"none": {Output: None()},
		"nil":  {},
	} {
		t.Run(name, func(t *testing.T) {
			results, err := New("quiet", Test("a", alwaysFail)).Run(cfg)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.False(t, results[0].Passed())
		})
	}
}

func TestRunColored(t *testing.T) {
	var buf bytes.Buffer
	_, err := New("color", Test("a", alwaysPass)).Run(Config{Output: Writer(&buf), Colored: true})
	require.NoError(t, err)
	assert.Equal(t, "[color]\nTest #1 (a) ... \x1b[32mok\x1b[0m\n", buf.String())
}

func TestRunToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale contents\n"), 0o644))

	_, err := New("file", Test("a", alwaysPass)).Run(Config{Output: File(path)})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[file]\nTest #1 (a) ... ok\n", string(data))
}

func TestRunUnopenableFile(t *testing.T) {
	invoked := false
	path := filepath.Join(t.TempDir(), "missing", "out.txt")
	results, err := New("broken", Test("a", func() outcome.Outcome {
		invoked = true
		return outcome.Pass()
	})).Run(Config{Output: File(path)})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open output file:")
	assert.Nil(t, results)
	assert.False(t, invoked)
}

func TestRunRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	results, err := New("panics",
		Test("boom", func() outcome.Outcome { panic("kaboom") }),
		Test("after", alwaysPass),
		Entry{Name: "empty"},
	).Run(Config{Output: Writer(&buf)})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, outcome.Fail("panic: kaboom"), results[0].Report.Outcome())
	assert.True(t, results[1].Passed())
	assert.Equal(t, outcome.Fail("test has no body"), results[2].Report.Outcome())
	assert.Contains(t, buf.String(), "Test #2 (after) ... ok\n")
}

func TestTestErrPropagatesErrors(t *testing.T) {
	results, err := New("errs",
		TestErr("wrapped", func() error {
			return fmt.Errorf("read fixture: %w", os.ErrNotExist)
		}),
		TestErr("explicit", func() error {
			return outcome.Errorf("expected %d, got %d", 1, 2)
		}),
		TestErr("fine", func() error { return nil }),
	).Run(Config{})
	require.NoError(t, err)

	assert.Equal(t, outcome.Fail("read fixture: file does not exist"), results[0].Report.Outcome())
	assert.Equal(t, outcome.Fail("expected 1, got 2"), results[1].Report.Outcome())
	assert.True(t, results[2].Passed())
}

type failingWriter struct{ writes int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestRunKeepsGoingAfterWriteError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := &failingWriter{}

	results, err := New("full",
		Test("a", alwaysPass),
		Test("b", alwaysFail),
	).Run(Config{Output: Writer(w), Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, 1, w.writes)
	assert.Equal(t, 1, logs.FilterMessage("writing test output failed; streaming disabled").Len())
	assert.Equal(t, 2, logs.FilterMessage("running test").Len())
}

func TestSuiteAccessors(t *testing.T) {
	entries := []Entry{Test("a", alwaysPass)}
	s := New("acc", entries...)
	entries[0].Name = "changed"

	assert.Equal(t, "acc", s.Name())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "a", s.Entries()[0].Name)
}

func TestPackageRun(t *testing.T) {
	results, err := Run("shorthand", Config{}, Test("a", alwaysPass))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSetRunAllSharesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all.txt")
	set := Set{
		New("one", Test("a", alwaysPass)),
		New("two", Test("b", alwaysFail)),
	}

	out, err := set.RunAll(Config{Output: File(path)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "one", out[0].Suite)
	assert.Equal(t, "two", out[1].Suite)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"[one]\nTest #1 (a) ... ok\n[two]\nTest #1 (b) ... FAILED\n  [x] this test failed?\n",
		string(data))
}

func TestSetRunAllUnopenable(t *testing.T) {
	_, err := Set{New("one")}.RunAll(Config{Output: File(filepath.Join(t.TempDir(), "no", "x"))})
	assert.Error(t, err)
}

func TestDestinationNames(t *testing.T) {
	assert.Equal(t, "stdout", Stdout().String())
	assert.Equal(t, "file:/tmp/x", File("/tmp/x").String())
	assert.Equal(t, "writer", Writer(&bytes.Buffer{}).String())
	assert.Equal(t, "none", None().String())
	assert.Equal(t, Config{Output: Stdout(), Colored: true}, DefaultConfig())
}
