package suite

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Destination selects where formatted results are streamed during a run.
// Open returns a nil writer to suppress streaming.
type Destination interface {
	Open() (io.WriteCloser, error)
	String() string
}

// Stdout streams results to the process's standard output.
func Stdout() Destination { return stdoutDest{} }

// File streams results to path, truncating it. The file is created when the
// run starts; failing to create it fails the run before any test executes.
func File(path string) Destination { return fileDest{path: path} }

// Writer streams results to a caller-owned writer such as a *bytes.Buffer.
// The writer is flushed but never closed.
func Writer(w io.Writer) Destination { return writerDest{w: w} }

// None suppresses streaming; results are only returned.
func None() Destination { return noneDest{} }

type stdoutDest struct{}

func (stdoutDest) Open() (io.WriteCloser, error) { return nopCloser{os.Stdout}, nil }
func (stdoutDest) String() string                { return "stdout" }

type fileDest struct{ path string }

func (d fileDest) Open() (io.WriteCloser, error) {
	f, err := os.Create(d.path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
func (d fileDest) String() string { return "file:" + d.path }

type writerDest struct{ w io.Writer }

func (d writerDest) Open() (io.WriteCloser, error) { return nopCloser{d.w}, nil }
func (d writerDest) String() string                { return "writer" }

type noneDest struct{}

func (noneDest) Open() (io.WriteCloser, error) { return nil, nil }
func (noneDest) String() string                { return "none" }

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// stream owns an opened destination for the duration of one run. After the
// first write error it stops writing; the run itself carries on.
type stream struct {
	buf    *bufio.Writer
	closer io.Closer
	log    *zap.Logger
	err    error
}

func openStream(dest Destination, log *zap.Logger) (*stream, error) {
	if dest == nil {
		return &stream{log: log}, nil
	}
	wc, err := dest.Open()
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", dest, err)
	}
	if wc == nil {
		return &stream{log: log}, nil
	}
	return &stream{buf: bufio.NewWriter(wc), closer: wc, log: log}, nil
}

func (s *stream) active() bool { return s.buf != nil && s.err == nil }

// emit writes text and flushes it so each result is visible as soon as its
// test finishes.
func (s *stream) emit(text string) {
	if !s.active() {
		return
	}
	if _, err := s.buf.WriteString(text); err != nil {
		s.fail(err)
		return
	}
	if err := s.buf.Flush(); err != nil {
		s.fail(err)
	}
}

func (s *stream) fail(err error) {
	s.err = err
	s.log.Error("writing test output failed; streaming disabled", zap.Error(err))
}

func (s *stream) close() {
	if s.buf == nil {
		return
	}
	if s.err == nil {
		if err := s.buf.Flush(); err != nil {
			s.log.Error("flushing test output failed", zap.Error(err))
		}
	}
	if err := s.closer.Close(); err != nil {
		s.log.Error("closing test output failed", zap.Error(err))
	}
}
