package main

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/gom4/internal/diag"
	"github.com/jcorbin/gom4/internal/flushio"
	"github.com/jcorbin/gom4/internal/panicerr"
)

// New builds an Engine from the given options: defaults are applied
// first, then the caller's options override them.
func New(opts ...EngineOption) *Engine {
	e := newEngine()
	defaultOptions.apply(e)
	EngineOptions(opts...).apply(e)
	return e
}

// Run drives the outer loop to completion in an isolated goroutine, so
// an internal panic (the engine's halt idiom) or stray runtime.Goexit is
// always converted into a returned error rather than a crashed process.
func (e *Engine) Run(ctx context.Context) error {
	err := panicerr.Recover("engine", func() error {
		return e.run(ctx)
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var he haltError
	if errors.As(err, &he) {
		err = he.error
	}
	return err
}

func (e *Engine) halt(err error) {
	func() {
		defer func() { recover() }()
		if ferr := e.out.Flush(); err == nil {
			err = ferr
		}
	}()
	func() {
		defer func() { recover() }()
		e.diag.Errorf("halt error: %v", err)
	}()
	panic(haltError{err})
}

// EngineOption configures an Engine at construction time.
type EngineOption interface{ apply(e *Engine) }

var defaultOptions = EngineOptions(
	withOutput(io.Discard),
	withDiagWriter(io.Discard),
)

// EngineOptions flattens a list of options into a single applicable one.
func EngineOptions(opts ...EngineOption) EngineOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*Engine) {}

type options []EngineOption

func (opts options) apply(e *Engine) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(e)
		}
	}
}

// WithOutput sets the writer diversion 0 is flushed to.
func WithOutput(w io.Writer) EngineOption { return withOutput(w) }

// WithDiagWriter sets the writer diagnostic lines (errprint, dumpdef,
// htdist, trace, fatal errors) are written to.
func WithDiagWriter(w io.Writer) EngineOption { return withDiagWriter(w) }

// WithTrace enables per-token trace logging through the diagnostic sink.
func WithTrace(trace bool) EngineOption { return traceOption(trace) }

// WithMemLimit caps the size any single growable buffer (pushback
// stream, argument buffer, or diversion) may grow to; zero means
// unlimited.
func WithMemLimit(limit int) EngineOption { return memLimitOption(limit) }

// WithStdin arranges for the input stream to drain from r once its
// pushback stack runs dry, matching the CLI's "no files" behavior.
func WithStdin(r io.Reader) EngineOption { return stdinOption{r} }

// WithFile loads path's contents onto the input stream immediately,
// failing construction-time loads by panicking with haltError the same
// way a bad option would be a programming error; callers that need a
// recoverable load should call (*Engine).LoadFile directly instead.
func WithFile(path string) EngineOption { return fileOption(path) }

type outputOption struct{ io.Writer }
type diagWriterOption struct{ io.Writer }
type traceOption bool
type memLimitOption int
type stdinOption struct{ io.Reader }
type fileOption string

func withOutput(w io.Writer) outputOption         { return outputOption{w} }
func withDiagWriter(w io.Writer) diagWriterOption { return diagWriterOption{w} }

func (o outputOption) apply(e *Engine) {
	if e.out != nil {
		e.out.Flush()
	}
	e.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		e.closers = append(e.closers, cl)
	}
}

func (o diagWriterOption) apply(e *Engine) {
	e.diag = diag.New(o.Writer)
}

func (t traceOption) apply(e *Engine) { e.trace = bool(t) }

func (lim memLimitOption) apply(e *Engine) {
	e.memLimit = int(lim)
	e.in.SetLimit(int(lim))
	e.div.setLimit(int(lim))
}

func (o stdinOption) apply(e *Engine) { e.in.SetDrain(o.Reader) }

func (o fileOption) apply(e *Engine) {
	if err := e.in.LoadFile(string(o)); err != nil {
		e.halt(err)
	}
}

// LoadFile loads path's contents onto the input stream, for re-scanning
// ahead of whatever is already pending, implementing include(path) and
// the CLI's right-to-left file loading (both want the same semantics).
func (e *Engine) LoadFile(path string) error { return e.in.LoadFile(path) }

// Reserve grows the input stream once to fit at least n additional
// bytes, the CLI's multi-file pre-sizing pass.
func (e *Engine) Reserve(n int) error { return e.in.Reserve(n) }

// DumpSymbols writes the symbol table's chain-length histogram to the
// diagnostic sink, the -dump-symbols CLI flag's shutdown hook.
func (e *Engine) DumpSymbols() { _ = e.dumpHtdist() }
