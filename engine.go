package main

import (
	"io"

	"github.com/jcorbin/gom4/internal/diag"
	"github.com/jcorbin/gom4/internal/flushio"
	"github.com/jcorbin/gom4/internal/membuf"
	"github.com/jcorbin/gom4/internal/pushback"
)

// Engine is the macro processor: the tokenizer, call stack, symbol
// table, diversion set, and quote state, all driven by a single
// outer loop (see loop.go).
type Engine struct {
	in  pushback.Stream
	out flushio.WriteFlusher

	diag *diag.Log

	symtab
	stack callStack
	div   diversionSet

	quoteDepth uint
	quoteLeft  byte
	quoteRight byte

	memLimit int

	trace   bool
	closers []io.Closer
}

func newEngine() *Engine {
	e := &Engine{
		quoteLeft:  '`',
		quoteRight: '\'',
		diag:       diag.New(io.Discard),
		out:        flushio.NewWriteFlusher(io.Discard),
	}
	e.defineBuiltins()
	return e
}

// Close releases any resources registered by options (e.g. opened
// files), in reverse registration order.
func (e *Engine) Close() (err error) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if cerr := e.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// tracef logs a trace line when tracing is enabled; a no-op otherwise.
func (e *Engine) tracef(mess string, args ...interface{}) {
	if e.trace {
		e.diag.Printf("TRACE", mess, args...)
	}
}

func (e *Engine) newBuffer() *membuf.Buffer { return &membuf.Buffer{Limit: e.memLimit} }

// activeSink returns the buffer currently receiving written tokens: the
// top call frame's active argument buffer if a call is pending, else the
// active diversion buffer.
func (e *Engine) activeSink() *membuf.Buffer {
	if f := e.stack.top(); f != nil {
		return f.activeBuf()
	}
	return e.div.activeBuf()
}
