package main

import (
	"context"
	"io"
	"strings"
)

// run drives the outer loop until end-of-input, then checks the
// shutdown invariants and flushes held diversions, matching the "m4
// loop: read input word by word" structure of m4.c.
// ctx is checked once per token so a caller-supplied timeout can stop
// a runaway expansion between outer-loop iterations.
func (e *Engine) run(ctx context.Context) error {
	for {
		if err := e.div.flushOne(0, e.out); err != nil {
			return err
		}
		if err := e.out.Flush(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		t, err := e.scanToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		e.tracef("token %q", t.text)
		if err := e.dispatch(t); err != nil {
			return err
		}
	}
	return e.shutdown()
}

func (e *Engine) shutdown() error {
	if !e.stack.empty() {
		return unterminatedCallError{e.stack.top().name}
	}
	if e.quoteDepth > 0 {
		return unterminatedQuoteError{e.quoteDepth}
	}
	if err := e.div.flushOne(0, e.out); err != nil {
		return err
	}
	if err := e.div.flushAll(e.out); err != nil {
		return err
	}
	return e.out.Flush()
}

// dispatch applies the single outer-loop token dispatch table to one
// token.
func (e *Engine) dispatch(t token) error {
	single := len(t.text) == 1
	switch {
	case single && t.text[0] == e.quoteLeft:
		if e.quoteDepth > 0 {
			if err := e.activeSink().AppendString(t.text); err != nil {
				return err
			}
		}
		e.quoteDepth++
		return nil

	case single && t.text[0] == e.quoteRight:
		e.quoteDepth--
		if e.quoteDepth >= 1 {
			if err := e.activeSink().AppendString(t.text); err != nil {
				return err
			}
		}
		return nil

	case e.quoteDepth > 0:
		return e.activeSink().AppendString(t.text)

	case t.kind == tokenIdent && e.symtab.lookup(t.text) != nil:
		return e.handleMacro(t)

	case !e.stack.empty() && t.text == ")" && e.stack.top().bracketDepth == 1:
		return e.finalizeCall()

	case !e.stack.empty() && t.text == ")":
		f := e.stack.top()
		f.bracketDepth--
		return f.activeBuf().AppendString(t.text)

	case !e.stack.empty() && t.text == "(":
		f := e.stack.top()
		f.bracketDepth++
		return f.activeBuf().AppendString(t.text)

	case !e.stack.empty() && t.text == "," && e.stack.top().bracketDepth == 1:
		return e.nextArg()

	default:
		return e.activeSink().AppendString(t.text)
	}
}

// handleMacro implements invocation and argument-collection entry: a
// known identifier has just been read.
func (e *Engine) handleMacro(t token) error {
	se := e.symtab.lookup(t.text)

	next, err := e.scanToken()
	atEOF := err == io.EOF
	if err != nil && !atEOF {
		return err
	}

	if !atEOF && next.kind == tokenOther && next.text == "(" {
		f := newCallFrame(t.text, se.def, se.code, e.memLimit)
		e.stack.push(f)
		return e.skipLeadingWhitespace()
	}

	if !atEOF {
		if err := e.in.PushString(next.text); err != nil {
			return err
		}
	}

	if se.def == nil {
		return e.runBuiltinNoArgs(se.code)
	}
	stripped := substituteParams(*se.def, nil)
	return e.in.PushString(stripped)
}

// skipLeadingWhitespace consumes a run of whitespace tokens right after
// a call's opening "(" or a comma, pushing back the first non-whitespace
// token it finds.
func (e *Engine) skipLeadingWhitespace() error {
	for {
		wt, err := e.scanToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !isWhitespace(wt) {
			return e.in.PushString(wt.text)
		}
	}
}

// nextArg implements the depth-1 unquoted comma rule.
func (e *Engine) nextArg() error {
	f := e.stack.top()
	if err := f.nextArg(e.memLimit); err != nil {
		return err
	}
	return e.skipLeadingWhitespace()
}

// finalizeCall implements call completion: either substitute params
// into a user definition and push it for re-expansion, or run the
// built-in against the collected arguments. Either way the frame is
// popped, restoring the prior active sink.
func (e *Engine) finalizeCall() error {
	f := e.stack.top()

	var err error
	if f.isBuiltin() {
		err = e.runBuiltinWithArgs(f, f.code)
	} else {
		expanded := substituteParams(*f.def, f)
		err = e.in.PushString(expanded)
	}

	e.stack.pop()
	return err
}

// substituteParams replaces $d (d a non-zero digit) in def with the
// corresponding argument from f, or removes the $d sequence entirely
// when f is nil (the "stripped" no-argument invocation form). A literal
// $ followed by 0 or by a non-digit passes through unchanged; there is
// no $0 expansion.
func substituteParams(def string, f *callFrame) string {
	if !strings.Contains(def, "$") {
		return def
	}
	var out strings.Builder
	out.Grow(len(def))
	for i := 0; i < len(def); i++ {
		c := def[i]
		if c == '$' && i+1 < len(def) && def[i+1] >= '1' && def[i+1] <= '9' {
			if f != nil {
				out.WriteString(f.arg(int(def[i+1] - '0')))
			}
			i++
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}
