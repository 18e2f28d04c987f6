package main

import "github.com/jcorbin/gom4/internal/membuf"

// callFrame is the runtime record for one in-progress macro invocation.
// args[0] is never used, matching the original's arg_buf convention.
type callFrame struct {
	name         string
	def          *string // nil for a built-in, snapshot of the user body otherwise
	code         builtinCode // valid only when def == nil
	bracketDepth int
	activeArg    int
	args         [10]*membuf.Buffer
}

func newCallFrame(name string, def *string, code builtinCode, memLimit int) *callFrame {
	f := &callFrame{name: name, def: def, code: code, bracketDepth: 1, activeArg: 1}
	f.args[1] = &membuf.Buffer{Limit: memLimit}
	return f
}

// arg returns argument n's content, or "" if it was never collected
// (argument slots beyond the highest comma the call actually used).
func (f *callFrame) arg(n int) string {
	if n < 1 || n > 9 || f.args[n] == nil {
		return ""
	}
	return f.args[n].String()
}

// activeBuf returns the buffer currently collecting tokens for this
// frame: the buffer for its active argument slot.
func (f *callFrame) activeBuf() *membuf.Buffer { return f.args[f.activeArg] }

// nextArg advances to a fresh argument slot, erroring if that would
// exceed the nine available slots.
func (f *callFrame) nextArg(memLimit int) error {
	if f.activeArg >= 9 {
		return tooManyArgsError{f.name}
	}
	f.activeArg++
	f.args[f.activeArg] = &membuf.Buffer{Limit: memLimit}
	return nil
}

// isBuiltin reports whether this call is to a built-in macro.
func (f *callFrame) isBuiltin() bool { return f.def == nil }

// callStack is a LIFO of pending macro calls.
type callStack []*callFrame

func (s *callStack) push(f *callFrame) { *s = append(*s, f) }

func (s *callStack) top() *callFrame {
	if n := len(*s); n > 0 {
		return (*s)[n-1]
	}
	return nil
}

func (s *callStack) pop() {
	if n := len(*s); n > 0 {
		*s = (*s)[:n-1]
	}
}

func (s *callStack) empty() bool { return len(*s) == 0 }
