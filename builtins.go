package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// builtinCode identifies a built-in macro, assigned at symbol-table
// insertion time, dispatched through a small table of handler functions
// rather than a long string-compare chain.
type builtinCode int

const (
	biDefine builtinCode = iota
	biUndefine
	biChangequote
	biDivert
	biDumpdef
	biErrprint
	biIfdef
	biIfelse
	biInclude
	biLen
	biIndex
	biSubstr
	biTranslit
	biUndivert
	biDnl
	biDivnum
	biIncr
	biHtdist
	biDirsep
	biAdd
	biMult
	biSub
	biDiv
	biMod

	biCount
)

// withArgsFn handles a built-in call after its closing paren: arguments
// are in f.args[1..9], terminated (NUL is not needed in Go — the string
// content is simply whatever was collected).
type withArgsFn func(e *Engine, f *callFrame) error

// noArgFn handles a built-in invoked with no following "(" at all. Only
// a handful of built-ins have meaningful no-argument behavior; everything
// else falls back to passing the macro's bare name through to the active
// sink, the same fallback m4.c's PROCESS_BI_NO_ARGS uses for any name not
// in its explicit list.
type noArgFn func(e *Engine) error

var withArgsTable [biCount]withArgsFn
var noArgTable [biCount]noArgFn
var builtinNames [biCount]string

func init() {
	reg := func(code builtinCode, name string, withArgs withArgsFn, noArg noArgFn) {
		builtinNames[code] = name
		withArgsTable[code] = withArgs
		noArgTable[code] = noArg
	}

	reg(biDefine, "define", biDefineArgs, nil)
	reg(biUndefine, "undefine", biUndefineArgs, nil)
	reg(biChangequote, "changequote", biChangequoteArgs, nil)
	reg(biDivert, "divert", biDivertArgs, biDivertNoArgs)
	reg(biDumpdef, "dumpdef", biDumpdefArgs, nil)
	reg(biErrprint, "errprint", biErrprintArgs, nil)
	reg(biIfdef, "ifdef", biIfdefArgs, nil)
	reg(biIfelse, "ifelse", biIfelseArgs, nil)
	reg(biInclude, "include", biIncludeArgs, nil)
	reg(biLen, "len", biLenArgs, nil)
	reg(biIndex, "index", biIndexArgs, nil)
	reg(biSubstr, "substr", biSubstrArgs, nil)
	reg(biTranslit, "translit", biTranslitArgs, nil)
	reg(biUndivert, "undivert", biUndivertArgs, biUndivertNoArgs)
	reg(biDnl, "dnl", biDnlArgs, biDnlNoArgs)
	reg(biDivnum, "divnum", biDivnumArgs, biDivnumNoArgs)
	reg(biIncr, "incr", biIncrArgs, nil)
	reg(biHtdist, "htdist", biHtdistArgs, biHtdistNoArgs)
	reg(biDirsep, "dirsep", biDirsepArgs, biDirsepNoArgs)
	reg(biAdd, "add", biAddArgs, nil)
	reg(biMult, "mult", biMultArgs, nil)
	reg(biSub, "sub", biSubArgs, nil)
	reg(biDiv, "div", biDivArgs, nil)
	reg(biMod, "mod", biModArgs, nil)
}

// defineBuiltins registers every built-in name in the symbol table at
// startup, each marked by an absent user definition.
func (e *Engine) defineBuiltins() {
	for code, name := range builtinNames {
		e.symtab.defineBuiltin(name, builtinCode(code))
	}
}

// runBuiltinNoArgs runs the no-argument form of a built-in invoked
// without a following "(". Builtins with no defined no-arg behavior
// simply have their bare name appended to the active sink.
func (e *Engine) runBuiltinNoArgs(code builtinCode) error {
	if fn := noArgTable[code]; fn != nil {
		return fn(e)
	}
	return e.activeSink().AppendString(builtinNames[code])
}

// runBuiltinWithArgs runs the full-call form of a built-in after its
// closing paren, with f.args populated from the call's collected
// arguments.
func (e *Engine) runBuiltinWithArgs(f *callFrame, code builtinCode) error {
	fn := withArgsTable[code]
	if fn == nil {
		return fmt.Errorf("internal: no handler for builtin %s", f.name)
	}
	return fn(e, f)
}

// pushResult pushes s onto the input stream for re-scanning, the way
// most built-ins deliver their result.
func (e *Engine) pushResult(s string) error { return e.in.PushString(s) }

func biDefineArgs(e *Engine, f *callFrame) error {
	e.symtab.upsert(f.arg(1), f.arg(2))
	return nil
}

func biUndefineArgs(e *Engine, f *callFrame) error {
	if !e.symtab.delete(f.arg(1)) {
		return undefinedNameError{f.arg(1)}
	}
	return nil
}

func biChangequoteArgs(e *Engine, f *callFrame) error {
	l, r := f.arg(1), f.arg(2)
	bad := len(l) != 1 || len(r) != 1 || l == r ||
		!isGraphic(l[0]) || !isGraphic(r[0]) ||
		l[0] == '(' || r[0] == '(' || l[0] == ')' || r[0] == ')' ||
		l[0] == ',' || r[0] == ','
	if bad {
		return builtinArgError{"changequote",
			"quotes must be different single graphic bytes, not a comma or parenthesis"}
	}
	e.quoteLeft, e.quoteRight = l[0], r[0]
	return nil
}

func isGraphic(c byte) bool { return c > ' ' && c < 0x7f }

func biDivertArgs(e *Engine, f *callFrame) error {
	n, err := parseDivertArg(f.arg(1))
	if err != nil {
		return err
	}
	e.div.active = n
	return nil
}

func biDivertNoArgs(e *Engine) error {
	e.div.active = 0
	return nil
}

func parseDivertArg(s string) (int, error) {
	if s == "-1" {
		return discardDiversion, nil
	}
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return int(s[0] - '0'), nil
	}
	return 0, builtinArgError{"divert", "diversion number must be 0 to 9 or -1"}
}

func biDumpdefArgs(e *Engine, f *callFrame) error {
	for k := 1; k <= 9; k++ {
		name := f.arg(k)
		if name == "" {
			continue
		}
		if se := e.symtab.lookup(name); se != nil {
			e.diag.Printf("", "%s: %s", name, se.describe())
		} else {
			e.diag.Printf("", "%s: undefined", name)
		}
	}
	return nil
}

func biErrprintArgs(e *Engine, f *callFrame) error {
	for k := 1; k <= 9; k++ {
		if a := f.arg(k); a != "" {
			e.diag.Printf("", "%s", a)
		}
	}
	return nil
}

func biIfdefArgs(e *Engine, f *callFrame) error {
	if e.symtab.lookup(f.arg(1)) != nil {
		return e.pushResult(f.arg(2))
	}
	return e.pushResult(f.arg(3))
}

func biIfelseArgs(e *Engine, f *callFrame) error {
	if f.arg(1) == f.arg(2) {
		return e.pushResult(f.arg(3))
	}
	return e.pushResult(f.arg(4))
}

func biIncludeArgs(e *Engine, f *callFrame) error {
	path := f.arg(1)
	if err := e.in.LoadFile(path); err != nil {
		return builtinArgError{"include", fmt.Sprintf("failed to include file: %s: %v", path, err)}
	}
	return nil
}

func biLenArgs(e *Engine, f *callFrame) error {
	return e.pushResult(strconv.Itoa(len(f.arg(1))))
}

func biIndexArgs(e *Engine, f *callFrame) error {
	i := strings.Index(f.arg(1), f.arg(2))
	return e.pushResult(strconv.Itoa(i))
}

func biSubstrArgs(e *Engine, f *callFrame) error {
	s := f.arg(1)
	if len(s) == 0 {
		return nil
	}
	w, err := strconv.ParseUint(f.arg(2), 10, 64)
	if err != nil {
		return builtinArgError{"substr", "invalid index"}
	}
	n, err := strconv.ParseUint(f.arg(3), 10, 64)
	if err != nil {
		return builtinArgError{"substr", "invalid length"}
	}
	if w >= uint64(len(s)) {
		return nil
	}
	start := int(w)
	end := len(s)
	if n < uint64(len(s)-start) {
		end = start + int(n)
	}
	return e.pushResult(s[start:end])
}

func biTranslitArgs(e *Engine, f *callFrame) error {
	s, from, to := f.arg(1), f.arg(2), f.arg(3)

	var m [256]int
	for i := range m {
		m[i] = -1
	}
	n := len(from)
	if len(to) < n {
		n = len(to)
	}
	for i := 0; i < n; i++ {
		if m[from[i]] == -1 {
			m[from[i]] = int(to[i])
		}
	}
	for i := n; i < len(from); i++ {
		m[from[i]] = 0
	}

	var out strings.Builder
	for i := 0; i < len(s); i++ {
		switch x := m[s[i]]; x {
		case -1:
			out.WriteByte(s[i])
		case 0:
			// deleted
		default:
			out.WriteByte(byte(x))
		}
	}
	return e.pushResult(out.String())
}

func biUndivertArgs(e *Engine, f *callFrame) error {
	if e.div.active == 0 {
		for k := 1; k <= 9; k++ {
			if n, ok := singleDigit(f.arg(k)); ok && n != 0 {
				if err := e.div.flushOne(n, e.out); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for k := 1; k <= 9; k++ {
		if n, ok := singleDigit(f.arg(k)); ok && n != 0 && n != e.div.active {
			if err := e.div.undivertInto(e.div.active, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func singleDigit(s string) (int, bool) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return int(s[0] - '0'), true
	}
	return 0, false
}

func biUndivertNoArgs(e *Engine) error {
	if e.div.active != 0 {
		return builtinArgError{"undivert", "can only call without arguments from diversion 0"}
	}
	return e.div.flushAll(e.out)
}

func biDnlArgs(e *Engine, f *callFrame) error { return e.consumeToNewline() }
func biDnlNoArgs(e *Engine) error             { return e.consumeToNewline() }

func (e *Engine) consumeToNewline() error {
	for {
		t, err := e.scanToken()
		if err != nil {
			return err
		}
		if t.kind == tokenOther && t.text == "\n" {
			return nil
		}
	}
}

func biDivnumArgs(e *Engine, f *callFrame) error { return e.pushDivnum() }
func biDivnumNoArgs(e *Engine) error             { return e.pushDivnum() }

func (e *Engine) pushDivnum() error {
	n := e.div.active
	if n == discardDiversion {
		return e.pushResult("-1")
	}
	return e.pushResult(strconv.Itoa(n))
}

func biIncrArgs(e *Engine, f *callFrame) error {
	n, err := strconv.ParseUint(f.arg(1), 10, strconv.IntSize)
	if err != nil {
		return builtinArgError{"incr", "invalid number"}
	}
	if n == ^uint64(0) {
		return builtinArgError{"incr", "integer overflow"}
	}
	return e.pushResult(strconv.FormatUint(n+1, 10))
}

func biHtdistArgs(e *Engine, f *callFrame) error { return e.dumpHtdist() }
func biHtdistNoArgs(e *Engine) error             { return e.dumpHtdist() }

func (e *Engine) dumpHtdist() error {
	e.symtab.dumpDistribution(func(format string, args ...interface{}) {
		e.diag.Printf("", format, args...)
	})
	return nil
}

func biDirsepArgs(e *Engine, f *callFrame) error { return e.pushDirsep() }
func biDirsepNoArgs(e *Engine) error             { return e.pushDirsep() }

func (e *Engine) pushDirsep() error {
	return e.pushResult(string(filepath.Separator))
}
