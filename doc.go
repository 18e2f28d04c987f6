/*
Package main implements gom4, a small streaming m4-style macro processor.

The engine reads tokens one at a time from a pushback input stream,
recognizes calls to built-in or user-defined macros, collects their
arguments across nested calls and quoted regions, substitutes $1..$9
parameters into user definitions, and writes the result through one of
eleven numbered diversion buffers: buffer 0 streams continuously to
standard output, buffers 1..9 are held until an explicit undivert or
shutdown, and buffer 10 is a discard sink for the conventional "-1"
diversion.

See engine.go and loop.go for the outer dispatch loop, symtab.go for the
macro name table, and builtins.go/builtins_arith.go for the built-in
macro set.
*/
package main
