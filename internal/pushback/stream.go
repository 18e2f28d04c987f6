// Package pushback implements the macro engine's input stream: a byte
// source that can be "unread" arbitrary strings into, backed by a single
// growable stack buffer, optionally draining a fallback reader (stdin)
// once the stack runs dry.
package pushback

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jcorbin/gom4/internal/membuf"
)

// ErrNotRegular is returned by LoadFile when the named path is not a
// regular file (a directory, device, or other special file).
var ErrNotRegular = errors.New("pushback: not a regular file")

// Stream is a LIFO byte stack plus an optional drain reader. Reading pops
// the most recently pushed byte; once the stack is empty, reads fall
// through to the drain reader if one is set, otherwise io.EOF.
//
// The backing buffer stores pushed bytes in stack order: the last byte
// pushed is the last byte of the slice, and is the next byte read.
type Stream struct {
	stack membuf.Buffer
	drain io.Reader
}

// SetDrain sets (or clears, with nil) the fallback reader consulted once
// the pushback stack is empty.
func (s *Stream) SetDrain(r io.Reader) { s.drain = r }

// SetLimit caps the pushback stack's total growth; zero means unlimited.
func (s *Stream) SetLimit(limit int) { s.stack.Limit = limit }

// Reserve grows the pushback stack once to fit at least n additional
// bytes, avoiding repeated regrowth when the caller already knows how
// much it is about to push (the CLI's multi-file pre-sizing pass).
func (s *Stream) Reserve(n int) error { return s.stack.Grow(n) }

// ReadByte returns the next byte: the top of the pushback stack if
// non-empty, otherwise one byte from the drain reader, otherwise io.EOF.
func (s *Stream) ReadByte() (byte, error) {
	if n := s.stack.Len(); n > 0 {
		b := s.stack.Bytes()[n-1]
		s.stack.Truncate(n - 1)
		return b, nil
	}
	if s.drain == nil {
		return 0, io.EOF
	}
	var one [1]byte
	n, err := s.drain.Read(one[:])
	if n > 0 {
		return one[0], nil
	}
	if err == nil {
		err = io.EOF
	}
	return 0, err
}

// PushByte pushes a single byte such that it is the very next byte read.
func (s *Stream) PushByte(c byte) error {
	return s.stack.AppendByte(c)
}

// PushString pushes the bytes of str such that str's first byte is the
// first one read back out, and the existing pending bytes follow after.
// Atomic: on a grow failure the stream is left unchanged.
func (s *Stream) PushString(str string) error {
	if len(str) == 0 {
		return nil
	}
	if err := s.stack.Grow(len(str)); err != nil {
		return err
	}
	for i := len(str) - 1; i >= 0; i-- {
		// Grow already reserved the space; these cannot fail.
		_ = s.stack.AppendByte(str[i])
	}
	return nil
}

// Empty reports whether the pushback stack (not the drain reader) is
// exhausted.
func (s *Stream) Empty() bool { return s.stack.Len() == 0 }

// LoadFile reads the regular file at path whole and pushes it such that
// its first byte is read first. Fails if path is not a regular file, if
// its reported size is negative, or on any I/O error.
func (s *Stream) LoadFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if fi.Size() < 0 {
		return fmt.Errorf("%w: %s: negative size", ErrNotRegular, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.PushString(string(data))
}
