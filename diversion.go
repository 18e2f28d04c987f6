package main

import (
	"github.com/jcorbin/gom4/internal/membuf"
)

// discardDiversion is the index diversion "-1" is modeled as: a real
// buffer whose contents are simply never flushed, avoiding a special
// case at every write site.
const discardDiversion = 10

// diversionSet holds the 11 numbered output buffers (0 is normal output,
// 1..9 are held diversions, 10 is discard-only) and tracks which one is
// currently active.
type diversionSet struct {
	bufs   [11]membuf.Buffer
	active int
}

func (d *diversionSet) buf(n int) *membuf.Buffer { return &d.bufs[n] }

// setLimit caps every diversion buffer's growth; zero means unlimited.
func (d *diversionSet) setLimit(limit int) {
	for i := range d.bufs {
		d.bufs[i].Limit = limit
	}
}

func (d *diversionSet) activeBuf() *membuf.Buffer { return &d.bufs[d.active] }

// flushOne drains diversion n to w, if it has any content.
func (d *diversionSet) flushOne(n int, w writer) error {
	if d.bufs[n].Len() == 0 {
		return nil
	}
	_, err := d.bufs[n].WriteTo(w)
	return err
}

// flushAll drains diversions 0..9, in order, to w. Diversion 10 is never
// flushed.
func (d *diversionSet) flushAll(w writer) error {
	for n := 0; n <= 9; n++ {
		if err := d.flushOne(n, w); err != nil {
			return err
		}
	}
	return nil
}

// undivertInto moves diversion src's content onto the end of diversion
// dst, leaving src empty, silently skipping a no-op self-reference
// (dst == src). Used by undivert when called from a non-zero active
// diversion; matches m4.c's buf_dump_buf, which clears the source
// after copying.
func (d *diversionSet) undivertInto(dst, src int) error {
	if dst == src {
		return nil
	}
	if err := d.bufs[dst].AppendBytes(d.bufs[src].Bytes()); err != nil {
		return err
	}
	d.bufs[src].Reset()
	return nil
}

type writer interface {
	Write(p []byte) (int, error)
}
