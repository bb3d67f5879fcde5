// Package tracewriter implements a cdcl.TraceSink that writes a DRUP proof
// (one addition or deletion per line), grounded on cryptominisat's Drup
// writer: an added clause is its literals followed by " 0\n", a deleted
// clause is the same line prefixed with "d ".
package tracewriter

import (
	"bufio"
	"io"

	"github.com/arnegrid/cadet/internal/cdcl"
)

// DRUP buffers DRUP lines to w. The core treats a TraceSink as infallible,
// so write errors are stashed and surfaced later through Err/Flush rather
// than panicking mid-solve.
type DRUP struct {
	w   *bufio.Writer
	err error
}

// NewDRUP returns a DRUP sink writing to w. Callers must call Flush once
// solving finishes; closing w does not flush the buffer.
func NewDRUP(w io.Writer) *DRUP {
	return &DRUP{w: bufio.NewWriter(w)}
}

func (d *DRUP) writeLits(prefix string, lits []cdcl.Lit) {
	if d.err != nil {
		return
	}
	if prefix != "" {
		if _, err := d.w.WriteString(prefix); err != nil {
			d.err = err
			return
		}
	}
	for _, l := range lits {
		if _, err := d.w.WriteString(l.String()); err != nil {
			d.err = err
			return
		}
		if _, err := d.w.WriteString(" "); err != nil {
			d.err = err
			return
		}
	}
	if _, err := d.w.WriteString("0\n"); err != nil {
		d.err = err
	}
}

// Learned implements cdcl.TraceSink.
func (d *DRUP) Learned(lits []cdcl.Lit) {
	d.writeLits("", lits)
}

// Deleted implements cdcl.TraceSink.
func (d *DRUP) Deleted(lits []cdcl.Lit) {
	d.writeLits("d ", lits)
}

// Flush writes any buffered bytes to the underlying writer and returns the
// first write error encountered, if any.
func (d *DRUP) Flush() error {
	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}

// Err returns the first write error encountered, if any, without flushing.
func (d *DRUP) Err() error {
	return d.err
}
