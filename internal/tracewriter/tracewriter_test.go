package tracewriter

import (
	"bytes"
	"testing"

	"github.com/arnegrid/cadet/internal/cdcl"
)

func TestDRUP_LearnedAndDeleted(t *testing.T) {
	var buf bytes.Buffer
	d := NewDRUP(&buf)

	d.Learned([]cdcl.Lit{cdcl.PosLit(0), cdcl.NegLit(1)})
	d.Deleted([]cdcl.Lit{cdcl.PosLit(0), cdcl.NegLit(1)})

	if err := d.Flush(); err != nil {
		t.Fatalf("Flush(): %v", err)
	}

	want := "1 -2 0\nd 1 -2 0\n"
	if got := buf.String(); got != want {
		t.Errorf("DRUP output = %q, want %q", got, want)
	}
}

func TestDRUP_Err(t *testing.T) {
	d := NewDRUP(&bytes.Buffer{})
	if err := d.Err(); err != nil {
		t.Errorf("Err() = %v, want nil before any write failure", err)
	}
}
