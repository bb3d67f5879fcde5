// Package dimacs reads DIMACS CNF files (optionally gzip-compressed) into
// any solver exposing a NewVar/AddClause pair, decoupling the cdcl core
// from file formats. Parsing itself is delegated to
// github.com/rhartert/dimacs, wrapped here with a small Builder adapter.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	rhdimacs "github.com/rhartert/dimacs"

	"github.com/arnegrid/cadet/internal/cdcl"
)

// Writer is the shape LoadDIMACS needs from a solver: a way to allocate
// variables and add clauses. cdcl.Solver satisfies it directly.
type Writer interface {
	NewVar() cdcl.Var
	AddClause(lits []cdcl.Lit) error
}

// Header carries the variable/clause counts announced by a DIMACS "p cnf"
// line, which the core treats as hints only.
type Header struct {
	Variables int
	Clauses   int
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses filename into dw: variables are allocated first (one
// NewVar call per announced variable), then clauses are added in file
// order. gzipped selects whether the file is read through a gzip reader.
func LoadDIMACS(filename string, gzipped bool, dw Writer) (Header, error) {
	rc, err := reader(filename, gzipped)
	if err != nil {
		return Header{}, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer rc.Close()

	b := &builder{dw: dw}
	if err := rhdimacs.ReadBuilder(rc, b); err != nil {
		return b.hdr, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	return b.hdr, nil
}

// builder wraps a Writer to implement rhdimacs.Builder.
type builder struct {
	dw  Writer
	hdr Header
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	b.hdr = Header{Variables: nVars, Clauses: nClauses}
	for i := 0; i < nVars; i++ {
		b.dw.NewVar()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]cdcl.Lit, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = cdcl.NegLit(cdcl.Var(-l - 1))
		} else {
			clause[i] = cdcl.PosLit(cdcl.Var(l - 1))
		}
	}
	return b.dw.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil
}

// ParseModels returns the list of models contained in filename, a file in
// the one-model-per-line "*.cnf.models" convention (each line is a DIMACS
// clause body whose literals' signs give the model's values).
func ParseModels(filename string) ([][]bool, error) {
	rc, err := reader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer rc.Close()

	b := &modelBuilder{}
	if err := rhdimacs.ReadBuilder(rc, b); err != nil {
		return nil, err
	}
	return b.models, nil
}

type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have problem lines")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}

// WriteModel writes model to w in the same one-model-per-line convention
// ParseModels reads: a DIMACS clause body whose Nth literal's sign gives
// variable N's value, terminated by " 0".
func WriteModel(w io.Writer, model []bool) error {
	for i, b := range model {
		v := -(i + 1)
		if b {
			v = i + 1
		}
		if _, err := fmt.Fprintf(w, "%d ", v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "0")
	return err
}
