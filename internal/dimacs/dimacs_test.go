package dimacs

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arnegrid/cadet/internal/cdcl"
)

type instance struct {
	Variables int
	Clauses   [][]cdcl.Lit
}

func (i *instance) NewVar() cdcl.Var {
	v := cdcl.Var(i.Variables)
	i.Variables++
	return v
}

func (i *instance) AddClause(tmpClause []cdcl.Lit) error {
	clause := make([]cdcl.Lit, len(tmpClause))
	copy(clause, tmpClause)
	i.Clauses = append(i.Clauses, clause)
	return nil
}

var want = instance{
	Variables: 3,
	Clauses: [][]cdcl.Lit{
		{cdcl.PosLit(0), cdcl.PosLit(1), cdcl.PosLit(2)},
		{cdcl.PosLit(0), cdcl.PosLit(1), cdcl.NegLit(2)},
		{cdcl.PosLit(0), cdcl.NegLit(1), cdcl.PosLit(2)},
		{cdcl.NegLit(0), cdcl.PosLit(1), cdcl.PosLit(2)},
		{cdcl.NegLit(0), cdcl.NegLit(1), cdcl.PosLit(2)},
		{cdcl.NegLit(0), cdcl.PosLit(1), cdcl.NegLit(2)},
		{cdcl.PosLit(0), cdcl.NegLit(1), cdcl.NegLit(2)},
		{cdcl.NegLit(0), cdcl.NegLit(1), cdcl.NegLit(2)},
	},
}

func TestLoadDIMACS_cnf(t *testing.T) {
	got := instance{}
	_, gotErr := LoadDIMACS("testdata/test_instance.cnf", false, &got)

	if gotErr != nil {
		t.Fatalf("LoadDIMACS(): want no error, got %s", gotErr)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadDIMACS(): mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDIMACS_gzip(t *testing.T) {
	got := instance{}
	_, gotErr := LoadDIMACS("testdata/test_instance.cnf.gz", true, &got)

	if gotErr != nil {
		t.Fatalf("LoadDIMACS(): want no error, got %s", gotErr)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadDIMACS(): mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDIMACS_noFile(t *testing.T) {
	got := instance{}
	_, gotErr := LoadDIMACS("", false, &got)

	if gotErr == nil {
		t.Errorf("LoadDIMACS(): want error, got none")
	}
}

func TestLoadDIMACS_gzip_notGzipFile(t *testing.T) {
	got := instance{}
	_, gotErr := LoadDIMACS("testdata/test_instance.cnf", true, &got)

	if gotErr == nil {
		t.Errorf("LoadDIMACS(): want error, got none")
	}
}
