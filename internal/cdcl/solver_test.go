package cdcl

import (
	"context"
	"testing"
)

// lits takes 1-indexed DIMACS-style integers (never 0): a negative value
// names the negated literal of variable |v|-1.
func lits(vs ...int) []Lit {
	out := make([]Lit, len(vs))
	for i, v := range vs {
		if v < 0 {
			out[i] = NegLit(Var(-v - 1))
		} else {
			out[i] = PosLit(Var(v - 1))
		}
	}
	return out
}

func newVars(s *Solver, n int) {
	for i := 0; i < n; i++ {
		s.NewVar()
	}
}

func TestSolve_trivialSAT(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 2)
	mustAddClause(t, s, lits(1, 2))
	mustAddClause(t, s, lits(-1, 2))

	if got := s.Solve(context.Background()); got != StatusSat {
		t.Fatalf("Solve() = %v, want SAT", got)
	}
	if s.Value(PosLit(1)) != True {
		t.Errorf("Value(var 1) = %v, want true", s.Value(PosLit(1)))
	}
}

func TestSolve_trivialUNSAT(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 1)
	mustAddClause(t, s, lits(1))
	mustAddClause(t, s, lits(-1))

	if got := s.Solve(context.Background()); got != StatusUnsat {
		t.Fatalf("Solve() = %v, want UNSAT", got)
	}
}

// pigeonhole(n) encodes n+1 pigeons into n holes: unsatisfiable for any n
// >= 1, and small enough (n=4) to force real conflict-driven backtracking
// through the main loop rather than pure unit propagation.
func pigeonhole(s *Solver, n int) {
	pigeon := func(p, h int) int { return p*n + h }
	newVars(s, (n+1)*n)
	for p := 0; p <= n; p++ {
		row := make([]Lit, n)
		for h := 0; h < n; h++ {
			row[h] = PosLit(Var(pigeon(p, h)))
		}
		s.AddClause(row)
	}
	for h := 0; h < n; h++ {
		for p1 := 0; p1 <= n; p1++ {
			for p2 := p1 + 1; p2 <= n; p2++ {
				s.AddClause([]Lit{NegLit(Var(pigeon(p1, h))), NegLit(Var(pigeon(p2, h)))})
			}
		}
	}
}

func TestSolve_pigeonholeUNSAT(t *testing.T) {
	s := New(DefaultConfig())
	pigeonhole(s, 4)

	if got := s.Solve(context.Background()); got != StatusUnsat {
		t.Fatalf("Solve() = %v, want UNSAT", got)
	}
}

func TestSolve_emptyClauseIsUnsat(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 1)
	if err := s.AddClause(nil); err != nil {
		t.Fatalf("AddClause(nil): %v", err)
	}
	if got := s.Solve(context.Background()); got != StatusUnsat {
		t.Fatalf("Solve() = %v, want UNSAT", got)
	}
}

func TestSolve_tautologyIgnored(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 1)
	mustAddClause(t, s, lits(1, -1))

	if got := s.Solve(context.Background()); got != StatusSat {
		t.Fatalf("Solve() = %v, want SAT", got)
	}
}

func TestAddClause_outOfRangeVariableIsUsageError(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 1)
	err := s.AddClause(lits(6))
	if !IsUsageError(err) {
		t.Fatalf("AddClause() err = %v, want a UsageError", err)
	}
	if err2 := s.AddClause(lits(1)); err2 != ErrPoisoned {
		t.Errorf("AddClause() after poisoning = %v, want ErrPoisoned", err2)
	}
}

func TestAssume_failedCore(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 3)
	// var0 and var1 together force var2, which a unit clause forbids: the
	// conflict only arises once both assumptions are installed, so both
	// belong to the minimal failed core.
	mustAddClause(t, s, lits(-1, -2, 3))
	mustAddClause(t, s, lits(-3))

	s.Assume(PosLit(0))
	s.Assume(PosLit(1))

	if got := s.Solve(context.Background()); got != StatusUnsat {
		t.Fatalf("Solve() = %v, want UNSAT under assumptions", got)
	}
	if !s.Failed(PosLit(0)) {
		t.Errorf("Failed(var 0) = false, want true: part of the minimal failed core")
	}
	if !s.Failed(PosLit(1)) {
		t.Errorf("Failed(var 1) = false, want true: part of the minimal failed core")
	}
}

func TestAssume_thenRelax(t *testing.T) {
	s := New(DefaultConfig())
	newVars(s, 1)
	mustAddClause(t, s, lits(1, -1)) // tautology, keeps clause count > 0

	s.Assume(PosLit(0))
	if got := s.Solve(context.Background()); got != StatusSat {
		t.Fatalf("Solve() under assumption = %v, want SAT", got)
	}
	if s.Value(PosLit(0)) != True {
		t.Errorf("Value(var 0) = %v, want true under assumption", s.Value(PosLit(0)))
	}

	s.ClearAssumptions()
	s.Assume(NegLit(0))
	if got := s.Solve(context.Background()); got != StatusSat {
		t.Fatalf("Solve() under relaxed assumption = %v, want SAT", got)
	}
	if s.Value(PosLit(0)) != False {
		t.Errorf("Value(var 0) = %v, want false under assumption", s.Value(PosLit(0)))
	}
}

func TestSetBudget_stopsAtUnknown(t *testing.T) {
	s := New(DefaultConfig())
	pigeonhole(s, 4)
	s.SetBudget(1, 0)

	if got := s.Solve(context.Background()); got != StatusUnknown {
		t.Fatalf("Solve() with a 1-propagation budget = %v, want UNKNOWN", got)
	}
}

func TestSetInterrupt_stopsImmediately(t *testing.T) {
	s := New(DefaultConfig())
	pigeonhole(s, 4)
	s.SetInterrupt(func() bool { return true })

	if got := s.Solve(context.Background()); got != StatusUnknown {
		t.Fatalf("Solve() with an always-true interrupt = %v, want UNKNOWN", got)
	}
}

func TestSolve_isDeterministic(t *testing.T) {
	run := func() Status {
		s := New(DefaultConfig())
		s.SetRNGSeed(42)
		pigeonhole(s, 5)
		return s.Solve(context.Background())
	}
	want := run()
	for i := 0; i < 3; i++ {
		if got := run(); got != want {
			t.Fatalf("run %d: Solve() = %v, want %v (same seed must reproduce the same verdict)", i, got, want)
		}
	}
}

func mustAddClause(t *testing.T, s *Solver, l []Lit) {
	t.Helper()
	if err := s.AddClause(l); err != nil {
		t.Fatalf("AddClause(%v): %v", l, err)
	}
}
