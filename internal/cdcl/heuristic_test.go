package cdcl

import "testing"

func TestSetPolarity_overridesPhasePolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PhasePolicy = PhaseTrue
	s := New(cfg)
	newVars(s, 1)
	v := Var(0)

	s.SetPolarity(v, false)
	if got := s.decideLiteral(v); got != NegLit(v) {
		t.Fatalf("decideLiteral(v) = %v after SetPolarity(v, false), want NegLit(v)", got)
	}

	s.ClearPolarity(v)
	if got := s.decideLiteral(v); got != NegLit(v) {
		t.Fatalf("decideLiteral(v) = %v after ClearPolarity(v), want NegLit(v) (phase memory holds the pinned value and outranks the PhaseTrue default)", got)
	}
}

func TestSetPolarity_outranksSavedPhase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PhasePolicy = PhaseSaved
	s := New(cfg)
	newVars(s, 1)
	v := Var(0)

	s.vars.phase[v] = True // simulate a previously saved phase
	s.SetPolarity(v, false)

	if got := s.decideLiteral(v); got != NegLit(v) {
		t.Fatalf("decideLiteral(v) = %v, want NegLit(v): a pinned polarity must outrank saved phase", got)
	}
}
