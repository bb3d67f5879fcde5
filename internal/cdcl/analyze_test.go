package cdcl

import "testing"

// TestIsRedundant_rollsBackSeenMarksOnFailure exercises the exact scenario
// a careful reviewer would flag: a failed recursive-minimization probe must
// not leave its speculative seen marks behind for a later, unrelated
// probe to (incorrectly) treat as proof of redundancy.
func TestIsRedundant_rollsBackSeenMarksOnFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Minimize = MinimizeRecursive
	s := New(cfg)
	newVars(s, 5)

	a := lits(1)[0]
	b := lits(2)[0]
	l1 := lits(3)[0]
	l2 := lits(4)[0]
	uip := lits(5)[0]

	s.decide(a)                   // A: decision literal, no reason (the "poison" var)
	s.enqueue(b, binaryReason(a))  // B's only antecedent is A
	s.enqueue(l1, binaryReason(b)) // l1's only antecedent is B
	s.enqueue(l2, binaryReason(b)) // l2's only antecedent is B too
	s.enqueue(uip, noReason)

	// Mimic the seen set analyze() would have built before minimize() runs:
	// every literal already in the learned clause is marked, but B and A
	// are not (they were only ever resolved through, not kept).
	s.vars.seen.clear()
	s.vars.seen.add(uip.Var())
	s.vars.seen.add(l1.Var())
	s.vars.seen.add(l2.Var())

	if s.isRedundant(l1) {
		t.Fatalf("isRedundant(l1) = true, want false: the chain bottoms out at decision literal A, which has no reason")
	}
	if s.vars.seen.contains(b.Var()) {
		t.Errorf("seen mark for B leaked after isRedundant(l1) returned false, want it rolled back")
	}

	if s.isRedundant(l2) {
		t.Errorf("isRedundant(l2) = true, want false: a leftover seen mark on B from the failed l1 probe must not make l2 look redundant")
	}
}

// TestIsRedundant_recursiveTrueWhenChainResolvesIntoClause confirms the
// non-failing path still works: when every antecedent bottoms out either
// in the clause's existing seen set or at level 0, the literal is
// redundant.
func TestIsRedundant_recursiveTrueWhenChainResolvesIntoClause(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Minimize = MinimizeRecursive
	s := New(cfg)
	newVars(s, 4)

	root := lits(1)[0]
	mid := lits(2)[0]
	l := lits(3)[0]
	uip := lits(4)[0]

	s.enqueue(root, noReason) // level 0: top-level forced, "free"
	s.decide(mid)
	s.enqueue(l, binaryReason(mid))

	s.vars.seen.clear()
	s.vars.seen.add(uip.Var())
	s.vars.seen.add(l.Var())
	s.vars.seen.add(mid.Var())

	if !s.isRedundant(l) {
		t.Fatalf("isRedundant(l) = false, want true: l's only antecedent (mid) is already in the clause")
	}
}

// TestIsRedundant_localModeChecksDirectAntecedentsOnly confirms
// MinimizeLocal rejects a literal whose antecedent isn't already seen,
// even when that antecedent would itself resolve away under recursive mode.
func TestIsRedundant_localModeChecksDirectAntecedentsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Minimize = MinimizeLocal
	s := New(cfg)
	newVars(s, 4)

	root := lits(1)[0]
	mid := lits(2)[0]
	l := lits(3)[0]
	uip := lits(4)[0]

	s.enqueue(root, noReason)
	s.decide(mid)
	s.enqueue(l, binaryReason(mid))

	s.vars.seen.clear()
	s.vars.seen.add(uip.Var())
	s.vars.seen.add(l.Var())
	// mid deliberately left unmarked: local mode must not look past it.

	if s.isRedundant(l) {
		t.Errorf("isRedundant(l) = true under MinimizeLocal, want false: mid is not in the seen set")
	}
}

// TestMinimize_dropsRedundantLiteral checks minimize()'s end-to-end effect:
// a literal whose antecedent is already in the clause is removed, while the
// UIP literal in position 0 is never touched.
func TestMinimize_dropsRedundantLiteral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Minimize = MinimizeRecursive
	s := New(cfg)
	newVars(s, 4)

	root := lits(1)[0]
	mid := lits(2)[0]
	l := lits(3)[0]
	uip := lits(4)[0]

	s.enqueue(root, noReason)
	s.decide(mid)
	s.enqueue(l, binaryReason(mid))

	s.vars.seen.clear()
	s.vars.seen.add(uip.Var())
	s.vars.seen.add(l.Var())
	s.vars.seen.add(mid.Var())

	clause := []Lit{uip, l}
	kept := s.minimize(clause)

	if len(kept) != 1 || kept[0] != uip {
		t.Fatalf("minimize(%v) = %v, want [%v] (l dropped as redundant)", clause, kept, uip)
	}
}
