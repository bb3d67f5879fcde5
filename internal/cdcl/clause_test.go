package cdcl

import "testing"

func TestSelfSubsumingLiteral_singleMismatchStrengthens(t *testing.T) {
	c := &Clause{literals: lits(1, 2, 3)}
	other := &Clause{literals: lits(-1, 2, 3)}

	lit, ok := c.selfSubsumingLiteral(other)
	if !ok || lit != lits(-1)[0] {
		t.Fatalf("selfSubsumingLiteral(%v, %v) = (%v, %v), want (%v, true)", c.literals, other.literals, lit, ok, lits(-1)[0])
	}
}

// TestSelfSubsumingLiteral_rejectsTwoMismatches is the counterexample from
// review: c = (1 2 3), other = (-1 -2 3). Both literal 1 and literal 2 of c
// are negated in other, so this is not a valid single-literal resolution
// step and must be rejected, not resolved on whichever mismatch was seen
// last.
func TestSelfSubsumingLiteral_rejectsTwoMismatches(t *testing.T) {
	c := &Clause{literals: lits(1, 2, 3)}
	other := &Clause{literals: lits(-1, -2, 3)}

	if _, ok := c.selfSubsumingLiteral(other); ok {
		t.Fatalf("selfSubsumingLiteral(%v, %v) = ok=true, want false: two literals mismatch, not one", c.literals, other.literals)
	}
}

func TestSelfSubsumingLiteral_rejectsMissingLiteral(t *testing.T) {
	c := &Clause{literals: lits(1, 2, 4)}
	other := &Clause{literals: lits(-1, 2, 3)}

	if _, ok := c.selfSubsumingLiteral(other); ok {
		t.Fatalf("selfSubsumingLiteral(%v, %v) = ok=true, want false: literal 4 of c has no counterpart in other at all", c.literals, other.literals)
	}
}

func TestSelfSubsumingLiteral_noMismatchIsSubsumptionNotStrengthening(t *testing.T) {
	c := &Clause{literals: lits(1, 2, 3)}
	other := &Clause{literals: lits(1, 2, 3, 4)}

	if _, ok := c.selfSubsumingLiteral(other); ok {
		t.Fatalf("selfSubsumingLiteral(%v, %v) = ok=true, want false: c already subsumes other outright, no literal to flip", c.literals, other.literals)
	}
}
