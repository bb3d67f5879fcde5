package cdcl

import "strings"

// clauseFlags packs the clause header bits into a single word adjacent to
// size/glue so the propagator's hot path touches one cache line.
type clauseFlags uint8

const (
	clauseLearned clauseFlags = 1 << iota
	clauseRemoved
	clauseFrozen // never touched by the reduction manager
	clauseHasExtra
)

// Clause is an arena-owned record. Only clauses of length >= 4 live in the
// arena: unit, binary and ternary clauses never reach here. Binary and
// ternary clauses are represented entirely inline inside watch entries
// (see watch.go's watchBin/watchTern), so propagating them never touches
// the arena at all.
type Clause struct {
	literals []Lit
	flags    clauseFlags

	// abstraction is a 32-bit Bloom filter over variable indices, used by
	// the inprocessor to reject subsumption candidates without reading
	// literals. Bit (variable_index mod 29) is set for every literal;
	// saturated to all-ones for clauses longer than 100 literals.
	abstraction uint32

	glue      uint32  // LBD, meaningful only for learned clauses
	activity  float64 // meaningful only for learned clauses
	learnedAt uint64  // conflict count at creation, used by the fresh-clause reduction exemption

	// prevPos caches where the last search for a new watch literal left
	// off, so repeated propagation of a long clause doesn't always rescan
	// from the start. Always in [2, len(literals)-1] when valid.
	prevPos int
}

const abstractionBits = 29

func computeAbstraction(lits []Lit) uint32 {
	if len(lits) > 100 {
		return ^uint32(0)
	}
	var a uint32
	for _, l := range lits {
		a |= 1 << (uint32(l.Var()) % abstractionBits)
	}
	return a
}

func (c *Clause) recomputeAbstraction() { c.abstraction = computeAbstraction(c.literals) }

func (c *Clause) Len() int           { return len(c.literals) }
func (c *Clause) Lits() []Lit        { return c.literals }
func (c *Clause) Lit(i int) Lit      { return c.literals[i] }
func (c *Clause) IsLearned() bool    { return c.flags&clauseLearned != 0 }
func (c *Clause) IsRemoved() bool    { return c.flags&clauseRemoved != 0 }
func (c *Clause) isProtected() bool  { return c.flags&clauseFrozen != 0 }
func (c *Clause) setProtected(v bool) {
	if v {
		c.flags |= clauseFrozen
	} else {
		c.flags &^= clauseFrozen
	}
}

// subsumes reports whether c (as a set of literals) is a subset of other,
// using the abstraction signature to reject non-candidates cheaply before
// falling back to the O(n*m) literal scan.
func (c *Clause) subsumes(other *Clause) bool {
	if c.abstraction&^other.abstraction != 0 {
		return false // c has a variable other provably doesn't
	}
	if c.Len() > other.Len() {
		return false
	}
	for _, l := range c.literals {
		found := false
		for _, ol := range other.literals {
			if l == ol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// selfSubsumingLiteral returns the single literal of other that, if
// flipped, would let c subsume it (self-subsuming resolution), or a
// NegLit(0) sentinel with ok=false if no such literal exists.
func (c *Clause) selfSubsumingLiteral(other *Clause) (lit Lit, ok bool) {
	mismatch := -1
	for _, l := range c.literals {
		matched := false
		flippedAt := -1
		for i, ol := range other.literals {
			if l == ol {
				matched = true
				break
			}
			if l == ol.Opposite() {
				flippedAt = i
			}
		}
		if matched {
			continue
		}
		if flippedAt < 0 {
			return 0, false
		}
		if mismatch >= 0 {
			// A second literal of c mismatches other: self-subsuming
			// resolution only holds for exactly one flipped literal.
			return 0, false
		}
		mismatch = flippedAt
	}
	if mismatch < 0 {
		return 0, false
	}
	return other.literals[mismatch], true
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteByte('(')
	for i, l := range c.literals {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(l.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
