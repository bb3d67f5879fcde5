package cdcl

// ClauseRef is a stable handle to a clause stored in an Arena: an arena
// slot index paired with a generation counter. Compact moves live clauses
// to new slots, so callers must apply the Remap returned by Compact to any
// cached ClauseRef (watch lists, reasons).
type ClauseRef struct {
	idx uint32
	gen uint32
}

// NoClauseRef is a sentinel (all-ones slot index), never produced by Alloc.
var NoClauseRef = ClauseRef{idx: ^uint32(0)}

func (r ClauseRef) valid() bool { return r.idx != NoClauseRef.idx }

// clauseSlot is one arena cell. A slot is live between Alloc and the next
// Compact that drops it (Free only flags it; reclamation is deferred).
type clauseSlot struct {
	clause Clause
	gen    uint32
	live   bool
}

// Arena owns the storage of every clause. It hands out ClauseRefs rather
// than pointers so that Compact can freely move clauses around.
type Arena struct {
	slots []clauseSlot
}

// Remap describes how a live ClauseRef moved during a Compact call.
type Remap struct {
	Old ClauseRef
	New ClauseRef
}

// Alloc stores a new clause's literals (copied) and flags, and returns a
// stable reference to it. Alloc never fails in this implementation (Go's
// allocator handles exhaustion via panic, which the caller is expected not
// to recover from — see errors.go for the boundary between usage errors
// and resource exhaustion).
func (a *Arena) Alloc(lits []Lit, learned bool) ClauseRef {
	c := Clause{
		literals: append([]Lit(nil), lits...),
		prevPos:  2,
	}
	c.abstraction = computeAbstraction(c.literals)
	if learned {
		c.flags |= clauseLearned
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, clauseSlot{clause: c, gen: 1, live: true})
	return ClauseRef{idx: idx, gen: 1}
}

// Get returns a pointer to the clause referenced by ref. The pointer is
// only valid until the next Compact.
func (a *Arena) Get(ref ClauseRef) *Clause {
	s := &a.slots[ref.idx]
	if !s.live || s.gen != ref.gen {
		panic("cdcl: stale clause reference")
	}
	return &s.clause
}

// Free marks ref's clause removed. The arena's bytes are not reclaimed
// until the next Compact.
func (a *Arena) Free(ref ClauseRef) {
	s := &a.slots[ref.idx]
	s.live = false
	s.clause.literals = nil
}

// Len reports the number of slots, live or not, currently held.
func (a *Arena) Len() int { return len(a.slots) }

// Compact copies every live clause into a fresh slot array, preserving
// their relative order (so a reduction policy's sort order survives
// compaction), and returns the list of (old, new) reference pairs the
// caller must use to rewrite watch lists and reasons.
func (a *Arena) Compact() []Remap {
	remaps := make([]Remap, 0, len(a.slots))
	fresh := make([]clauseSlot, 0, len(a.slots))
	for idx, s := range a.slots {
		if !s.live {
			continue
		}
		newIdx := uint32(len(fresh))
		fresh = append(fresh, clauseSlot{clause: s.clause, gen: 1, live: true})
		remaps = append(remaps, Remap{
			Old: ClauseRef{idx: uint32(idx), gen: s.gen},
			New: ClauseRef{idx: newIdx, gen: 1},
		})
	}
	a.slots = fresh
	return remaps
}
