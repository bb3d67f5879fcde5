package cdcl

// buildClause simplifies a candidate clause against the current (level-0)
// assignment and structure: drops duplicate literals, detects tautologies
// (opposite literal present), drops already-false literals, and
// special-cases length 0/1/2/3 before falling through to an arena clause.
// It returns ok=false only when the clause reduces to an immediate
// top-level conflict (empty clause, or a unit that is already falsified).
func (s *Solver) buildClause(lits []Lit, learned bool) (ref ClauseRef, isLong bool, ok bool) {
	tmp := lits
	if !learned {
		tmp = s.dedupAndSimplify(lits)
		if tmp == nil && len(lits) > 0 {
			return ClauseRef{}, false, true // tautology: silently accepted, not added
		}
	}

	switch len(tmp) {
	case 0:
		return ClauseRef{}, false, false
	case 1:
		return ClauseRef{}, false, s.enqueue(tmp[0], noReason)
	case 2:
		if learned {
			s.orderByLevelKeepFirst(tmp)
		}
		s.addBinary(tmp[0], tmp[1], learned)
		return ClauseRef{}, false, true
	case 3:
		if learned {
			s.orderByLevelKeepFirst(tmp)
		}
		s.addTernary(tmp[0], tmp[1], tmp[2], learned)
		return ClauseRef{}, false, true
	default:
		if learned {
			s.orderByLevelKeepFirst(tmp)
		}
		ref = s.arena.Alloc(tmp, learned)
		s.addLong(ref)
		return ref, true, true
	}
}

// orderByLevelKeepFirst moves the highest-level literal among lits[1:]
// into position 1, leaving lits[0] (the asserting literal produced by
// analyze, still unassigned at call time) untouched. This gives a freshly
// learned clause the watched pair it needs: the asserting literal and the
// backjump-level literal.
func (s *Solver) orderByLevelKeepFirst(lits []Lit) {
	if len(lits) < 2 {
		return
	}
	best, bestLvl := 1, s.vars.varLevel(lits[1].Var())
	for i := 2; i < len(lits); i++ {
		if lvl := s.vars.varLevel(lits[i].Var()); lvl > bestLvl {
			best, bestLvl = i, lvl
		}
	}
	lits[1], lits[best] = lits[best], lits[1]
}

// dedupAndSimplify is only used for original (non-learned) clauses: it
// removes duplicate literals in place, drops literals already false at
// level 0, and returns nil if the clause is a tautology or already
// satisfied.
func (s *Solver) dedupAndSimplify(lits []Lit) []Lit {
	// litMark[v] is 0 (unseen), +1 (seen positive) or -1 (seen negative)
	// for the duration of this scan; cleared again below before returning.
	out := lits[:0]
	for _, l := range lits {
		v := l.Var()
		switch s.litMark[v] {
		case 0:
			s.litMark[v] = markFor(l)
			out = append(out, l)
		case markFor(l):
			// duplicate literal, drop silently
		default:
			s.clearMarks(lits)
			return nil // opposite literal present: tautology
		}
	}
	s.clearMarks(out)

	kept := out[:0]
	for _, l := range out {
		switch s.vars.litValue(l) {
		case True:
			return nil // already satisfied
		case False:
			// drop
		default:
			kept = append(kept, l)
		}
	}
	return kept
}

func (s *Solver) clearMarks(lits []Lit) {
	for _, l := range lits {
		s.litMark[l.Var()] = 0
	}
}

func markFor(l Lit) int8 {
	if l.Sign() {
		return -1
	}
	return 1
}
