package cdcl

// conflictClause names whichever clause representation (binary, ternary or
// long) caused a propagation conflict, mirroring Reason's tagged-union
// shape: no separate class hierarchy for "conflict" vs "reason".
type conflictClause struct {
	kind reasonKind
	lits [3]Lit // kind==reasonBinary uses [0:2], reasonTern uses [0:3]
	ref  ClauseRef
}

func (c conflictClause) valid() bool { return c.kind != reasonNone }

// explainConflict returns the antecedent literals (all true) of a
// conflicting clause: the negation of every one of its literals, since a
// conflict means every literal evaluated false.
func (s *Solver) explainConflict(cc conflictClause, out []Lit) []Lit {
	out = out[:0]
	switch cc.kind {
	case reasonBinary:
		out = append(out, cc.lits[0].Opposite(), cc.lits[1].Opposite())
	case reasonTern:
		out = append(out, cc.lits[0].Opposite(), cc.lits[1].Opposite(), cc.lits[2].Opposite())
	case reasonLong:
		c := s.arena.Get(cc.ref)
		for _, l := range c.literals {
			out = append(out, l.Opposite())
		}
	}
	return out
}

// explainAssign returns the antecedent literals (all true) that forced an
// assignment via reason r: the negation of every literal of the reason
// clause except the one that got assigned.
func (s *Solver) explainAssign(r Reason, out []Lit) []Lit {
	out = out[:0]
	switch r.kind {
	case reasonBinary:
		out = append(out, r.lit.Opposite())
	case reasonTern:
		out = append(out, r.lit.Opposite(), r.lit2.Opposite())
	case reasonLong:
		c := s.arena.Get(r.ref)
		for _, l := range c.literals[1:] {
			out = append(out, l.Opposite())
		}
	}
	return out
}

// propagate drains the propagation queue using the two-watched-literal
// scheme. It returns the conflicting clause (zero value, invalid, if none)
// once the queue is empty or a conflict is hit, at which point the queue
// is cleared.
func (s *Solver) propagate() conflictClause {
	for s.propQueue.Size() > 0 {
		p := s.propQueue.Pop()
		list := &s.watches[p]
		entries := list.entries
		kept := entries[:0]

		for i := 0; i < len(entries); i++ {
			e := entries[i]
			switch e.kind {
			case watchBin:
				switch s.vars.litValue(e.other) {
				case True:
					kept = append(kept, e)
				case False:
					kept = append(kept, entries[i:]...)
					list.entries = kept
					s.propQueue.Clear()
					return conflictClause{kind: reasonBinary, lits: [3]Lit{p.Opposite(), e.other}}
				default:
					s.enqueue(e.other, binaryReason(p.Opposite()))
					kept = append(kept, e)
				}

			case watchTern:
				v1, v2 := s.vars.litValue(e.other), s.vars.litValue(e.other2)
				switch {
				case v1 == True || v2 == True:
					kept = append(kept, e)
				case v1 == False && v2 == False:
					kept = append(kept, entries[i:]...)
					list.entries = kept
					s.propQueue.Clear()
					return conflictClause{kind: reasonTern, lits: [3]Lit{p.Opposite(), e.other, e.other2}}
				case v1 == Undef && v2 == False:
					s.enqueue(e.other, ternReason(p.Opposite(), e.other2))
					kept = append(kept, e)
				case v2 == Undef && v1 == False:
					s.enqueue(e.other2, ternReason(p.Opposite(), e.other))
					kept = append(kept, e)
				default: // both undef: not yet determined
					kept = append(kept, e)
				}

			case watchLong:
				if s.vars.litValue(e.other) == True { // cached blocker still true
					kept = append(kept, e)
					continue
				}

				c := s.arena.Get(e.ref)
				falseWatched := p.Opposite()
				if c.literals[0] == falseWatched {
					c.literals[0], c.literals[1] = c.literals[1], c.literals[0]
				}

				if s.vars.litValue(c.literals[0]) == True {
					kept = append(kept, watchEntry{kind: watchLong, ref: e.ref, other: c.literals[0], learned: e.learned})
					continue
				}

				found := -1
				if c.prevPos < 2 || c.prevPos >= len(c.literals) {
					c.prevPos = 2
				}
				for k := c.prevPos; k < len(c.literals); k++ {
					if s.vars.litValue(c.literals[k]) != False {
						found = k
						break
					}
				}
				if found < 0 {
					for k := 2; k < c.prevPos; k++ {
						if s.vars.litValue(c.literals[k]) != False {
							found = k
							break
						}
					}
				}

				if found >= 0 {
					c.literals[1], c.literals[found] = c.literals[found], c.literals[1]
					c.prevPos = found + 1
					s.watchAt(c.literals[1].Opposite(), watchEntry{
						kind: watchLong, ref: e.ref, other: c.literals[0], learned: e.learned,
					})
					continue // moved, do not keep in this list
				}

				// literals[0] is the only remaining non-false literal.
				kept = append(kept, watchEntry{kind: watchLong, ref: e.ref, other: c.literals[0], learned: e.learned})
				if s.vars.litValue(c.literals[0]) == False {
					kept = append(kept, entries[i+1:]...)
					list.entries = kept
					s.propQueue.Clear()
					return conflictClause{kind: reasonLong, ref: e.ref}
				}
				s.enqueue(c.literals[0], s.longPropagationReason(c, e.ref))
			}
		}
		list.entries = kept
	}
	return conflictClause{}
}

// longPropagationReason returns the reason a long clause's forced literal
// should carry: ordinarily longReason(ref), but when lazy hyper-binary
// resolution is enabled and every other literal of c was itself forced by
// the same binary antecedent k, it instead adds the binary clause (k,
// asserted), emits it to the trace sink, and returns a binary reason
// pointing at k.
func (s *Solver) longPropagationReason(c *Clause, ref ClauseRef) Reason {
	if !s.cfg.LazyHyperBinary || s.decisionLevel() == 0 {
		return longReason(ref)
	}
	k, ok := s.commonBinaryAntecedent(c, c.literals[0])
	if !ok {
		return longReason(ref)
	}
	s.addBinary(k, c.literals[0], true)
	s.trace.Learned([]Lit{k, c.literals[0]})
	return binaryReason(k)
}

// commonBinaryAntecedent reports whether every literal of c other than
// asserted was forced false by a binary reason whose antecedent is the
// same literal k.
func (s *Solver) commonBinaryAntecedent(c *Clause, asserted Lit) (k Lit, ok bool) {
	first := true
	for _, q := range c.literals {
		if q == asserted {
			continue
		}
		r := s.vars.varReason(q.Var())
		if r.kind != reasonBinary {
			return 0, false
		}
		if first {
			k, first = r.lit, false
		} else if r.lit != k {
			return 0, false
		}
	}
	if first {
		return 0, false
	}
	return k, true
}
