package cdcl

// minimizeMode selects the learned-clause minimization strategy.
type minimizeMode uint8

const (
	MinimizeOff minimizeMode = iota
	MinimizeLocal
	MinimizeRecursive
)

const minimizeDepthCap = 512

// analyze performs first-UIP conflict analysis: it walks the trail
// backwards from the conflicting clause, resolving against each
// seen variable's reason, until exactly one literal of the current
// decision level remains (the UIP). It returns the learned clause
// (asserting literal first), the backjump level, and the clause's glue
// (LBD).
func (s *Solver) analyze(conflict conflictClause) (learned []Lit, backjumpLevel int, lbd uint32) {
	s.vars.seen.clear()
	s.tmpLearned = append(s.tmpLearned[:0], 0) // reserve position 0 for the UIP

	pathCount := 0
	trailIdx := len(s.trail) - 1
	curLevel := s.decisionLevel()

	if conflict.kind == reasonLong {
		s.bumpClauseActivity(conflict.ref)
	}
	ants := s.explainConflict(conflict, s.tmpExplain[:0])
	for {
		for _, q := range ants {
			v := q.Var()
			if s.vars.seen.contains(v) {
				continue
			}
			s.vars.seen.add(v)
			s.bumpVarActivity(v)
			lvl := s.vars.varLevel(v)
			switch {
			case lvl == curLevel:
				pathCount++
			case lvl > 0:
				s.tmpLearned = append(s.tmpLearned, q.Opposite())
			}
		}

		var l Lit
		for {
			l = s.trail[trailIdx]
			trailIdx--
			if s.vars.seen.contains(l.Var()) {
				break
			}
		}
		pathCount--
		if pathCount == 0 {
			s.tmpLearned[0] = l.Opposite()
			break
		}
		r := s.vars.varReason(l.Var())
		if r.kind == reasonLong {
			s.bumpClauseActivity(r.ref)
		}
		ants = s.explainAssign(r, s.tmpExplain[:0])
	}

	learned = s.minimize(s.tmpLearned)

	backjumpLevel = 0
	for _, l := range learned[1:] {
		if lvl := s.vars.varLevel(l.Var()); lvl > backjumpLevel {
			backjumpLevel = lvl
		}
	}

	lbd = s.computeLBD(learned)
	return learned, backjumpLevel, lbd
}

// minimize removes literals from a freshly derived clause whose presence
// is implied by already-seen literals. The first literal (the UIP) is
// never removed.
func (s *Solver) minimize(clause []Lit) []Lit {
	if s.cfg.Minimize == MinimizeOff || len(clause) <= 1 {
		return clause
	}
	kept := clause[:1]
	for _, l := range clause[1:] {
		if s.isRedundant(l) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// isRedundant reports whether literal l (a non-UIP literal of the clause
// being learned) can be dropped because every antecedent of its reason is
// already part of the clause (directly, or — in recursive mode —
// transitively through other redundant literals). Implemented iteratively
// with an explicit stack to avoid deep recursion in the minimization DFS.
func (s *Solver) isRedundant(l Lit) bool {
	r := s.vars.varReason(l.Var())
	if r.isNone() {
		return false // decision literal: never redundant
	}

	if s.cfg.Minimize == MinimizeLocal {
		for _, q := range s.explainAssign(r, s.tmpExplain2[:0]) {
			if !s.vars.seen.contains(q.Var()) {
				return false
			}
		}
		return true
	}

	stack := s.tmpMinStack[:0]
	marked := s.tmpMinMarked[:0]
	stack = append(stack, l.Var())
	for len(stack) > 0 {
		if len(stack) > minimizeDepthCap {
			s.tmpMinStack = stack
			s.unmarkMinimizeProbe(marked)
			return false
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, q := range s.explainAssign(s.vars.varReason(cur), s.tmpExplain2[:0]) {
			qv := q.Var()
			if s.vars.seen.contains(qv) {
				continue
			}
			if s.vars.varLevel(qv) == 0 {
				continue // top-level forced: free, doesn't block removal
			}
			qr := s.vars.varReason(qv)
			if qr.isNone() {
				s.tmpMinStack = stack
				s.unmarkMinimizeProbe(marked)
				return false
			}
			s.vars.seen.add(qv) // memoize: this var need not be re-expanded
			marked = append(marked, qv)
			stack = append(stack, qv)
		}
	}
	s.tmpMinStack = stack
	s.tmpMinMarked = marked[:0]
	return true
}

// unmarkMinimizeProbe rolls back the seen marks isRedundant added for the
// variables in marked. Called whenever an exploration is abandoned (depth
// cap or a poison decision literal) without concluding the literal is
// redundant, so those marks can't make an unrelated later literal look
// falsely redundant for the rest of the current minimize() call.
func (s *Solver) unmarkMinimizeProbe(marked []Var) {
	for _, v := range marked {
		s.vars.seen.remove(v)
	}
	s.tmpMinMarked = marked[:0]
}

// computeLBD returns the number of distinct decision levels represented in
// clause (the clause's glue), using a generation-stamped array the way
// resetSet avoids an O(n) clear.
func (s *Solver) computeLBD(clause []Lit) uint32 {
	s.lbdStamp++
	if s.lbdStamp == 0 {
		for i := range s.lbdSeenAt {
			s.lbdSeenAt[i] = 0
		}
		s.lbdStamp = 1
	}
	for len(s.lbdSeenAt) <= s.decisionLevel() {
		s.lbdSeenAt = append(s.lbdSeenAt, 0)
	}
	var count uint32
	for _, l := range clause {
		lvl := s.vars.varLevel(l.Var())
		if s.lbdSeenAt[lvl] != s.lbdStamp {
			s.lbdSeenAt[lvl] = s.lbdStamp
			count++
		}
	}
	return count
}
