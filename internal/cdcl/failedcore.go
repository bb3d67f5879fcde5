package cdcl

// computeFailedCoreFromFalseLit handles the case where installing the
// next assumption finds it already false: the antecedents of its
// negation are traced back to the assumption literals that forced it, and
// the falsified assumption itself joins the core.
func (s *Solver) computeFailedCoreFromFalseLit(falseLit Lit) {
	s.vars.seen.clear()
	for _, q := range s.explainAssign(s.vars.varReason(falseLit.Var()), s.tmpExplain[:0]) {
		s.vars.seen.add(q.Var())
	}
	s.failedSet = failedCoreSet(append(s.traceFailedCoreFromSeen(), falseLit))
}

// computeFailedCoreFromLearned handles the case where search hits a
// conflict at a decision level within the assumption prefix (only
// assumptions have been decided): the variables marked seen by the
// analyze() call that just ran are exactly the cone that produced the
// conflict, so the same backward trail walk applies without reseeding.
func (s *Solver) computeFailedCoreFromLearned(learned []Lit) {
	_ = learned
	s.failedSet = failedCoreSet(s.traceFailedCoreFromSeen())
}

// traceFailedCoreFromSeen walks the trail backward from its current top,
// expanding every seen variable's reason, and collects the decision
// literals it reaches (the assumption literals themselves, since
// assumptions are installed as decisions with no reason), mirroring
// minisat's analyzeFinal.
func (s *Solver) traceFailedCoreFromSeen() []Lit {
	var core []Lit
	for i := len(s.trail) - 1; i >= 0; i-- {
		l := s.trail[i]
		v := l.Var()
		if !s.vars.seen.contains(v) || s.vars.varLevel(v) == 0 {
			continue
		}
		r := s.vars.varReason(v)
		if r.isNone() {
			core = append(core, l)
			continue
		}
		for _, q := range s.explainAssign(r, s.tmpExplain2[:0]) {
			s.vars.seen.add(q.Var())
		}
	}
	return core
}

func failedCoreSet(lits []Lit) map[Lit]bool {
	set := make(map[Lit]bool, len(lits))
	for _, l := range lits {
		set[l] = true
	}
	return set
}
