package cdcl

import (
	"context"
	"sort"
)

// inprocessor holds the scheduling state for a budgeted, best-effort pass
// run at decision level 0 once enough conflicts have accumulated since the
// last run. Scope note (see DESIGN.md): subsumption, self-subsuming
// resolution and bounded variable elimination only consider
// arena-resident (length >= 4) clauses; binary and ternary clauses
// participate in probing (through ordinary propagation) but not in the
// occurrence-list scans, keeping the pass's cost bounded by the arena's
// size rather than the whole watch structure. A variable that occurs in a
// binary or ternary clause is therefore never eliminated.
type inprocessor struct {
	conflictsAtLastRun uint64
}

func newInprocessor(cfg Config) inprocessor {
	_ = cfg
	return inprocessor{}
}

func (s *Solver) inprocessDue() bool {
	if s.decisionLevel() != 0 {
		return false
	}
	return s.conflictCount-s.inproc.conflictsAtLastRun >= uint64(s.cfg.InprocessConflictGap)
}

// inprocess runs each enabled sub-pass in turn, each under the full
// InprocessPropBudget (the budget is per sub-pass, not shared).
func (s *Solver) inprocess(ctx context.Context) {
	s.inproc.conflictsAtLastRun = s.conflictCount
	budget := s.cfg.InprocessPropBudget
	if budget <= 0 {
		budget = 1
	}

	if s.cfg.EnableProbing && !s.interrupted(ctx) {
		s.probe(ctx, budget)
	}
	if s.unsat {
		return
	}
	if s.cfg.EnableVivify && !s.interrupted(ctx) {
		s.vivify(budget)
	}
	if s.unsat {
		return
	}
	if (s.cfg.EnableSubsumption || s.cfg.EnableSelfSubsuming) && !s.interrupted(ctx) {
		s.subsumeAndStrengthen(budget)
	}
	if s.unsat {
		return
	}
	if s.cfg.EnableBVE && !s.interrupted(ctx) {
		s.boundedVariableElimination(budget)
	}
	if s.unsat {
		return
	}
	s.simplify()
}

// probeOrder ranks variables by the same default-phase score the
// heuristic uses (Jeroslow-Wang if computed, else current activity),
// highest magnitude first, with a stable index tie-break for determinism.
func (s *Solver) probeOrder() []Var {
	n := s.numVars()
	vars := make([]Var, n)
	for i := range vars {
		vars[i] = Var(i)
	}
	score := func(v Var) float64 {
		if s.jwComputed {
			sc := s.order.jwScore[v]
			if sc < 0 {
				sc = -sc
			}
			return sc
		}
		return s.order.activities[v]
	}
	sort.SliceStable(vars, func(i, j int) bool { return score(vars[i]) > score(vars[j]) })
	return vars
}

// probe implements failed-literal probing with lifting: for
// each candidate literal, assume it, propagate, undo; a conflict forces
// its negation at top level, and a literal forced under both polarities
// of the same variable is also forced at top level.
func (s *Solver) probe(ctx context.Context, budget int64) int64 {
	var used int64
	for _, v := range s.probeOrder() {
		if used >= budget || s.interrupted(ctx) || s.unsat {
			break
		}
		if s.vars.varValue(v) != Undef || !s.vars.isDecisionEligible(v) {
			continue
		}

		okPos, usedPos, forcedPos := s.probeLiteral(PosLit(v))
		used += usedPos
		if s.unsat {
			break
		}
		if !okPos {
			continue // ¬v already enqueued by probeLiteral's conflict handling
		}

		okNeg, usedNeg, forcedNeg := s.probeLiteral(NegLit(v))
		used += usedNeg
		if s.unsat {
			break
		}
		if !okNeg {
			continue // v already enqueued
		}

		s.liftForced(forcedPos, forcedNeg)
		if s.unsat {
			break
		}
	}
	return used
}

// probeLiteral assumes lit at a fresh decision level, propagates, and
// undoes. On conflict it enqueues ¬lit at top level instead (ok=false).
// On success it returns the literals forced as a consequence of lit,
// excluding lit itself.
func (s *Solver) probeLiteral(lit Lit) (ok bool, propsUsed int64, forced []Lit) {
	if s.vars.litValue(lit) != Undef {
		return true, 0, nil
	}
	before := len(s.trail)
	s.pushDecisionLevel()
	s.enqueue(lit, noReason)
	cc := s.propagate()
	propsUsed = int64(len(s.trail) - before)

	if cc.valid() {
		s.cancelUntil(s.decisionLevel() - 1)
		if !s.enqueue(lit.Opposite(), noReason) {
			s.unsat = true
			return false, propsUsed, nil
		}
		if cc2 := s.propagate(); cc2.valid() {
			s.unsat = true
		}
		return false, propsUsed, nil
	}

	forced = append([]Lit(nil), s.trail[before+1:]...)
	s.cancelUntil(s.decisionLevel() - 1)
	return true, propsUsed, forced
}

// liftForced enqueues at top level any literal forced under both
// polarities of the probed variable.
func (s *Solver) liftForced(forcedPos, forcedNeg []Lit) {
	if len(forcedPos) == 0 || len(forcedNeg) == 0 {
		return
	}
	seen := make(map[Lit]bool, len(forcedPos))
	for _, l := range forcedPos {
		seen[l] = true
	}
	lifted := false
	for _, l := range forcedNeg {
		if seen[l] && s.vars.litValue(l) == Undef {
			if !s.enqueue(l, noReason) {
				s.unsat = true
				return
			}
			lifted = true
		}
	}
	if lifted {
		if cc := s.propagate(); cc.valid() {
			s.unsat = true
		}
	}
}

// vivify shrinks arena clauses by assuming the negation of their own
// literals one at a time and propagating: if that ever conflicts before
// every literal has been assumed, the clause is implied by the literals
// processed so far and can be truncated to that prefix. Clauses already
// satisfied under the running level-0 assignment, or that would shrink
// below the arena's length-4 floor, are left alone.
func (s *Solver) vivify(budget int64) int64 {
	var used int64
	n := s.arena.Len()
	for i := 0; i < n && used < budget; i++ {
		sl := &s.arena.slots[i]
		if !sl.live || sl.clause.IsLearned() || sl.clause.isProtected() {
			continue
		}
		used += s.vivifyClause(ClauseRef{idx: uint32(i), gen: sl.gen})
	}
	return used
}

func (s *Solver) vivifyClause(ref ClauseRef) int64 {
	c := s.arena.Get(ref)
	lits := append([]Lit(nil), c.literals...)

	base := s.decisionLevel()
	var used int64
	kept := len(lits)
	conflictHit := false

	for idx, l := range lits {
		switch s.vars.litValue(l) {
		case True:
			s.cancelUntil(base)
			return used // clause already satisfied; nothing to shrink
		case False:
			continue
		}
		s.pushDecisionLevel()
		s.enqueue(l.Opposite(), noReason)
		trailBefore := len(s.trail) - 1
		cc := s.propagate()
		used += int64(len(s.trail) - trailBefore)
		if cc.valid() {
			kept = idx + 1
			conflictHit = true
			break
		}
	}
	s.cancelUntil(base)

	if conflictHit && kept < len(lits) && kept >= 4 {
		old := append([]Lit(nil), c.literals...)
		newLits := append([]Lit(nil), lits[:kept]...)
		s.unwatchLong(ref)
		c.literals = newLits
		c.recomputeAbstraction()
		c.learnedAt = s.conflictCount
		s.trace.Learned(c.literals)
		s.trace.Deleted(old)
		s.addLong(ref)
	}
	return used
}

// removeLongClause deletes an arena-resident clause outright: unwatches
// it, frees its arena slot, emits the trace event, and prunes it from
// learnedRefs if it happened to be tracked there.
func (s *Solver) removeLongClause(ref ClauseRef) {
	c := s.arena.Get(ref)
	s.trace.Deleted(c.literals)
	s.unwatchLong(ref)
	s.arena.Free(ref)
	for i, r := range s.learnedRefs {
		if r == ref {
			s.learnedRefs[i] = s.learnedRefs[len(s.learnedRefs)-1]
			s.learnedRefs = s.learnedRefs[:len(s.learnedRefs)-1]
			break
		}
	}
}

// strengthenLongClause removes lit from an arena clause via
// self-subsuming resolution, per the Open Question resolution recorded in
// DESIGN.md: the mutation is reported to the trace sink as an explicit
// learn-then-delete pair rather than mutated silently, so any sink
// (including a DRUP one) observes a consistent history. Clauses that
// would shrink below the arena's length-4 floor are left alone: moving a
// clause to the binary/ternary inline representation mid-pass would need
// its own watch migration, out of scope here (see DESIGN.md).
func (s *Solver) strengthenLongClause(ref ClauseRef, lit Lit) {
	c := s.arena.Get(ref)
	if c.Len() <= 4 {
		return
	}
	old := append([]Lit(nil), c.literals...)
	wasWatched := c.literals[0] == lit || c.literals[1] == lit
	if wasWatched {
		s.unwatchLong(ref)
	}
	out := c.literals[:0]
	for _, l := range old {
		if l != lit {
			out = append(out, l)
		}
	}
	c.literals = out
	c.recomputeAbstraction()
	c.learnedAt = s.conflictCount
	s.trace.Learned(c.literals)
	s.trace.Deleted(old)
	if wasWatched {
		s.addLong(ref)
	}
}

// subsumeAndStrengthen scans every pair of live arena clauses, using the
// abstraction signature to make most comparisons cheap, deleting subsumed
// clauses and strengthening self-subsuming ones. The
// budget counts comparisons, not propagations, since this pass never
// propagates.
func (s *Solver) subsumeAndStrengthen(budget int64) int64 {
	var used int64
	n := s.arena.Len()
	for i := 0; i < n && used < budget; i++ {
		si := &s.arena.slots[i]
		if !si.live {
			continue
		}
		for j := 0; j < n && used < budget; j++ {
			if i == j {
				continue
			}
			sj := &s.arena.slots[j]
			if !sj.live || sj.clause.Len() < si.clause.Len() {
				continue
			}
			used++

			if s.cfg.EnableSubsumption && si.clause.subsumes(&sj.clause) {
				s.removeLongClause(ClauseRef{idx: uint32(j), gen: sj.gen})
				continue
			}
			if s.cfg.EnableSelfSubsuming {
				if lit, ok := si.clause.selfSubsumingLiteral(&sj.clause); ok {
					s.strengthenLongClause(ClauseRef{idx: uint32(j), gen: sj.gen}, lit)
				}
			}
		}
	}
	return used
}

// occurrences returns the arena refs of live, non-learned clauses
// mentioning lit.
func (s *Solver) occurrences(lit Lit) []ClauseRef {
	var refs []ClauseRef
	for i := range s.arena.slots {
		sl := &s.arena.slots[i]
		if !sl.live || sl.clause.IsLearned() {
			continue
		}
		for _, l := range sl.clause.literals {
			if l == lit {
				refs = append(refs, ClauseRef{idx: uint32(i), gen: sl.gen})
				break
			}
		}
	}
	return refs
}

// resolve computes the resolvent of two clauses on variable v: the
// deduplicated union of their literals minus v's occurrences, or
// tautology=true if some other variable appears with both signs.
func (s *Solver) resolve(cLits, dLits []Lit, v Var) (out []Lit, tautology bool) {
	add := func(l Lit) {
		if l.Var() == v {
			return
		}
		vv := l.Var()
		switch s.litMark[vv] {
		case 0:
			s.litMark[vv] = markFor(l)
			out = append(out, l)
		case markFor(l):
			// duplicate, already present
		default:
			tautology = true
		}
	}
	for _, l := range cLits {
		add(l)
	}
	for _, l := range dLits {
		add(l)
	}
	for _, l := range out {
		s.litMark[l.Var()] = 0
	}
	if tautology {
		return nil, true
	}
	return out, false
}

// tryResolveAll computes every non-tautological resolvent of v's positive
// and negative occurrences, aborting (ok=false) as soon as the resolvent
// set would exceed the configured gain bound or any resolvent would
// exceed the configured size cap.
func (s *Solver) tryResolveAll(v Var, pos, neg []ClauseRef) (resolvents [][]Lit, ok bool) {
	limit := len(pos) + len(neg) + s.cfg.BVEGain
	for _, cref := range pos {
		c := s.arena.Get(cref)
		for _, dref := range neg {
			d := s.arena.Get(dref)
			r, taut := s.resolve(c.literals, d.literals, v)
			if taut {
				continue
			}
			if len(r) > s.cfg.BVEMaxResolventSize || len(resolvents) >= limit {
				return nil, false
			}
			resolvents = append(resolvents, r)
		}
	}
	return resolvents, true
}

// boundedVariableElimination implements bounded variable elimination:
// eligible variables whose resolvent set stays within the gain bound are
// replaced
// by their resolvents, with the original clauses recorded on the
// elimination stack for model extension.
func (s *Solver) boundedVariableElimination(budget int64) int64 {
	var used int64
	for v := Var(0); v < Var(s.numVars()) && used < budget; v++ {
		if s.vars.varValue(v) != Undef || s.vars.isEliminated(v) ||
			s.vars.isFrozen(v) || !s.vars.isDecisionEligible(v) {
			continue
		}
		inline := false
		for _, key := range [2]Lit{PosLit(v), NegLit(v)} {
			for _, e := range s.watches[key].entries {
				if e.kind != watchLong {
					inline = true
				}
			}
		}
		if inline {
			continue // v also occurs in a binary or ternary clause, which this pass does not scan
		}
		pos := s.occurrences(PosLit(v))
		neg := s.occurrences(NegLit(v))
		used += int64(len(pos) + len(neg))
		if len(pos) == 0 && len(neg) == 0 {
			continue
		}

		resolvents, ok := s.tryResolveAll(v, pos, neg)
		if !ok {
			continue
		}

		clauses := make([][]Lit, 0, len(pos)+len(neg))
		for _, ref := range pos {
			clauses = append(clauses, s.arena.Get(ref).literals)
		}
		for _, ref := range neg {
			clauses = append(clauses, s.arena.Get(ref).literals)
		}
		s.elim.push(v, clauses)

		for _, ref := range pos {
			s.removeLongClause(ref)
		}
		for _, ref := range neg {
			s.removeLongClause(ref)
		}
		for _, r := range resolvents {
			if _, _, ok := s.buildClause(r, false); !ok {
				s.unsat = true
				return used
			}
		}
		s.vars.setEliminated(v)
	}
	return used
}

// simplify drops arena clauses satisfied by a level-0 assignment, run
// once per distinct trail length at decision level 0. Scoped to the
// arena: binary/ternary clauses are left to ordinary propagation, see
// DESIGN.md.
func (s *Solver) simplify() {
	if s.decisionLevel() != 0 || s.numAssigned() == s.lastSimplifyLen {
		return
	}
	n := s.arena.Len()
	for i := 0; i < n; i++ {
		sl := &s.arena.slots[i]
		if !sl.live || sl.clause.isProtected() {
			continue
		}
		if s.clauseSatisfiedAtLevel0(&sl.clause) {
			s.removeLongClause(ClauseRef{idx: uint32(i), gen: sl.gen})
		}
	}
	s.lastSimplifyLen = s.numAssigned()
}

func (s *Solver) clauseSatisfiedAtLevel0(c *Clause) bool {
	for _, l := range c.literals {
		if s.vars.litValue(l) == True && s.vars.varLevel(l.Var()) == 0 {
			return true
		}
	}
	return false
}
