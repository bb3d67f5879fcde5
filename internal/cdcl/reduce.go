package cdcl

import "sort"

// reductionManager maintains a soft upper bound on the number of
// non-locked, non-binary learned clauses and periodically deletes the
// worst half, ordered glue-first with activity and size as tie-breaks.
type reductionManager struct {
	target         float64 // L
	increment      float64
	growthPercent  float64
	adjustCount    int64
	adjustInterval int64
	protectedGlue  uint32
	freshWindow    uint64
}

func newReductionManager(cfg Config, initialConstraints int) *reductionManager {
	return &reductionManager{
		target:         float64(initialConstraints) / 3,
		increment:      cfg.ReduceIncrement,
		growthPercent:  cfg.ReduceGrowthPercent,
		adjustInterval: cfg.ReduceAdjustInterval,
		protectedGlue:  cfg.ReduceProtectedGlue,
		freshWindow:    cfg.ReduceFreshWindow,
	}
}

func (rm *reductionManager) due(numLearned int) bool {
	return float64(numLearned) > rm.target
}

// reduceLearned sorts the solver's non-binary, non-ternary learned clauses
// by (glue ascending, activity descending, size ascending) and deletes the
// worse half, skipping clauses that are locked (a current reason), that
// have glue at or below the protected threshold, or that were learned too
// recently. If too few clauses were actually collected — most were
// exempt — it raises the target.
func (s *Solver) reduceLearned() {
	rm := s.reduction
	refs := s.learnedRefs

	sort.Slice(refs, func(i, j int) bool {
		a, b := s.arena.Get(refs[i]), s.arena.Get(refs[j])
		if a.glue != b.glue {
			return a.glue < b.glue
		}
		if a.activity != b.activity {
			return a.activity > b.activity
		}
		return len(a.literals) < len(b.literals)
	})

	half := len(refs) / 2
	kept := refs[:0]
	deleted := 0

	for i, ref := range refs {
		c := s.arena.Get(ref)
		exempt := i < half ||
			c.isProtected() ||
			c.locked(s, ref) ||
			c.glue <= rm.protectedGlue ||
			s.conflictCount-c.learnedAt < rm.freshWindow
		if exempt {
			kept = append(kept, ref)
			continue
		}
		s.deleteLearned(ref)
		deleted++
	}
	s.learnedRefs = kept

	rm.adjustCount++
	if deleted < len(refs)/4 || rm.adjustCount >= rm.adjustInterval {
		rm.target += rm.increment + rm.target*rm.growthPercent
		rm.adjustCount = 0
	}
}

// locked reports whether clause ref is currently the reason of an
// assigned literal.
func (c *Clause) locked(s *Solver, ref ClauseRef) bool {
	v := c.literals[0].Var()
	r := s.vars.varReason(v)
	return r.kind == reasonLong && r.ref == ref
}

func (s *Solver) deleteLearned(ref ClauseRef) {
	c := s.arena.Get(ref)
	s.trace.Deleted(c.literals)
	s.unwatchLong(ref)
	s.arena.Free(ref)
}
