package cdcl

// trail records every assigned literal in assignment order; trailLim[d] is
// the trail index at which decision level d+1 begins.
type trailState struct {
	trail    []Lit
	trailLim []int32
}

func (s *Solver) decisionLevel() int { return len(s.trailLim) }

func (s *Solver) numAssigned() int { return len(s.trail) }

// enqueue records l as true with the given reason at the current decision
// level. It returns false if l was already false (a conflict) and true
// otherwise (including when l was already true, a no-op).
func (s *Solver) enqueue(l Lit, r Reason) bool {
	switch s.vars.litValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		s.vars.assign(l, s.decisionLevel(), r)
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

// pushDecisionLevel opens a new decision level without assigning anything;
// used both for real decisions and for installing assumptions.
func (s *Solver) pushDecisionLevel() {
	s.trailLim = append(s.trailLim, int32(len(s.trail)))
}

// decide opens a new decision level and enqueues l as a decision literal
// (no reason).
func (s *Solver) decide(l Lit) bool {
	s.pushDecisionLevel()
	return s.enqueue(l, noReason)
}

// undoOne unassigns the most recently trailed literal, restoring phase
// memory and reinserting the variable into the decision heuristic.
func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	s.trail = s.trail[:len(s.trail)-1]
	s.vars.unassign(l)
	s.order.reinsert(l.Var())
}

// cancelUntil undoes assignments back to the given decision level
// (inclusive of everything above it).
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		target := int(s.trailLim[len(s.trailLim)-1])
		for len(s.trail) > target {
			s.undoOne()
		}
		s.trailLim = s.trailLim[:len(s.trailLim)-1]
	}
	s.propQueue.Clear()
}
