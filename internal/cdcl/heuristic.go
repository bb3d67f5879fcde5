package cdcl

import (
	"math/rand/v2"

	"github.com/rhartert/yagh"
)

// PhasePolicy selects the default polarity used the first time a variable
// is decided, before any phase has been saved.
type PhasePolicy uint8

const (
	PhaseSaved PhasePolicy = iota // reuse phase memory once set; default True before that
	PhaseTrue
	PhaseFalse
	PhaseJeroslowWang
	PhaseRandom
)

// varOrder is an activity-ordered priority queue (a negated-priority
// binary heap from github.com/rhartert/yagh), the phase policy, and random
// jitter; phase memory itself lives in varStore.phase.
type varOrder struct {
	heap       *yagh.IntMap[float64]
	activities []float64
	actInc     float64
	actDecay   float64

	phasePolicy PhasePolicy
	jwScore     []float64 // precomputed Jeroslow-Wang weights, PhaseJeroslowWang only

	jitterProb float64
	rng        *rand.Rand
}

func newVarOrder(cfg Config) *varOrder {
	return &varOrder{
		heap:        yagh.New[float64](0),
		actInc:      1,
		actDecay:    cfg.VarDecay,
		phasePolicy: cfg.PhasePolicy,
		jitterProb:  cfg.RandomJitter,
		rng:         rand.New(rand.NewPCG(cfg.RNGSeed, cfg.RNGSeed^0x9e3779b97f4a7c15)),
	}
}

// reseed replaces the heuristic's RNG source, used by Solver.SetRNGSeed.
func (vo *varOrder) reseed(seed uint64) {
	vo.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (vo *varOrder) newVar() {
	vo.activities = append(vo.activities, 0)
	vo.jwScore = append(vo.jwScore, 0)
	vo.heap.GrowBy(1)
	vo.heap.Put(len(vo.activities)-1, 0)
}

// reinsert puts v back among the candidates considered at decision time;
// called whenever v becomes unassigned.
func (vo *varOrder) reinsert(v Var) {
	vo.heap.Put(int(v), -vo.activities[v])
}

func (s *Solver) bumpVarActivity(v Var) {
	vo := s.order
	vo.activities[v] += vo.actInc
	if vo.heap.Contains(int(v)) {
		vo.heap.Put(int(v), -vo.activities[v])
	}
	if vo.activities[v] > 1e100 {
		vo.rescale()
	}
}

func (vo *varOrder) rescale() {
	vo.actInc *= 1e-100
	for v := range vo.activities {
		vo.activities[v] *= 1e-100
		if vo.heap.Contains(v) {
			vo.heap.Put(v, -vo.activities[v])
		}
	}
}

func (vo *varOrder) decay() {
	vo.actInc /= vo.actDecay
	if vo.actInc > 1e100 {
		vo.rescale()
	}
}

// pickVariable pops the highest-activity still-unassigned variable,
// skipping stale heap entries for already-assigned variables, and applies
// random jitter: with a fixed small probability per decision, pick a
// uniformly random unassigned variable instead of the heap top.
func (s *Solver) pickVariable() (Var, bool) {
	vo := s.order
	if vo.jitterProb > 0 && vo.rng.Float64() < vo.jitterProb {
		if v, ok := s.randomUnassignedVar(); ok {
			return v, true
		}
	}
	for {
		item, ok := vo.heap.Pop()
		if !ok {
			return 0, false
		}
		v := Var(item.Elem)
		if s.vars.varValue(v) != Undef || !s.vars.isDecisionEligible(v) {
			continue
		}
		return v, true
	}
}

func (s *Solver) randomUnassignedVar() (Var, bool) {
	n := s.numVars()
	if n == 0 {
		return 0, false
	}
	start := Var(s.order.rng.IntN(n))
	for i := 0; i < n; i++ {
		v := Var((int(start) + i) % n)
		if s.vars.varValue(v) == Undef && s.vars.isDecisionEligible(v) {
			return v, true
		}
	}
	return 0, false
}

// decideLiteral chooses the polarity for a freshly-picked variable in
// order of priority: pinned phase, then phase memory, then the configured
// default.
func (s *Solver) decideLiteral(v Var) Lit {
	if s.vars.isPolarityLocked(v) {
		if s.vars.phase[v] == False {
			return NegLit(v)
		}
		return PosLit(v)
	}
	if phase := s.vars.phase[v]; phase != Undef {
		if phase == False {
			return NegLit(v)
		}
		return PosLit(v)
	}
	switch s.order.phasePolicy {
	case PhaseFalse:
		return NegLit(v)
	case PhaseJeroslowWang:
		if s.order.jwScore[v] < 0 {
			return NegLit(v)
		}
		return PosLit(v)
	case PhaseRandom:
		if s.order.rng.Float64() < 0.5 {
			return NegLit(v)
		}
		return PosLit(v)
	default: // PhaseSaved with no memory yet, or PhaseTrue
		return PosLit(v)
	}
}

// recomputeJeroslowWang scores each variable by the classic Jeroslow-Wang
// weight (sum of 2^-|C| over clauses C containing the literal), evaluated
// once over the original clause set, signed so that the majority polarity
// wins.
func (s *Solver) recomputeJeroslowWang() {
	for _, c := range s.originalClauseViews() {
		w := jwWeight(len(c))
		for _, l := range c {
			if l.Sign() {
				s.order.jwScore[l.Var()] -= w
			} else {
				s.order.jwScore[l.Var()] += w
			}
		}
	}
}

func jwWeight(size int) float64 {
	w := 1.0
	for i := 0; i < size; i++ {
		w /= 2
	}
	return w
}
