package cdcl

import "context"

// Solver owns every other component (vars, arena, watches, heuristic,
// restart controller, reduction manager, elimination stack) and drives
// the main CDCL loop. A zero Solver is not usable; build one with New.
type Solver struct {
	cfg Config

	vars    varStore
	watches []watchList
	arena   Arena

	trail    []Lit
	trailLim []int32
	propQueue *queue[Lit]

	order     *varOrder
	restart   *restartController
	reduction *reductionManager
	elim      eliminationStack
	inproc    inprocessor

	trace TraceSink

	// learnedRefs holds every arena-resident (length >= 4) learned clause,
	// in the order reduceLearned last sorted them.
	learnedRefs []ClauseRef

	numBinary, numLearnedBinary   int
	numTernary, numLearnedTernary int
	numConstraints                int // original clauses of any representation, for the reduction manager's initial target

	clauseActInc float64 // current clause-activity bump, decayed per conflict

	// Scratch buffers reused across calls to avoid per-conflict
	// allocation.
	litMark      []int8
	tmpLearned   []Lit
	tmpExplain   []Lit
	tmpExplain2  []Lit
	tmpMinStack  []Var
	tmpMinMarked []Var
	lbdSeenAt    []uint32
	lbdStamp     uint32
	lastSimplifyLen int

	conflictCount  uint64
	decisionCount  uint64
	restartCount   uint64

	assumptions []Lit
	failedSet   map[Lit]bool

	budgetProps, budgetDecisions int64 // <=0 means unlimited
	propsUsed, decisionsUsed     int64
	interrupt                    func() bool

	status     Status
	unsat      bool // permanently unsatisfiable, e.g. an empty clause was added
	model      []bool
	poisoned   error
	jwComputed bool
}

// New builds a fresh solver with 0 variables and 0 clauses.
func New(cfg Config) *Solver {
	s := &Solver{
		cfg:          cfg,
		propQueue:    newQueue[Lit](64),
		order:        newVarOrder(cfg),
		restart:      newRestartController(cfg),
		trace:        nopSink{},
		clauseActInc: 1,
	}
	s.reduction = newReductionManager(cfg, 0)
	s.inproc = newInprocessor(cfg)
	return s
}

func (s *Solver) numVars() int { return s.vars.numVars() }

// NewVar allocates a fresh variable, value Undef.
func (s *Solver) NewVar() Var {
	v := s.vars.newVar()
	s.order.newVar()
	s.litMark = append(s.litMark, 0)
	s.ensureWatchCapacity()
	return v
}

// checkVar validates that every literal of lits names an already-allocated
// variable.
func (s *Solver) checkVar(lits []Lit) error {
	n := s.numVars()
	for _, l := range lits {
		if int(l.Var()) < 0 || int(l.Var()) >= n {
			return usageError("AddClause", "literal names an out-of-range variable")
		}
	}
	return nil
}

// AddClause adds a clause, any time. A tautological clause is silently
// ignored; a unit clause enqueues its literal; an empty clause (or one
// that simplifies to empty) makes the solver permanently UNSAT.
func (s *Solver) AddClause(lits []Lit) error {
	if s.poisoned != nil {
		return ErrPoisoned
	}
	if err := s.checkVar(lits); err != nil {
		s.poisoned = err
		return err
	}
	if s.unsat {
		return nil
	}
	s.cancelUntil(0) // simplify against the level-0 assignment only, not a previous model

	cp := append([]Lit(nil), lits...)
	ref, isLong, ok := s.buildClause(cp, false)
	if !ok {
		s.unsat = true
		return nil
	}
	s.numConstraints++
	if isLong {
		s.reduction.target = maxFloat(s.reduction.target, float64(s.numConstraints)/3)
		_ = ref
	}
	return nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Assume pushes lit onto the assumption stack, consumed by the next Solve
// call. Valid only between Solve calls.
func (s *Solver) Assume(lit Lit) {
	s.assumptions = append(s.assumptions, lit)
}

// ClearAssumptions drops the assumption stack, letting the next Solve call
// run unconstrained.
func (s *Solver) ClearAssumptions() {
	s.assumptions = s.assumptions[:0]
}

// SetPolarity pins v's decision polarity to value, overriding phase memory
// and the configured PhasePolicy for every future decision until
// ClearPolarity(v) is called. Has no effect on v's current assignment if
// it's already assigned; it only governs the polarity used the next time v
// is picked as a decision variable.
func (s *Solver) SetPolarity(v Var, value bool) {
	s.vars.setPolarityLocked(v, true)
	if value {
		s.vars.phase[v] = True
	} else {
		s.vars.phase[v] = False
	}
}

// ClearPolarity unpins v's decision polarity set by SetPolarity, returning
// it to phase-memory/PhasePolicy-driven selection.
func (s *Solver) ClearPolarity(v Var) {
	s.vars.setPolarityLocked(v, false)
}

// SetBudget bounds the number of propagations and decisions the next
// Solve calls may perform before returning StatusUnknown; <= 0 means
// unlimited.
func (s *Solver) SetBudget(props, decisions int64) {
	s.budgetProps, s.budgetDecisions = props, decisions
}

// SetInterrupt registers a polling callback checked at the same safe
// points as the budget and the context passed to Solve.
func (s *Solver) SetInterrupt(cb func() bool) {
	s.interrupt = cb
}

// SetRNGSeed reseeds every RNG-driven component (random-jitter decisions,
// random phase, random-unassigned-variable tie-break). Must be called
// before Solve.
func (s *Solver) SetRNGSeed(seed uint64) {
	s.cfg.RNGSeed = seed
	s.order.reseed(seed)
}

// SetTraceSink installs sink to receive Learned/Deleted events. Should be
// called before the first clause is added so no events are missed.
func (s *Solver) SetTraceSink(sink TraceSink) {
	if sink == nil {
		sink = nopSink{}
	}
	s.trace = sink
}

// Value returns the model value of lit. Only meaningful after a SAT
// verdict; calling it otherwise is a usage error.
func (s *Solver) Value(lit Lit) LBool {
	if s.status != StatusSat {
		s.poisoned = usageError("Value", "called before a SAT verdict")
		return Undef
	}
	v := lit.Var()
	val := liftBool(s.model[v])
	if lit.Sign() {
		return val.Opposite()
	}
	return val
}

// Failed reports whether lit's assumption is part of the failed core of
// the most recent UNSAT verdict.
func (s *Solver) Failed(lit Lit) bool {
	if s.status != StatusUnsat {
		return false
	}
	return s.failedSet[lit]
}

func (s *Solver) budgetExceeded() bool {
	if s.budgetProps > 0 && s.propsUsed >= s.budgetProps {
		return true
	}
	if s.budgetDecisions > 0 && s.decisionsUsed >= s.budgetDecisions {
		return true
	}
	return false
}

func (s *Solver) interrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return s.interrupt != nil && s.interrupt()
}

// assumptionLevel is the decision level at or below which a conflict means
// UNSAT under the current assumptions rather than UNSAT outright.
func (s *Solver) assumptionLevel() int { return len(s.assumptions) }

// Solve runs the main CDCL loop to completion, an interrupt, or a budget
// exhaustion. Assumptions installed via Assume are installed one at a
// time at the start of the loop and the assumption stack is cleared when
// Solve returns; ctx and the registered interrupt callback are polled at
// the same safe points.
func (s *Solver) Solve(ctx context.Context) Status {
	if s.poisoned != nil {
		return StatusUnknown
	}
	defer s.ClearAssumptions()
	s.status = StatusUnknown
	s.failedSet = nil
	s.cancelUntil(0)

	if s.unsat {
		s.status = StatusUnsat
		return StatusUnsat
	}

	if cc := s.propagate(); cc.valid() {
		s.unsat = true
		s.status = StatusUnsat
		return StatusUnsat
	}

	if s.order.phasePolicy == PhaseJeroslowWang && !s.jwComputed {
		s.recomputeJeroslowWang()
		s.jwComputed = true
	}

	for {
		if s.interrupted(ctx) {
			return StatusUnknown
		}

		trailBefore := len(s.trail)
		conflict := s.propagate()
		s.propsUsed += int64(len(s.trail) - trailBefore)

		switch {
		case conflict.valid():
			s.conflictCount++
			if s.decisionLevel() == 0 {
				s.unsat = true
				s.status = StatusUnsat
				return StatusUnsat
			}
			learned, backjump, lbd := s.analyze(conflict)
			if s.decisionLevel() <= s.assumptionLevel() {
				s.computeFailedCoreFromLearned(learned)
				s.unsat = true
				s.status = StatusUnsat
				return StatusUnsat
			}
			s.cancelUntil(backjump)
			s.recordLearned(learned, lbd)
			s.restart.onConflict()
			s.order.decay()
			s.decayClauseActivity()

		case s.nextAssumptionFalsified():
			s.computeFailedCoreFromFalseLit(s.assumptions[s.decisionLevel()])
			s.unsat = true
			s.status = StatusUnsat
			return StatusUnsat

		case s.restart.restartDue():
			if s.restart.shouldExecute() {
				s.cancelUntil(s.assumptionLevel())
			}

		case s.reduction.due(len(s.learnedRefs)):
			s.reduceLearned()

		case s.cfg.InprocessEnable && s.inprocessDue():
			s.inprocess(ctx)

		case s.budgetExceeded():
			return StatusUnknown

		default:
			if !s.decideNext() {
				s.status = StatusSat
				s.saveModel()
				return StatusSat
			}
		}
	}
}

// nextAssumptionFalsified reports whether the next not-yet-installed
// assumption is already assigned false by prior decisions/propagation.
func (s *Solver) nextAssumptionFalsified() bool {
	d := s.decisionLevel()
	if d >= len(s.assumptions) {
		return false
	}
	return s.vars.litValue(s.assumptions[d]) == False
}

// decideNext installs the next assumption if one remains, otherwise asks
// the heuristic to pick a variable. It returns false only when every
// eligible variable is already assigned (a model has been found).
func (s *Solver) decideNext() bool {
	d := s.decisionLevel()
	if d < len(s.assumptions) {
		a := s.assumptions[d]
		s.pushDecisionLevel()
		if s.vars.litValue(a) == Undef {
			s.enqueue(a, noReason)
		}
		s.decisionCount++
		s.decisionsUsed++
		return true
	}

	v, ok := s.pickVariable()
	if !ok {
		return false
	}
	lit := s.decideLiteral(v)
	flipped := s.vars.phase[v] != Undef && liftBool(!lit.Sign()) != s.vars.phase[v]
	s.restart.onDecision(flipped)
	s.decide(lit)
	s.decisionCount++
	s.decisionsUsed++
	return true
}

// recordLearned attaches a freshly analyzed clause, emits the trace event,
// and enqueues its asserting literal.
func (s *Solver) recordLearned(learned []Lit, lbd uint32) {
	s.trace.Learned(learned)
	ref, isLong, _ := s.buildClause(learned, true)
	if isLong {
		c := s.arena.Get(ref)
		c.glue = lbd
		c.learnedAt = s.conflictCount
		s.learnedRefs = append(s.learnedRefs, ref)
	}
	// buildClause already enqueued the asserting literal for the unit case
	// (len(learned) == 1); for binary/ternary/long clauses it only
	// attaches watches, so the asserting literal still needs enqueuing
	// here, with a reason pointing at the clause that was just built.
	if len(learned) > 1 {
		s.enqueue(learned[0], s.reasonFor(learned, ref, isLong))
	}
}

// reasonFor builds the Reason a freshly learned clause should install for
// its asserting literal, matching however buildClause chose to represent
// it (binary, ternary or long).
func (s *Solver) reasonFor(learned []Lit, ref ClauseRef, isLong bool) Reason {
	switch len(learned) {
	case 1:
		return noReason
	case 2:
		return binaryReason(learned[1])
	case 3:
		return ternReason(learned[1], learned[2])
	default:
		_ = isLong
		return longReason(ref)
	}
}

// bumpClauseActivity increases a long clause's activity by the current
// increment, rescaling every long clause's activity if it would overflow,
// mirroring bumpVarActivity's treatment of variable activity.
func (s *Solver) bumpClauseActivity(ref ClauseRef) {
	c := s.arena.Get(ref)
	c.activity += s.clauseActInc
	if c.activity > 1e100 {
		for i := range s.arena.slots {
			sl := &s.arena.slots[i]
			if sl.live {
				sl.clause.activity *= 1e-100
			}
		}
		s.clauseActInc *= 1e-100
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseActInc /= s.cfg.ClauseDecay
}

// saveModel copies the current assignment into s.model and extends it
// through the elimination stack.
func (s *Solver) saveModel() {
	s.model = make([]bool, s.numVars())
	for v := 0; v < s.numVars(); v++ {
		s.model[v] = s.vars.varValue(Var(v)) == True
	}
	s.extendModel(s.model)
}

// originalClauseViews returns the literals of every original (non-learned)
// arena-resident clause, used by the Jeroslow-Wang default-phase scorer
// (the inprocessor's occurrences scans the arena itself). Binary and ternary clauses
// are deliberately excluded: they dominate propagation cost, not the
// bounded inprocessing passes, and are already fully exercised by normal
// search (see DESIGN.md).
func (s *Solver) originalClauseViews() [][]Lit {
	var views [][]Lit
	for i := range s.arena.slots {
		sl := &s.arena.slots[i]
		if sl.live && !sl.clause.IsLearned() {
			views = append(views, sl.clause.literals)
		}
	}
	return views
}
