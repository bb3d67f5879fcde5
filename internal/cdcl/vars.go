package cdcl

// varFlags packs the small per-variable boolean flags into a single byte,
// keeping the flag word adjacent to the rest of the variable's hot state
// the way the clause header keeps glue next to flags (see clause.go).
type varFlags uint8

const (
	flagEliminated varFlags = 1 << iota
	flagFrozen
	flagDecisionEligible
	flagPolarityLocked
)

// reasonKind tags why a literal was forced: Decision (no reason,
// kind == reasonNone), Binary(other literal), Ternary(other two literals),
// or LongClause(ref).
type reasonKind uint8

const (
	reasonNone reasonKind = iota
	reasonBinary
	reasonTern
	reasonLong
)

// Reason is a compact tagged union. It never points back into a Var: it
// only ever names one or two literals or a ClauseRef, avoiding cyclic
// references.
type Reason struct {
	kind reasonKind
	lit  Lit       // valid when kind == reasonBinary or reasonTern: first antecedent
	lit2 Lit       // valid when kind == reasonTern: second antecedent
	ref  ClauseRef // valid when kind == reasonLong
}

var noReason = Reason{kind: reasonNone}

func binaryReason(other Lit) Reason      { return Reason{kind: reasonBinary, lit: other} }
func ternReason(a, b Lit) Reason         { return Reason{kind: reasonTern, lit: a, lit2: b} }
func longReason(ref ClauseRef) Reason    { return Reason{kind: reasonLong, ref: ref} }

func (r Reason) isNone() bool { return r.kind == reasonNone }

// varStore holds the per-variable assignment state: value, level, reason,
// phase memory and flags (activity and heap position live in varOrder). It is grown one
// variable at a time by newVar and never shrunk: variables are never
// destroyed.
type varStore struct {
	assigns []LBool // indexed by Lit (2 entries per var)
	level   []int32 // indexed by Var; -1 if unassigned
	reason  []Reason
	phase   []LBool // last value held (Undef until first assigned)
	flags   []varFlags
	seen    resetSet
}

func (vs *varStore) numVars() int { return len(vs.level) }

func (vs *varStore) newVar() Var {
	v := Var(vs.numVars())
	vs.assigns = append(vs.assigns, Undef, Undef)
	vs.level = append(vs.level, -1)
	vs.reason = append(vs.reason, noReason)
	vs.phase = append(vs.phase, Undef)
	vs.flags = append(vs.flags, flagDecisionEligible)
	vs.seen.expand()
	return v
}

func (vs *varStore) litValue(l Lit) LBool     { return vs.assigns[l] }
func (vs *varStore) varValue(v Var) LBool     { return vs.assigns[PosLit(v)] }
func (vs *varStore) varLevel(v Var) int       { return int(vs.level[v]) }
func (vs *varStore) varReason(v Var) Reason   { return vs.reason[v] }
func (vs *varStore) isEliminated(v Var) bool  { return vs.flags[v]&flagEliminated != 0 }
func (vs *varStore) isFrozen(v Var) bool      { return vs.flags[v]&flagFrozen != 0 }
func (vs *varStore) isDecisionEligible(v Var) bool {
	return vs.flags[v]&flagDecisionEligible != 0
}

func (vs *varStore) setEliminated(v Var) {
	vs.flags[v] |= flagEliminated
	vs.flags[v] &^= flagDecisionEligible
}

func (vs *varStore) setFrozen(v Var, frozen bool) {
	if frozen {
		vs.flags[v] |= flagFrozen
	} else {
		vs.flags[v] &^= flagFrozen
	}
}

func (vs *varStore) isPolarityLocked(v Var) bool { return vs.flags[v]&flagPolarityLocked != 0 }

func (vs *varStore) setPolarityLocked(v Var, locked bool) {
	if locked {
		vs.flags[v] |= flagPolarityLocked
	} else {
		vs.flags[v] &^= flagPolarityLocked
	}
}

// assign records literal l as true at the given decision level with the
// given reason. It does not touch the trail; callers (enqueue/propagate)
// are responsible for trail bookkeeping.
func (vs *varStore) assign(l Lit, level int, r Reason) {
	v := l.Var()
	vs.assigns[l] = True
	vs.assigns[l.Opposite()] = False
	vs.level[v] = int32(level)
	vs.reason[v] = r
}

// unassign reverts a previous assign, saving the phase for phase saving.
func (vs *varStore) unassign(l Lit) {
	v := l.Var()
	if vs.flags[v]&flagPolarityLocked == 0 {
		vs.phase[v] = vs.assigns[PosLit(v)]
	}
	vs.assigns[l] = Undef
	vs.assigns[l.Opposite()] = Undef
	vs.level[v] = -1
	vs.reason[v] = noReason
}

// resetSet is a set of small integers (variable indices) supporting O(1)
// Clear via a generation counter.
type resetSet struct {
	stampedAt []uint32
	stamp     uint32
}

func (rs *resetSet) expand() { rs.stampedAt = append(rs.stampedAt, 0) }

func (rs *resetSet) contains(v Var) bool { return rs.stampedAt[v] == rs.stamp }

func (rs *resetSet) add(v Var) { rs.stampedAt[v] = rs.stamp }

// remove undoes a prior add, used to roll back speculative marks left by an
// exploration that did not complete (clear() always leaves stamp >= 1, so
// stamp-1 never collides with the current stamp).
func (rs *resetSet) remove(v Var) { rs.stampedAt[v] = rs.stamp - 1 }

func (rs *resetSet) clear() {
	rs.stamp++
	if rs.stamp == 0 { // wrapped around
		rs.stamp = 1
		for i := range rs.stampedAt {
			rs.stampedAt[i] = 0
		}
	}
}
