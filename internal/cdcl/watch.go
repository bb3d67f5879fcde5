package cdcl

// watchKind distinguishes the three watch-entry variants. Binary and
// ternary clauses carry their literals inline so propagating
// them never dereferences the arena; only "long" clauses (length >= 4)
// need an arena lookup.
type watchKind uint8

const (
	watchBin watchKind = iota
	watchTern
	watchLong
)

// watchEntry is a sum type whose variants share storage, avoiding a class
// hierarchy. For watchBin, other is the clause's
// other literal. For watchTern, other and other2 are the clause's other
// two literals. For watchLong, ref names the arena clause and other acts as
// a blocker: a cached literal of the clause, letting the propagator skip a
// dereference when that literal is already true.
type watchEntry struct {
	kind    watchKind
	learned bool
	other   Lit
	other2  Lit
	ref     ClauseRef
}

// watchList is the append-only-with-compaction sequence of entries
// attached to one literal key. Entries are examined when that literal is
// assigned true.
type watchList struct {
	entries []watchEntry
}

func (s *Solver) ensureWatchCapacity() {
	for len(s.watches) < 2*s.numVars() {
		s.watches = append(s.watches, watchList{})
	}
}

// watchAt appends an entry to the list triggered when key becomes true.
func (s *Solver) watchAt(key Lit, e watchEntry) {
	s.watches[key].entries = append(s.watches[key].entries, e)
}

// addBinary registers a 2-literal clause purely as watch entries: no arena
// clause is allocated.
func (s *Solver) addBinary(a, b Lit, learned bool) {
	s.watchAt(a.Opposite(), watchEntry{kind: watchBin, other: b, learned: learned})
	s.watchAt(b.Opposite(), watchEntry{kind: watchBin, other: a, learned: learned})
	s.numBinary++
	if learned {
		s.numLearnedBinary++
	}
}

// addTernary registers a 3-literal clause as three inline watch entries,
// one per literal, each caching the other two. Like the binary case, no
// arena clause is allocated.
func (s *Solver) addTernary(a, b, c Lit, learned bool) {
	s.watchAt(a.Opposite(), watchEntry{kind: watchTern, other: b, other2: c, learned: learned})
	s.watchAt(b.Opposite(), watchEntry{kind: watchTern, other: a, other2: c, learned: learned})
	s.watchAt(c.Opposite(), watchEntry{kind: watchTern, other: a, other2: b, learned: learned})
	s.numTernary++
	if learned {
		s.numLearnedTernary++
	}
}

// addLong attaches the two watched literals (positions 0 and 1) of an
// arena clause, using the clause's own second and first literal as the
// initial blocker cache.
func (s *Solver) addLong(ref ClauseRef) {
	c := s.arena.Get(ref)
	learned := c.IsLearned()
	s.watchAt(c.literals[0].Opposite(), watchEntry{kind: watchLong, ref: ref, other: c.literals[1], learned: learned})
	s.watchAt(c.literals[1].Opposite(), watchEntry{kind: watchLong, ref: ref, other: c.literals[0], learned: learned})
}

// removeWatch deletes the (first) entry matching pred from the list at
// key, compacting in place (swap-and-pop).
func (s *Solver) removeWatch(key Lit, pred func(watchEntry) bool) {
	es := s.watches[key].entries
	for i, e := range es {
		if pred(e) {
			last := len(es) - 1
			es[i] = es[last]
			s.watches[key].entries = es[:last]
			return
		}
	}
}

func (s *Solver) unwatchLong(ref ClauseRef) {
	c := s.arena.Get(ref)
	s.removeWatch(c.literals[0].Opposite(), func(e watchEntry) bool {
		return e.kind == watchLong && e.ref == ref
	})
	s.removeWatch(c.literals[1].Opposite(), func(e watchEntry) bool {
		return e.kind == watchLong && e.ref == ref
	})
}
