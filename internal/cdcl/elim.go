package cdcl

// eliminationRecord is one bounded-variable-elimination step: the
// variable removed, and the original clauses that mentioned it (copied
// before they were replaced by resolvents), so that a model on the
// reduced formula can later be extended back to v.
type eliminationRecord struct {
	v       Var
	clauses [][]Lit
}

// eliminationStack is a LIFO log: variables are pushed in elimination
// order and popped in reverse to extend a model, which is correct because
// any other variable mentioned in v's recorded clauses can only have been
// eliminated *after* v (it was still present in the formula when v was
// removed), so it is already assigned by the time v's turn comes.
type eliminationStack struct {
	records []eliminationRecord
}

func (es *eliminationStack) push(v Var, clauses [][]Lit) {
	cp := make([][]Lit, len(clauses))
	for i, c := range clauses {
		cp[i] = append([]Lit(nil), c...)
	}
	es.records = append(es.records, eliminationRecord{v: v, clauses: cp})
}

// extendModel assigns every eliminated variable a value consistent with all of
// its recorded clauses, given the model already found on the reduced
// formula.
func (s *Solver) extendModel(model []bool) {
	for i := len(s.elim.records) - 1; i >= 0; i-- {
		rec := s.elim.records[i]
		value := func(l Lit) bool {
			if l.Var() == rec.v {
				panic("cdcl: elimination record references its own variable")
			}
			return model[l.Var()] == !l.Sign()
		}

		trueWorks := true
		for _, c := range rec.clauses {
			if !clauseSatisfiedUnder(c, rec.v, true, value) {
				trueWorks = false
				break
			}
		}
		// By BVE's correctness argument, if true does not satisfy every
		// recorded clause then false must.
		model[rec.v] = trueWorks
	}
}

// clauseSatisfiedUnder reports whether clause c is satisfied when v is
// set to val and every other literal is evaluated via value.
func clauseSatisfiedUnder(c []Lit, v Var, val bool, value func(Lit) bool) bool {
	for _, l := range c {
		if l.Var() == v {
			if val != l.Sign() {
				return true
			}
			continue
		}
		if value(l) {
			return true
		}
	}
	return false
}
