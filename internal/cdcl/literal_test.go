package cdcl

import "testing"

func TestLit_PosNegOpposite(t *testing.T) {
	v := Var(3)
	p, n := PosLit(v), NegLit(v)

	if p.Var() != v || n.Var() != v {
		t.Fatalf("PosLit/NegLit(%d).Var() mismatch: got %d, %d", v, p.Var(), n.Var())
	}
	if p.Sign() {
		t.Errorf("PosLit(%d).Sign() = true, want false", v)
	}
	if !n.Sign() {
		t.Errorf("NegLit(%d).Sign() = false, want true", v)
	}
	if p.Opposite() != n || n.Opposite() != p {
		t.Errorf("Opposite() is not involutive for var %d", v)
	}
}

func TestLit_EncodingPacksAdjacent(t *testing.T) {
	for v := Var(0); v < 10; v++ {
		if PosLit(v)+1 != NegLit(v) {
			t.Errorf("NegLit(%d) is not PosLit(%d)+1", v, v)
		}
	}
}

func TestLBool_Opposite(t *testing.T) {
	cases := []struct {
		in, want LBool
	}{
		{True, False},
		{False, True},
		{Undef, Undef},
	}
	for _, c := range cases {
		if got := c.in.Opposite(); got != c.want {
			t.Errorf("%v.Opposite() = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestStatus_String(t *testing.T) {
	cases := map[Status]string{
		StatusSat:     "SAT",
		StatusUnsat:   "UNSAT",
		StatusUnknown: "UNKNOWN",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
