package cdcl

import "errors"

// UsageError reports a misuse of the solver's API: an out-of-range
// variable, or calling Value before a SAT verdict. After a UsageError the
// solver is considered poisoned (see ErrPoisoned).
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string { return "cdcl: " + e.Op + ": " + e.Msg }

func usageError(op, msg string) error { return &UsageError{Op: op, Msg: msg} }

// ErrPoisoned is returned by AddClause once a UsageError has occurred;
// Solve on a poisoned solver returns StatusUnknown instead.
var ErrPoisoned = errors.New("cdcl: solver is poisoned by a prior usage error")

// IsUsageError reports whether err is (or wraps) a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
