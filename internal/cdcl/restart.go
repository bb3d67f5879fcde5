package cdcl

// RestartPolicy selects between the two restart schedules.
type RestartPolicy uint8

const (
	RestartLuby RestartPolicy = iota
	RestartGeometric
)

// restartController decides when a restart is *requested* (conflict-count
// threshold reached) and, independently, whether the request is actually
// *executed* (agility below threshold).
type restartController struct {
	policy RestartPolicy

	lubyUnit  int64
	lubyIndex int64

	inner      float64
	outer      float64
	innerBase  float64
	innerGrow  float64
	outerGrow  float64

	conflictsSinceRestart int64
	threshold             int64

	agility          ema
	agilityThreshold float64
}

func newRestartController(cfg Config) *restartController {
	rc := &restartController{
		policy:           cfg.RestartPolicy,
		lubyUnit:         cfg.LubyUnit,
		lubyIndex:        1,
		innerBase:        cfg.GeometricInner,
		innerGrow:        cfg.GeometricInnerFactor,
		outerGrow:        cfg.GeometricOuterFactor,
		agility:          newEMA(cfg.AgilityDecay),
		agilityThreshold: cfg.AgilityThreshold,
	}
	rc.inner = rc.innerBase
	rc.outer = rc.innerBase
	rc.threshold = rc.nextThreshold()
	return rc
}

// luby returns the i-th (1-indexed) term of the standard Luby sequence:
// 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, ...
func luby(i int64) int64 {
	k := int64(1)
	for (int64(1)<<uint(k))-1 < i {
		k++
	}
	if i == (int64(1)<<uint(k))-1 {
		return int64(1) << uint(k-1)
	}
	return luby(i - (int64(1)<<uint(k-1)) + 1)
}

func (rc *restartController) nextThreshold() int64 {
	switch rc.policy {
	case RestartLuby:
		t := rc.lubyUnit * luby(rc.lubyIndex)
		rc.lubyIndex++
		return t
	default: // RestartGeometric: inner-outer schedule
		rc.inner *= rc.innerGrow
		if rc.inner > rc.outer {
			rc.outer *= rc.outerGrow
			rc.inner = rc.innerBase
		}
		return int64(rc.inner)
	}
}

// onConflict advances the restart countdown.
func (rc *restartController) onConflict() {
	rc.conflictsSinceRestart++
}

// onDecision feeds whether the just-made decision's polarity differs from
// its saved phase into the agility EMA: an exponential moving average of
// per-decision phase flips.
func (rc *restartController) onDecision(flipped bool) {
	if flipped {
		rc.agility.add(1)
	} else {
		rc.agility.add(0)
	}
}

// restartDue reports whether a restart has been requested.
func (rc *restartController) restartDue() bool {
	return rc.conflictsSinceRestart >= rc.threshold
}

// shouldExecute reports whether a requested restart should actually fire,
// and always advances the schedule regardless of the answer: otherwise
// the request is skipped and the next threshold computed.
func (rc *restartController) shouldExecute() bool {
	rc.conflictsSinceRestart = 0
	rc.threshold = rc.nextThreshold()
	return rc.agility.val() < rc.agilityThreshold
}
