package attendance

import (
	"github.com/shiftwise/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
)

// CounterDelta is the counter-update command produced by a close evaluation.
// It is applied to the user row by the same transaction that persists the
// attendance change, keeping every increment/decrement/reset rule in one
// auditable place per invocation.
type CounterDelta struct {
	Late      int
	EarlyExit int
}

// Outcome describes everything a close evaluation decided: marking changes
// already applied to the ledger, the counter command, and the violation
// ledger delta.
type Outcome struct {
	Counters          CounterDelta
	CreateViolations  []violation.Type
	RetractViolations []violation.Type
}

// EvaluatePunctuality runs the late-arrival and early-exit rules against a
// ledger whose final punch was just closed manually. It mutates the ledger's
// markings and returns the counter and violation deltas.
//
// Late arrival is checked once per day against the first punch and never
// reverts: a user cannot un-arrive-late. Early exit is re-checked on every
// close because the final punch changes across the day; a mid-day punch that
// looked like an early exit is forgiven when a later close lands at or past
// the threshold, so the marking, counter and violation must all roll back.
func EvaluatePunctuality(a *Attendance, w shift.Window) Outcome {
	var out Outcome

	if !a.LateMarked && len(a.Punches) > 0 {
		if a.Punches[0].CheckIn.After(w.LateThreshold) {
			a.LateMarked = true
			out.Counters.Late++
			out.CreateViolations = append(out.CreateViolations, violation.TypeLate)
		}
	}

	last := a.LastPunch()
	if last == nil || last.CheckOut == nil {
		return out
	}

	if last.CheckOut.Before(w.EarlyThreshold) {
		if !a.EarlyExitMarked {
			a.EarlyExitMarked = true
			out.Counters.EarlyExit++
			out.CreateViolations = append(out.CreateViolations, violation.TypeEarlyExit)
		}
	} else if a.EarlyExitMarked {
		a.EarlyExitMarked = false
		out.Counters.EarlyExit--
		out.RetractViolations = append(out.RetractViolations, violation.TypeEarlyExit)
	}

	return out
}

// ResolveStatus derives the day's status from the worked-time ratio and the
// rolling three-lates penalty. lateCount must already include this close's
// increment. When the penalty fires the day is HALF_DAY regardless of ratio
// and the caller must subtract exactly 3 from the counter (not reset it, so
// overflow carries forward); consumed reports that case.
func ResolveStatus(workedMinutes, shiftDurationMinutes, lateCount int) (status Status, consumed bool) {
	if lateCount >= 3 {
		return StatusHalfDay, true
	}

	ratio := float64(workedMinutes) / float64(shiftDurationMinutes)
	switch {
	case ratio >= 0.99: // tolerance band for rounding slack
		return StatusPresent, false
	case ratio >= 0.5:
		return StatusHalfDay, false
	default:
		return StatusAbsent, false
	}
}
