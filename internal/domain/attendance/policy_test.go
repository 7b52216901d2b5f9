package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
)

// nineToFive is a 09:00-17:00 shift with 10 minutes late and 15 minutes
// early-exit allowance, resolved for 2026-02-16 UTC.
func nineToFive(t *testing.T) shift.Window {
	t.Helper()
	s := shift.Shift{
		StartTime:               "09:00",
		EndTime:                 "17:00",
		AllowedLateMinutes:      10,
		AllowedEarlyExitMinutes: 15,
	}
	w, err := s.WindowOn(time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), time.UTC)
	require.NoError(t, err)
	return w
}

func closedDay(t *testing.T, in, out time.Time) *Attendance {
	t.Helper()
	a := &Attendance{}
	require.NoError(t, a.OpenPunch(loc(), in))
	require.NoError(t, a.ClosePunch(loc(), out))
	a.RecomputeTotals()
	return a
}

func TestEvaluatePunctuality_LateArrivalAndEarlyExit(t *testing.T) {
	w := nineToFive(t)
	// Check-in 09:12 (past the 09:10 threshold), check-out 16:40 (before 16:45)
	a := closedDay(t, at(9, 12), at(16, 40))

	out := EvaluatePunctuality(a, w)

	assert.True(t, a.LateMarked)
	assert.True(t, a.EarlyExitMarked)
	assert.Equal(t, 1, out.Counters.Late)
	assert.Equal(t, 1, out.Counters.EarlyExit)
	assert.ElementsMatch(t, []violation.Type{violation.TypeLate, violation.TypeEarlyExit}, out.CreateViolations)
	assert.Empty(t, out.RetractViolations)

	assert.Equal(t, 448, a.TotalWorkingMinutes)
	status, consumed := ResolveStatus(a.TotalWorkingMinutes, 480, 1)
	assert.False(t, consumed)
	assert.Equal(t, StatusHalfDay, status)
}

func TestEvaluatePunctuality_OnTime(t *testing.T) {
	w := nineToFive(t)
	a := closedDay(t, at(9, 0), at(17, 0))

	out := EvaluatePunctuality(a, w)

	assert.False(t, a.LateMarked)
	assert.False(t, a.EarlyExitMarked)
	assert.Zero(t, out.Counters)
	assert.Empty(t, out.CreateViolations)
	assert.Empty(t, out.RetractViolations)
}

func TestEvaluatePunctuality_ExactThresholdsAreNotViolations(t *testing.T) {
	w := nineToFive(t)
	// Arriving exactly at the late threshold and leaving exactly at the early
	// threshold is within the grace window on both ends.
	a := closedDay(t, at(9, 10), at(16, 45))

	out := EvaluatePunctuality(a, w)
	assert.False(t, a.LateMarked)
	assert.False(t, a.EarlyExitMarked)
	assert.Zero(t, out.Counters)
}

func TestEvaluatePunctuality_LateMarkingIsMonotonic(t *testing.T) {
	w := nineToFive(t)
	a := closedDay(t, at(9, 30), at(12, 0))

	out := EvaluatePunctuality(a, w)
	require.True(t, a.LateMarked)
	require.Equal(t, 1, out.Counters.Late)

	// Second punch closing at end of shift: late stays marked, no second
	// increment.
	require.NoError(t, a.OpenPunch(loc(), at(12, 30)))
	require.NoError(t, a.ClosePunch(loc(), at(17, 0)))
	a.RecomputeTotals()

	out = EvaluatePunctuality(a, w)
	assert.True(t, a.LateMarked)
	assert.Equal(t, 0, out.Counters.Late)
	assert.NotContains(t, out.CreateViolations, violation.TypeLate)
}

func TestEvaluatePunctuality_EarlyExitReversal(t *testing.T) {
	w := nineToFive(t)
	a := closedDay(t, at(9, 0), at(13, 0))

	// Mid-day close looks like an early exit.
	out := EvaluatePunctuality(a, w)
	require.True(t, a.EarlyExitMarked)
	require.Equal(t, 1, out.Counters.EarlyExit)
	require.Contains(t, out.CreateViolations, violation.TypeEarlyExit)

	// The employee returns and finishes past the threshold: only the final
	// state of the day counts.
	require.NoError(t, a.OpenPunch(loc(), at(13, 30)))
	require.NoError(t, a.ClosePunch(loc(), at(17, 0)))
	a.RecomputeTotals()

	out = EvaluatePunctuality(a, w)
	assert.False(t, a.EarlyExitMarked)
	assert.Equal(t, -1, out.Counters.EarlyExit)
	assert.Contains(t, out.RetractViolations, violation.TypeEarlyExit)

	assert.Equal(t, 480, a.TotalWorkingMinutes)
	assert.Equal(t, 30, a.TotalBreakMinutes)
	status, consumed := ResolveStatus(a.TotalWorkingMinutes, 480, 0)
	assert.False(t, consumed)
	assert.Equal(t, StatusPresent, status)
}

func TestEvaluatePunctuality_EarlyExitNotReAddedOncePassed(t *testing.T) {
	w := nineToFive(t)
	a := closedDay(t, at(9, 0), at(16, 50))

	out := EvaluatePunctuality(a, w)
	assert.False(t, a.EarlyExitMarked)
	assert.Zero(t, out.Counters.EarlyExit)
	assert.Empty(t, out.RetractViolations)
}

func TestResolveStatus_RatioBands(t *testing.T) {
	cases := []struct {
		worked int
		want   Status
	}{
		{480, StatusPresent},
		{476, StatusPresent}, // 0.9916... still within tolerance band
		{475, StatusHalfDay}, // 0.9895...
		{240, StatusHalfDay}, // exactly 0.5
		{239, StatusAbsent},
		{0, StatusAbsent},
	}
	for _, c := range cases {
		status, consumed := ResolveStatus(c.worked, 480, 0)
		assert.False(t, consumed)
		assert.Equal(t, c.want, status, "worked=%d", c.worked)
	}
}

func TestResolveStatus_ThreeLatesPenalty(t *testing.T) {
	// The penalty overrides a fully worked day.
	status, consumed := ResolveStatus(480, 480, 3)
	assert.True(t, consumed)
	assert.Equal(t, StatusHalfDay, status)

	// Overflow carries: the caller subtracts exactly 3, leaving the excess.
	status, consumed = ResolveStatus(480, 480, 4)
	assert.True(t, consumed)
	assert.Equal(t, StatusHalfDay, status)

	status, consumed = ResolveStatus(480, 480, 2)
	assert.False(t, consumed)
	assert.Equal(t, StatusPresent, status)
}
