package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, c.Hour)
	assert.Equal(t, 30, c.Minute)
	assert.Equal(t, 570, c.Minutes())

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "09:30:00"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, "input %q", bad)
	}
}

func TestWindowOn(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s := Shift{
		StartTime:               "09:00",
		EndTime:                 "17:00",
		AllowedLateMinutes:      10,
		AllowedEarlyExitMinutes: 15,
	}

	day := time.Date(2026, 2, 16, 0, 0, 0, 0, loc)
	w, err := s.WindowOn(day, loc)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 2, 16, 9, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2026, 2, 16, 17, 0, 0, 0, loc), w.End)
	assert.Equal(t, time.Date(2026, 2, 16, 9, 10, 0, 0, loc), w.LateThreshold)
	assert.Equal(t, time.Date(2026, 2, 16, 16, 45, 0, 0, loc), w.EarlyThreshold)
	assert.Equal(t, time.Date(2026, 2, 16, 19, 0, 0, 0, loc), w.AutoCloseThreshold)
}

func TestWindowOn_UsesBranchZoneNotInputZone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s := Shift{StartTime: "09:00", EndTime: "17:00"}

	// Day expressed in UTC, boundaries must still land on Kolkata wall-clock.
	day := time.Date(2026, 2, 15, 18, 30, 0, 0, time.UTC) // 2026-02-16 00:00 IST
	w, err := s.WindowOn(day, kolkata)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 16, 9, 0, 0, 0, kolkata).Unix(), w.Start.Unix())
}

func TestWindowOn_RejectsOvernight(t *testing.T) {
	s := Shift{StartTime: "22:00", EndTime: "06:00"}
	_, err := s.WindowOn(time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrOvernightShift)

	s = Shift{StartTime: "09:00", EndTime: "09:00"}
	_, err = s.WindowOn(time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrOvernightShift)
}

func TestDurationMinutes(t *testing.T) {
	s := Shift{StartTime: "09:00", EndTime: "17:00"}
	d, err := s.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 480, d)

	s = Shift{StartTime: "17:00", EndTime: "09:00"}
	_, err = s.DurationMinutes()
	assert.ErrorIs(t, err, ErrOvernightShift)
}
