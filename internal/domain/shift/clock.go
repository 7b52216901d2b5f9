package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AutoCloseGrace is how long after shift end an open session may linger
// before the sweeper force-closes it.
const AutoCloseGrace = 2 * time.Hour

// Clock is a wall-clock time of day parsed from "HH:mm".
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:mm" string.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Minutes returns minutes since local midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Window holds the shift boundaries and punctuality thresholds resolved to
// instants for one calendar day in the branch's time zone.
type Window struct {
	Start              time.Time
	End                time.Time
	LateThreshold      time.Time
	EarlyThreshold     time.Time
	AutoCloseThreshold time.Time
}

// WindowOn resolves the shift's boundaries for the calendar day containing
// day, interpreted in loc. Overnight shifts (start >= end) are rejected so
// downstream duration math never goes negative.
func (s Shift) WindowOn(day time.Time, loc *time.Location) (Window, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return Window{}, err
	}
	if start.Minutes() >= end.Minutes() {
		return Window{}, fmt.Errorf("%w: %s-%s", ErrOvernightShift, s.StartTime, s.EndTime)
	}

	local := day.In(loc)
	shiftStart := time.Date(local.Year(), local.Month(), local.Day(), start.Hour, start.Minute, 0, 0, loc)
	shiftEnd := time.Date(local.Year(), local.Month(), local.Day(), end.Hour, end.Minute, 0, 0, loc)

	return Window{
		Start:              shiftStart,
		End:                shiftEnd,
		LateThreshold:      shiftStart.Add(time.Duration(s.AllowedLateMinutes) * time.Minute),
		EarlyThreshold:     shiftEnd.Add(-time.Duration(s.AllowedEarlyExitMinutes) * time.Minute),
		AutoCloseThreshold: shiftEnd.Add(AutoCloseGrace),
	}, nil
}

// DurationMinutes is the shift's nominal length from its local HH:mm
// boundaries. Time-zone-agnostic: both ends live on the same local clock.
func (s Shift) DurationMinutes() (int, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return 0, err
	}
	if start.Minutes() >= end.Minutes() {
		return 0, fmt.Errorf("%w: %s-%s", ErrOvernightShift, s.StartTime, s.EndTime)
	}
	return end.Minutes() - start.Minutes(), nil
}
