package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound  = errors.New("shift not found")
	ErrInvalidClock   = errors.New("invalid time, expected HH:mm")
	ErrOvernightShift = errors.New("shift start must be before shift end (overnight shifts not supported)")
)
