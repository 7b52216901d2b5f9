package attendance

import "errors"

// Attendance domain errors
var (
	// Policy violations: reported to the caller, no state change
	ErrAlreadyCheckedIn     = errors.New("you are already checked in, please check out first")
	ErrNotCheckedIn         = errors.New("you are not checked in")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")
	ErrLocationRequired     = errors.New("location (latitude, longitude) is required")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrConcurrentUpdate   = errors.New("attendance was modified concurrently, please retry")
)
