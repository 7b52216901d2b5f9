package violation

import (
	"time"
)

type Type string

const (
	TypeLate         Type = "LATE"
	TypeEarlyExit    Type = "EARLY_EXIT"
	TypeAutoCheckout Type = "AUTO_CHECKOUT"
)

// Violation is an audit record of a punctuality breach. At most one record
// exists per (attendance, type); EARLY_EXIT records are retracted when a later
// close the same day lands past the early threshold, the other types never are.
type Violation struct {
	ID           string
	UserID       string
	BranchID     string
	AttendanceID string
	Type         Type
	Date         time.Time
	Month        int
	Year         int
	CreatedAt    time.Time
}
