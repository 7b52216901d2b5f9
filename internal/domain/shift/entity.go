package shift

import (
	"time"
)

// Shift is a configured work window. Start and end times are wall-clock
// "HH:mm" strings interpreted in the owning branch's time zone.
type Shift struct {
	ID                      string
	BranchID                string
	Name                    string
	StartTime               string
	EndTime                 string
	AllowedLateMinutes      int
	AllowedEarlyExitMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
