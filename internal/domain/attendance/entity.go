package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusAbsent  Status = "ABSENT"
)

// Location is a GPS fix captured with a punch.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Punch is one check-in/check-out interval. A nil CheckOut means the interval
// is still open. AutoClosed marks intervals the sweeper closed, not the user.
type Punch struct {
	CheckIn          time.Time  `json:"checkIn"`
	CheckInLocation  *Location  `json:"checkInLocation,omitempty"`
	CheckOut         *time.Time `json:"checkOut,omitempty"`
	CheckOutLocation *Location  `json:"checkOutLocation,omitempty"`
	AutoClosed       bool       `json:"autoClosed,omitempty"`
}

// Attendance is one user's work record for one calendar day, keyed by the
// branch-local midnight of that day. Punches are stored in insertion order,
// which is also chronological order; at most one punch is open at a time.
type Attendance struct {
	ID                  string
	UserID              string
	BranchID            string
	ShiftID             string
	Date                time.Time
	Punches             []Punch
	TotalWorkingMinutes int
	TotalBreakMinutes   int
	LateMarked          bool
	EarlyExitMarked     bool
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SessionState is the day's punch state machine, computed once per operation
// instead of re-derived from array indexing at every call site.
type SessionState int

const (
	SessionNone SessionState = iota
	SessionOpen
	SessionClosed
)

// Session reports whether the day has no punches, an open final punch, or a
// closed final punch.
func (a *Attendance) Session() SessionState {
	if len(a.Punches) == 0 {
		return SessionNone
	}
	if a.Punches[len(a.Punches)-1].CheckOut == nil {
		return SessionOpen
	}
	return SessionClosed
}

// LastPunch returns the most recent punch, or nil when the day has none.
func (a *Attendance) LastPunch() *Punch {
	if len(a.Punches) == 0 {
		return nil
	}
	return &a.Punches[len(a.Punches)-1]
}

// OpenPunch appends a new open interval starting at now.
func (a *Attendance) OpenPunch(loc Location, now time.Time) error {
	if a.Session() == SessionOpen {
		return ErrAlreadyCheckedIn
	}
	a.Punches = append(a.Punches, Punch{
		CheckIn:         now,
		CheckInLocation: &loc,
	})
	return nil
}

// ClosePunch closes the open interval at now.
func (a *Attendance) ClosePunch(loc Location, now time.Time) error {
	if a.Session() != SessionOpen {
		return ErrNotCheckedIn
	}
	last := a.LastPunch()
	last.CheckOut = &now
	last.CheckOutLocation = &loc
	return nil
}

// AutoClose closes the open interval at the given instant on the sweeper's
// behalf. The check-in location is carried forward since no new location
// signal exists for a forgotten checkout.
func (a *Attendance) AutoClose(at time.Time) error {
	if a.Session() != SessionOpen {
		return ErrNotCheckedIn
	}
	last := a.LastPunch()
	last.CheckOut = &at
	last.CheckOutLocation = last.CheckInLocation
	last.AutoClosed = true
	return nil
}

// RecomputeTotals rebuilds the derived worked and break minutes from the
// punch sequence. Worked time sums closed intervals; break time sums the gaps
// between a punch's check-in and the previous punch's check-out. Open punches
// and the gap before the first punch never contribute. Both totals floor to
// whole minutes. Idempotent; must run after every punch mutation and is never
// cached across calls.
func (a *Attendance) RecomputeTotals() {
	var working, breaks time.Duration

	for i := range a.Punches {
		p := &a.Punches[i]
		if p.CheckOut != nil {
			working += p.CheckOut.Sub(p.CheckIn)
		}
		if i > 0 {
			prev := &a.Punches[i-1]
			if prev.CheckOut != nil {
				breaks += p.CheckIn.Sub(*prev.CheckOut)
			}
		}
	}

	a.TotalWorkingMinutes = int(working.Minutes())
	a.TotalBreakMinutes = int(breaks.Minutes())
}
