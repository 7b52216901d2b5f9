package branch

import (
	"time"
)

// Branch is a physical office with a geofence and a time zone. Read-only to
// the attendance engine; branch management lives in an external collaborator.
type Branch struct {
	ID           string
	Name         string
	Timezone     string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location resolves the branch's IANA time zone, falling back to UTC when the
// zone is missing or unknown.
func (b Branch) Location() *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MidnightOn returns the branch-local midnight instant for the calendar day
// containing t. Used as the day key for attendance records.
func (b Branch) MidnightOn(t time.Time) time.Time {
	loc := b.Location()
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
