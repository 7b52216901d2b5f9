package attendance

import (
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/pkg/validator"
)

// CheckInRequest carries the caller's GPS fix for a check-in.
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Latitude == nil || r.Longitude == nil {
		errs = append(errs, validator.ValidationError{Field: "location", Message: "latitude and longitude are required"})
		return errs
	}
	if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "must be between -180 and 180"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CheckOutRequest carries the caller's GPS fix for a check-out.
type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r CheckOutRequest) Validate() error {
	return CheckInRequest(r).Validate()
}

// HistoryFilter paginates attendance listings.
type HistoryFilter struct {
	Page  int
	Limit int
}

func (f *HistoryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
}

// PunchResponse mirrors one punch in API responses.
type PunchResponse struct {
	CheckIn          time.Time  `json:"check_in"`
	CheckInLocation  *Location  `json:"check_in_location,omitempty"`
	CheckOut         *time.Time `json:"check_out,omitempty"`
	CheckOutLocation *Location  `json:"check_out_location,omitempty"`
	AutoClosed       bool       `json:"auto_closed"`
}

// AttendanceResponse is the serialized day record.
type AttendanceResponse struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	BranchID            string          `json:"branch_id"`
	ShiftID             string          `json:"shift_id"`
	Date                string          `json:"date"`
	Punches             []PunchResponse `json:"punches"`
	TotalWorkingMinutes int             `json:"total_working_minutes"`
	TotalBreakMinutes   int             `json:"total_break_minutes"`
	LateMarked          bool            `json:"late_marked"`
	EarlyExitMarked     bool            `json:"early_exit_marked"`
	Status              Status          `json:"status"`
}

// ListAttendanceResponse is a paginated set of day records.
type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
