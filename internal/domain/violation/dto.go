package violation

import (
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/pkg/validator"
)

// ListViolationsRequest filters the monthly violation report.
type ListViolationsRequest struct {
	Month    int
	Year     int
	BranchID *string
	Page     int
	Limit    int
}

func (r *ListViolationsRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *ListViolationsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = 20
	}
}

// ViolationResponse is the serialized audit record.
type ViolationResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BranchID     string    `json:"branch_id"`
	AttendanceID string    `json:"attendance_id"`
	Type         Type      `json:"type"`
	Date         string    `json:"date"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListViolationsResponse is a paginated monthly report.
type ListViolationsResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Violations []ViolationResponse `json:"violations"`
}
