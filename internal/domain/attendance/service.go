package attendance

import (
	"context"
	"time"
)

// AttendanceService is the engine surface exposed to the serving layer.
type AttendanceService interface {
	CheckIn(ctx context.Context, userID string, req CheckInRequest, now time.Time) (AttendanceResponse, error)
	CheckOut(ctx context.Context, userID string, req CheckOutRequest, now time.Time) (AttendanceResponse, error)

	// GetDay returns the caller's record for the calendar day containing at,
	// resolved in the caller's branch time zone.
	GetDay(ctx context.Context, userID string, at time.Time) (AttendanceResponse, error)

	GetMyAttendance(ctx context.Context, userID string, filter HistoryFilter) (ListAttendanceResponse, error)
	GetBranchAttendance(ctx context.Context, branchID string, filter HistoryFilter) (ListAttendanceResponse, error)

	// GetByDate lists records for a YYYY-MM-DD day. The day key is anchored to
	// the given branch's time zone; without a branch it falls back to UTC.
	GetByDate(ctx context.Context, date string, branchID *string, filter HistoryFilter) (ListAttendanceResponse, error)
}
