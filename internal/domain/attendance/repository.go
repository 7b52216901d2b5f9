package attendance

import (
	"context"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

// AttendanceRepository defines data access for day records. The punch
// sequence is the contended field: every mutation is guarded by a predicate
// on the final punch's open/closed state, so a concurrent writer loses the
// race instead of corrupting the sequence (reported as ErrConcurrentUpdate).
type AttendanceRepository interface {
	// Create inserts a new day record. A (user, date) uniqueness conflict is
	// reported as ErrConcurrentUpdate so the caller can re-read and retry.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByUserAndDate returns nil when no record exists for the day.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// AppendPunch persists the punch list after an OpenPunch, guarded on the
	// final punch having been closed (or the list having been empty).
	AppendPunch(ctx context.Context, att Attendance) error

	// UpdateClose persists punches, totals, markings and status after a close,
	// guarded on the final punch still being open at write time. Takes an
	// explicit querier so the close pipeline commits atomically with counter
	// and violation changes.
	UpdateClose(ctx context.Context, q database.Querier, att Attendance) error

	// ListByUser pages a user's history, newest day first.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListByBranch pages a branch's records, newest day first.
	ListByBranch(ctx context.Context, branchID string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListByDate pages records for one day key, optionally scoped to a branch.
	ListByDate(ctx context.Context, date time.Time, branchID *string, filter HistoryFilter) ([]Attendance, int64, error)

	// ListOpenByBranchAndDate returns the sweep candidates: records for the
	// branch/day whose final punch is open.
	ListOpenByBranchAndDate(ctx context.Context, branchID string, date time.Time) ([]Attendance, error)
}
