package violation

import (
	"context"

	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

// Filter narrows monthly violation listings.
type Filter struct {
	Month    int
	Year     int
	BranchID *string
	Page     int
	Limit    int
}

// ViolationRepository is the append/retract ledger. Create is idempotent per
// (attendance, type): a duplicate insert is a no-op, which keeps concurrent
// evaluations from double-recording. Mutations take an explicit querier so
// they join the attendance update's transaction.
type ViolationRepository interface {
	Create(ctx context.Context, q database.Querier, v Violation) error
	DeleteForAttendance(ctx context.Context, q database.Querier, attendanceID string, t Type) error
	ListByMonth(ctx context.Context, filter Filter) ([]Violation, int64, error)
}
