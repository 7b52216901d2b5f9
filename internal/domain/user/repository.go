package user

import (
	"context"

	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

// UserRepository defines the engine's access to users. ApplyCounterDelta is
// the only mutation: it takes an explicit querier so the caller can run it in
// the same transaction that persists the attendance change.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// ApplyCounterDelta adjusts late_count and early_exit_count by the given
	// deltas. early_exit_count is floored at zero.
	ApplyCounterDelta(ctx context.Context, q database.Querier, userID string, lateDelta, earlyExitDelta int) error
}
