package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	query := `
		SELECT id, branch_id, name, start_time, end_time,
		       allowed_late_minutes, allowed_early_exit_minutes,
		       created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var result shift.Shift
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.BranchID,
		&result.Name,
		&result.StartTime,
		&result.EndTime,
		&result.AllowedLateMinutes,
		&result.AllowedEarlyExitMinutes,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return result, nil
}
