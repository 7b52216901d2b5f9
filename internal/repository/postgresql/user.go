package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	query := `
		SELECT id, name, email, role, status, branch_id, shift_id,
		       late_count, early_exit_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var result user.User
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.Name,
		&result.Email,
		&result.Role,
		&result.Status,
		&result.BranchID,
		&result.ShiftID,
		&result.LateCount,
		&result.EarlyExitCount,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return result, nil
}

// ApplyCounterDelta implements user.UserRepository.
func (r *userRepositoryImpl) ApplyCounterDelta(ctx context.Context, q database.Querier, userID string, lateDelta, earlyExitDelta int) error {
	if lateDelta == 0 && earlyExitDelta == 0 {
		return nil
	}

	query := `
		UPDATE users
		SET late_count = late_count + $2,
		    early_exit_count = GREATEST(0, early_exit_count + $3),
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, userID, lateDelta, earlyExitDelta)
	if err != nil {
		return fmt.Errorf("failed to update user counters: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
