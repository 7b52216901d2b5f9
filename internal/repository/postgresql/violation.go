package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type violationRepositoryImpl struct {
	db *database.DB
}

func NewViolationRepository(db *database.DB) violation.ViolationRepository {
	return &violationRepositoryImpl{db: db}
}

// Create implements violation.ViolationRepository.
//
// ON CONFLICT DO NOTHING makes re-evaluation of the same day a no-op: a day
// record carries at most one violation per type.
func (r *violationRepositoryImpl) Create(ctx context.Context, q database.Querier, v violation.Violation) error {
	query := `
		INSERT INTO violations (user_id, branch_id, attendance_id, type, date, month, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (attendance_id, type) DO NOTHING
	`

	_, err := q.Exec(ctx, query, v.UserID, v.BranchID, v.AttendanceID, v.Type, v.Date, v.Month, v.Year)
	if err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}

	return nil
}

// DeleteForAttendance implements violation.ViolationRepository.
func (r *violationRepositoryImpl) DeleteForAttendance(ctx context.Context, q database.Querier, attendanceID string, t violation.Type) error {
	query := `
		DELETE FROM violations
		WHERE attendance_id = $1
		  AND type = $2
	`

	_, err := q.Exec(ctx, query, attendanceID, t)
	if err != nil {
		return fmt.Errorf("failed to delete violation: %w", err)
	}

	return nil
}

// ListByMonth implements violation.ViolationRepository.
func (r *violationRepositoryImpl) ListByMonth(ctx context.Context, filter violation.Filter) ([]violation.Violation, int64, error) {
	where := `WHERE month = $1 AND year = $2`
	args := []any{filter.Month, filter.Year}
	if filter.BranchID != nil {
		where += ` AND branch_id = $3`
		args = append(args, *filter.BranchID)
	}

	countQuery := `SELECT COUNT(*) FROM violations ` + where

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count violations: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, branch_id, attendance_id, type, date, month, year, created_at
		FROM violations
		%s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.Pool.Query(ctx, query, append(args, filter.Limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list violations: %w", err)
	}
	defer rows.Close()

	var result []violation.Violation
	for rows.Next() {
		var v violation.Violation
		err := rows.Scan(
			&v.ID,
			&v.UserID,
			&v.BranchID,
			&v.AttendanceID,
			&v.Type,
			&v.Date,
			&v.Month,
			&v.Year,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan violation: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read violations: %w", err)
	}

	return result, total, nil
}
