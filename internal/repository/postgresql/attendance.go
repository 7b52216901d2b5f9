package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, user_id, branch_id, shift_id, date, punches,
	total_working_minutes, total_break_minutes,
	late_marked, early_exit_marked, status,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var punches []byte

	err := row.Scan(
		&att.ID, &att.UserID, &att.BranchID, &att.ShiftID, &att.Date, &punches,
		&att.TotalWorkingMinutes, &att.TotalBreakMinutes,
		&att.LateMarked, &att.EarlyExitMarked, &att.Status,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if err := json.Unmarshal(punches, &att.Punches); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to decode punches: %w", err)
	}

	return att, nil
}

func marshalPunches(punches []attendance.Punch) ([]byte, error) {
	if punches == nil {
		punches = []attendance.Punch{}
	}
	encoded, err := json.Marshal(punches)
	if err != nil {
		return nil, fmt.Errorf("failed to encode punches: %w", err)
	}
	return encoded, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	punches, err := marshalPunches(att.Punches)
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (
			user_id, branch_id, shift_id, date, punches,
			total_working_minutes, total_break_minutes,
			late_marked, early_exit_marked, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		att.UserID,
		att.BranchID,
		att.ShiftID,
		att.Date,
		punches,
		att.TotalWorkingMinutes,
		att.TotalBreakMinutes,
		att.LateMarked,
		att.EarlyExitMarked,
		att.Status,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// Another writer created the day record first.
			return attendance.Attendance{}, attendance.ErrConcurrentUpdate
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1
		  AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(r.db.Pool.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// AppendPunch implements attendance.AttendanceRepository.
//
// The guard only matches when the stored punch list is empty or its final
// punch is closed, so two concurrent check-ins cannot both land.
func (r *attendanceRepositoryImpl) AppendPunch(ctx context.Context, att attendance.Attendance) error {
	punches, err := marshalPunches(att.Punches)
	if err != nil {
		return err
	}

	query := `
		UPDATE attendances
		SET punches = $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND (jsonb_array_length(punches) = 0 OR punches->-1->>'checkOut' IS NOT NULL)
	`

	tag, err := r.db.Pool.Exec(ctx, query, att.ID, punches)
	if err != nil {
		return fmt.Errorf("failed to append punch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrConcurrentUpdate
	}

	return nil
}

// UpdateClose implements attendance.AttendanceRepository.
//
// The guard only matches while the stored final punch is still open, so a
// concurrent close or sweep makes this write a no-op instead of clobbering it.
func (r *attendanceRepositoryImpl) UpdateClose(ctx context.Context, q database.Querier, att attendance.Attendance) error {
	punches, err := marshalPunches(att.Punches)
	if err != nil {
		return err
	}

	query := `
		UPDATE attendances
		SET punches = $2,
		    total_working_minutes = $3,
		    total_break_minutes = $4,
		    late_marked = $5,
		    early_exit_marked = $6,
		    status = $7,
		    updated_at = NOW()
		WHERE id = $1
		  AND punches->-1->>'checkOut' IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		punches,
		att.TotalWorkingMinutes,
		att.TotalBreakMinutes,
		att.LateMarked,
		att.EarlyExitMarked,
		att.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrConcurrentUpdate
	}

	return nil
}

func (r *attendanceRepositoryImpl) listPage(ctx context.Context, where string, args []any, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	countQuery := `SELECT COUNT(*) FROM attendances ` + where

	var total int64
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		%s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, where, len(args)+1, len(args)+2)

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.db.Pool.Query(ctx, query, append(args, filter.Limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read attendances: %w", err)
	}

	return result, total, nil
}

// ListByUser implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return r.listPage(ctx, `WHERE user_id = $1`, []any{userID}, filter)
}

// ListByBranch implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByBranch(ctx context.Context, branchID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return r.listPage(ctx, `WHERE branch_id = $1`, []any{branchID}, filter)
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time, branchID *string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	where := `WHERE date = $1`
	args := []any{date}
	if branchID != nil {
		where += ` AND branch_id = $2`
		args = append(args, *branchID)
	}
	return r.listPage(ctx, where, args, filter)
}

// ListOpenByBranchAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenByBranchAndDate(ctx context.Context, branchID string, date time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE branch_id = $1
		  AND date = $2
		  AND jsonb_array_length(punches) > 0
		  AND punches->-1->>'checkOut' IS NULL
	`

	rows, err := r.db.Pool.Query(ctx, query, branchID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendances: %w", err)
	}

	return result, nil
}
