package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Pool.Close() })

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))

	for _, table := range []string{"notifications", "violations", "attendances", "users", "shifts", "branches"} {
		_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}

	return db
}

type fixture struct {
	branchID string
	shiftID  string
	userID   string
}

func seedFixture(t *testing.T, db *database.DB) fixture {
	t.Helper()
	ctx := context.Background()

	var f fixture
	require.NoError(t, db.Pool.QueryRow(ctx, `
		INSERT INTO branches (name, timezone, latitude, longitude, radius_meters)
		VALUES ($1, 'UTC', 0, 0, 100) RETURNING id
	`, "HQ-"+uuid.NewString()).Scan(&f.branchID))

	require.NoError(t, db.Pool.QueryRow(ctx, `
		INSERT INTO shifts (branch_id, name, start_time, end_time, allowed_late_minutes, allowed_early_exit_minutes)
		VALUES ($1, $2, '09:00', '17:00', 10, 15) RETURNING id
	`, f.branchID, "Day-"+uuid.NewString()).Scan(&f.shiftID))

	require.NoError(t, db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, role, status, branch_id, shift_id)
		VALUES ('Test User', $1, 'EMPLOYEE', 'ACTIVE', $2, $3) RETURNING id
	`, uuid.NewString()+"@example.com", f.branchID, f.shiftID).Scan(&f.userID))

	return f
}

func openAttendance(f fixture, at time.Time) attendance.Attendance {
	att := attendance.Attendance{
		UserID:   f.userID,
		BranchID: f.branchID,
		ShiftID:  f.shiftID,
		Date:     time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		Status:   attendance.StatusPresent,
	}
	_ = att.OpenPunch(attendance.Location{}, at)
	return att
}

func TestAttendanceRepository_CreateDuplicateDay(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seedFixture(t, db)
	repo := postgresql.NewAttendanceRepository(db)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, openAttendance(f, at))
	require.NoError(t, err)

	_, err = repo.Create(ctx, openAttendance(f, at))
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)
}

func TestAttendanceRepository_AppendPunchGuard(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seedFixture(t, db)
	repo := postgresql.NewAttendanceRepository(db)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, openAttendance(f, at))
	require.NoError(t, err)

	// The stored final punch is still open, so a second open must lose.
	stale := created
	stale.Punches = append([]attendance.Punch{}, created.Punches...)
	out := at.Add(3 * time.Hour)
	stale.Punches[0].CheckOut = &out
	require.NoError(t, stale.OpenPunch(attendance.Location{}, at.Add(4*time.Hour)))

	err = repo.AppendPunch(ctx, stale)
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)

	// After a real close the append lands.
	closed := created
	closed.Punches = append([]attendance.Punch{}, created.Punches...)
	require.NoError(t, closed.ClosePunch(attendance.Location{}, at.Add(3*time.Hour)))
	require.NoError(t, repo.UpdateClose(ctx, db.Pool, closed))

	require.NoError(t, closed.OpenPunch(attendance.Location{}, at.Add(4*time.Hour)))
	assert.NoError(t, repo.AppendPunch(ctx, closed))
}

func TestAttendanceRepository_UpdateCloseGuard(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seedFixture(t, db)
	repo := postgresql.NewAttendanceRepository(db)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, openAttendance(f, at))
	require.NoError(t, err)

	first := created
	first.Punches = append([]attendance.Punch{}, created.Punches...)
	require.NoError(t, first.ClosePunch(attendance.Location{}, at.Add(8*time.Hour)))
	require.NoError(t, repo.UpdateClose(ctx, db.Pool, first))

	// A second close against the already-closed punch loses the race.
	second := created
	second.Punches = append([]attendance.Punch{}, created.Punches...)
	require.NoError(t, second.ClosePunch(attendance.Location{}, at.Add(7*time.Hour)))
	err = repo.UpdateClose(ctx, db.Pool, second)
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)
}

func TestViolationRepository_IdempotentCreateAndRetract(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seedFixture(t, db)
	attRepo := postgresql.NewAttendanceRepository(db)
	vioRepo := postgresql.NewViolationRepository(db)

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	created, err := attRepo.Create(ctx, openAttendance(f, at))
	require.NoError(t, err)

	v := violation.Violation{
		UserID:       f.userID,
		BranchID:     f.branchID,
		AttendanceID: created.ID,
		Type:         violation.TypeEarlyExit,
		Date:         created.Date,
		Month:        3,
		Year:         2026,
	}
	require.NoError(t, vioRepo.Create(ctx, db.Pool, v))
	require.NoError(t, vioRepo.Create(ctx, db.Pool, v))

	records, total, err := vioRepo.ListByMonth(ctx, violation.Filter{Month: 3, Year: 2026, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, violation.TypeEarlyExit, records[0].Type)

	require.NoError(t, vioRepo.DeleteForAttendance(ctx, db.Pool, created.ID, violation.TypeEarlyExit))
	_, total, err = vioRepo.ListByMonth(ctx, violation.Filter{Month: 3, Year: 2026, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}
