package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSweeper(db *database.DB) *Sweeper {
	return NewSweeper(
		db,
		postgresql.NewAttendanceRepository(db),
		postgresql.NewBranchRepository(db),
		postgresql.NewShiftRepository(db),
		postgresql.NewViolationRepository(db),
		nil,
		testLogger(),
	)
}

func loadAttendance(t *testing.T, db *database.DB, userID string) attendance.Attendance {
	t.Helper()
	repo := postgresql.NewAttendanceRepository(db)
	att, err := repo.GetByUserAndDate(context.Background(), userID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, att)
	return *att
}

func TestSweeper_ClosesForgottenSessionAtShiftEnd(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	branchID := seedBranch(t, db)
	shiftID := seedShift(t, db, branchID)
	userID := seedUser(t, db, branchID, shiftID, 0)
	svc := newTestService(db)
	sweeper := newTestSweeper(db)

	_, err := svc.CheckIn(ctx, userID, onsite(), day(9, 0))
	require.NoError(t, err)

	// 18:30 is inside the two hour grace window, nothing happens.
	closed, err := sweeper.SweepTick(ctx, day(18, 30))
	require.NoError(t, err)
	assert.Zero(t, closed)

	// 19:01 is past shift end + grace; the session closes at shift end.
	closed, err = sweeper.SweepTick(ctx, day(19, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	att := loadAttendance(t, db, userID)
	require.Len(t, att.Punches, 1)
	require.NotNil(t, att.Punches[0].CheckOut)
	assert.True(t, att.Punches[0].AutoClosed)
	assert.True(t, att.Punches[0].CheckOut.Equal(day(17, 0)))
	assert.Equal(t, att.Punches[0].CheckInLocation, att.Punches[0].CheckOutLocation)
	assert.Equal(t, 480, att.TotalWorkingMinutes)
	assert.Equal(t, attendance.StatusPresent, att.Status)
	assert.Contains(t, violationTypes(t, db, userID), "AUTO_CHECKOUT")

	// Forced closes never touch punctuality counters.
	late, earlyExit := userCounters(t, db, userID)
	assert.Zero(t, late)
	assert.Zero(t, earlyExit)
}

func TestSweeper_SecondTickIsNoop(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	branchID := seedBranch(t, db)
	shiftID := seedShift(t, db, branchID)
	userID := seedUser(t, db, branchID, shiftID, 0)
	svc := newTestService(db)
	sweeper := newTestSweeper(db)

	_, err := svc.CheckIn(ctx, userID, onsite(), day(12, 0))
	require.NoError(t, err)

	closed, err := sweeper.SweepTick(ctx, day(19, 30))
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	closed, err = sweeper.SweepTick(ctx, day(19, 40))
	require.NoError(t, err)
	assert.Zero(t, closed)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM violations WHERE user_id = $1 AND type = 'AUTO_CHECKOUT'`, userID).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSweeper_SkipsClosedSessions(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	branchID := seedBranch(t, db)
	shiftID := seedShift(t, db, branchID)
	userID := seedUser(t, db, branchID, shiftID, 0)
	svc := newTestService(db)
	sweeper := newTestSweeper(db)

	_, err := svc.CheckIn(ctx, userID, onsite(), day(9, 0))
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, userID, attendance.CheckOutRequest(onsite()), day(17, 0))
	require.NoError(t, err)

	closed, err := sweeper.SweepTick(ctx, day(20, 0))
	require.NoError(t, err)
	assert.Zero(t, closed)

	assert.NotContains(t, violationTypes(t, db, userID), "AUTO_CHECKOUT")
}
