package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/branch"
	"github.com/shiftwise/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwise/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise/attendance-backend-go/internal/repository/postgresql"
)

// Sweeper force-closes sessions whose owner forgot to check out. A session
// qualifies once the branch-local clock passes shift end plus the grace
// period; the checkout is then backdated to shift end so the forgotten tail
// never counts as worked time.
type Sweeper struct {
	db *database.DB
	attendance.AttendanceRepository
	branch.BranchRepository
	shift.ShiftRepository
	violation.ViolationRepository
	notificationService notification.Service
	logger              *slog.Logger

	mu sync.Mutex
}

func NewSweeper(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	branchRepo branch.BranchRepository,
	shiftRepo shift.ShiftRepository,
	violationRepo violation.ViolationRepository,
	notificationService notification.Service,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		BranchRepository:     branchRepo,
		ShiftRepository:      shiftRepo,
		ViolationRepository:  violationRepo,
		notificationService:  notificationService,
		logger:               logger,
	}
}

// SweepTick runs one reconciliation pass over every branch and returns the
// number of sessions closed. If a previous tick is still running, the call
// returns immediately; a slow database must not stack sweeps.
func (s *Sweeper) SweepTick(ctx context.Context, now time.Time) (int, error) {
	if !s.mu.TryLock() {
		s.logger.Warn("sweep tick skipped, previous tick still running")
		return 0, nil
	}
	defer s.mu.Unlock()

	branches, err := s.BranchRepository.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list branches for sweep: %w", err)
	}

	closed := 0
	for _, b := range branches {
		n, err := s.sweepBranch(ctx, b, now)
		closed += n
		if err != nil {
			// A failing branch never blocks the others.
			s.logger.Error("branch sweep failed",
				slog.String("branch_id", b.ID),
				slog.Any("error", err),
			)
		}
	}

	return closed, nil
}

func (s *Sweeper) sweepBranch(ctx context.Context, b branch.Branch, now time.Time) (int, error) {
	loc := b.Location()
	date := b.MidnightOn(now)

	open, err := s.AttendanceRepository.ListOpenByBranchAndDate(ctx, b.ID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	shifts := map[string]shift.Shift{}
	closed := 0
	for _, att := range open {
		sh, ok := shifts[att.ShiftID]
		if !ok {
			sh, err = s.ShiftRepository.GetByID(ctx, att.ShiftID)
			if err != nil {
				s.logger.Error("sweep skipped session, shift lookup failed",
					slog.String("attendance_id", att.ID),
					slog.String("shift_id", att.ShiftID),
					slog.Any("error", err),
				)
				continue
			}
			shifts[att.ShiftID] = sh
		}

		window, err := sh.WindowOn(date, loc)
		if err != nil {
			s.logger.Error("sweep skipped session, invalid shift window",
				slog.String("attendance_id", att.ID),
				slog.Any("error", err),
			)
			continue
		}
		if !now.After(window.AutoCloseThreshold) {
			continue
		}

		if err := s.closeSession(ctx, b, sh, window, att); err != nil {
			if errors.Is(err, attendance.ErrConcurrentUpdate) {
				// The user checked out between the list and the write.
				continue
			}
			s.logger.Error("sweep failed to close session",
				slog.String("attendance_id", att.ID),
				slog.Any("error", err),
			)
			continue
		}
		closed++
	}

	return closed, nil
}

// closeSession backdates the open punch to shift end, records the
// AUTO_CHECKOUT violation and resolves the status from the worked-time ratio
// alone. Punctuality rules and the three-lates penalty only apply to punches
// the user actually made, so a forced close never touches counters.
func (s *Sweeper) closeSession(ctx context.Context, b branch.Branch, sh shift.Shift, window shift.Window, att attendance.Attendance) error {
	if err := att.AutoClose(window.End); err != nil {
		return err
	}
	att.RecomputeTotals()

	shiftMinutes, err := sh.DurationMinutes()
	if err != nil {
		return err
	}
	att.Status, _ = attendance.ResolveStatus(att.TotalWorkingMinutes, shiftMinutes, 0)

	localDate := att.Date.In(b.Location())
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.AttendanceRepository.UpdateClose(ctx, tx, att); err != nil {
			return err
		}
		v := violation.Violation{
			UserID:       att.UserID,
			BranchID:     att.BranchID,
			AttendanceID: att.ID,
			Type:         violation.TypeAutoCheckout,
			Date:         att.Date,
			Month:        int(localDate.Month()),
			Year:         localDate.Year(),
		}
		return s.ViolationRepository.Create(ctx, tx, v)
	})
	if err != nil {
		return err
	}

	s.logger.Info("auto-closed forgotten session",
		slog.String("attendance_id", att.ID),
		slog.String("user_id", att.UserID),
		slog.String("closed_at", window.End.Format(time.RFC3339)),
	)

	if s.notificationService != nil {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		n := notification.Notification{
			RecipientID: att.UserID,
			Type:        notification.TypeAttendanceAutoClosed,
			Title:       "Auto checked out",
			Message:     fmt.Sprintf("You forgot to check out; your session was closed at %s", window.End.In(b.Location()).Format("15:04")),
			Data:        map[string]interface{}{"attendance_id": att.ID},
		}
		if err := s.notificationService.Notify(nctx, n); err != nil {
			s.logger.Warn("auto-close notification failed",
				slog.String("user_id", att.UserID),
				slog.Any("error", err),
			)
		}
	}

	return nil
}
