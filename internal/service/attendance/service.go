package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/branch"
	"github.com/shiftwise/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwise/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/utils"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/validator"
	"github.com/shiftwise/attendance-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	user.UserRepository
	branch.BranchRepository
	shift.ShiftRepository
	violation.ViolationRepository
	notificationService notification.Service
	logger              *slog.Logger
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	branchRepo branch.BranchRepository,
	shiftRepo shift.ShiftRepository,
	violationRepo violation.ViolationRepository,
	notificationService notification.Service,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		BranchRepository:     branchRepo,
		ShiftRepository:      shiftRepo,
		ViolationRepository:  violationRepo,
		notificationService:  notificationService,
		logger:               logger,
	}
}

// punchContext bundles everything a punch operation needs about the caller.
type punchContext struct {
	user   user.User
	branch branch.Branch
	shift  shift.Shift
}

func (a *AttendanceServiceImpl) resolvePunchContext(ctx context.Context, userID string) (punchContext, error) {
	usr, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return punchContext{}, err
	}
	if usr.Status != user.StatusActive {
		return punchContext{}, user.ErrUserNotActive
	}
	if usr.BranchID == nil || usr.ShiftID == nil {
		return punchContext{}, user.ErrNoBranchOrShift
	}

	b, err := a.BranchRepository.GetByID(ctx, *usr.BranchID)
	if err != nil {
		return punchContext{}, err
	}

	s, err := a.ShiftRepository.GetByID(ctx, *usr.ShiftID)
	if err != nil {
		return punchContext{}, err
	}

	return punchContext{user: usr, branch: b, shift: s}, nil
}

// checkGeofence rejects punches recorded outside the branch radius. The
// Haversine distance is advisory-accuracy, which is fine at fence scale.
func checkGeofence(b branch.Branch, lat, lng float64) (attendance.Location, error) {
	distance := utils.CalculateHaversineDistance(lat, lng, b.Latitude, b.Longitude)
	if distance > float64(b.RadiusMeters) {
		return attendance.Location{}, fmt.Errorf("%w: you are %.0fm from %s, allowed radius is %dm",
			attendance.ErrOutsideAllowedRadius, math.Round(distance), b.Name, b.RadiusMeters)
	}
	return attendance.Location{Latitude: lat, Longitude: lng}, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.CheckInRequest, now time.Time) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	pc, err := a.resolvePunchContext(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	loc, err := checkGeofence(pc.branch, *req.Latitude, *req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// One retry on a lost write race: re-read and re-apply.
	var att attendance.Attendance
	for attempt := 0; ; attempt++ {
		att, err = a.checkInOnce(ctx, pc, loc, now)
		if errors.Is(err, attendance.ErrConcurrentUpdate) && attempt == 0 {
			continue
		}
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		break
	}

	a.notify(ctx, pc.user.ID, notification.TypeAttendanceClockIn, "Checked in",
		fmt.Sprintf("Checked in at %s", now.In(pc.branch.Location()).Format("15:04")), att.ID)

	return toResponse(att, pc.branch.Location()), nil
}

func (a *AttendanceServiceImpl) checkInOnce(ctx context.Context, pc punchContext, loc attendance.Location, now time.Time) (attendance.Attendance, error) {
	date := pc.branch.MidnightOn(now)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, pc.user.ID, date)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if existing == nil {
		att := attendance.Attendance{
			UserID:   pc.user.ID,
			BranchID: pc.branch.ID,
			ShiftID:  pc.shift.ID,
			Date:     date,
			Status:   attendance.StatusPresent,
		}
		if err := att.OpenPunch(loc, now); err != nil {
			return attendance.Attendance{}, err
		}
		return a.AttendanceRepository.Create(ctx, att)
	}

	if err := existing.OpenPunch(loc, now); err != nil {
		return attendance.Attendance{}, err
	}
	if err := a.AttendanceRepository.AppendPunch(ctx, *existing); err != nil {
		return attendance.Attendance{}, err
	}

	return *existing, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, req attendance.CheckOutRequest, now time.Time) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	pc, err := a.resolvePunchContext(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	loc, err := checkGeofence(pc.branch, *req.Latitude, *req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var att attendance.Attendance
	for attempt := 0; ; attempt++ {
		att, err = a.checkOutOnce(ctx, pc, loc, now)
		if errors.Is(err, attendance.ErrConcurrentUpdate) && attempt == 0 {
			continue
		}
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		break
	}

	a.notify(ctx, pc.user.ID, notification.TypeAttendanceClockOut, "Checked out",
		fmt.Sprintf("Checked out at %s, worked %dm today", now.In(pc.branch.Location()).Format("15:04"), att.TotalWorkingMinutes), att.ID)

	return toResponse(att, pc.branch.Location()), nil
}

// checkOutOnce runs the full close pipeline: close the punch, rebuild totals,
// evaluate punctuality, resolve status, and commit the attendance row, the
// counter delta and the violation ledger delta in one transaction.
func (a *AttendanceServiceImpl) checkOutOnce(ctx context.Context, pc punchContext, loc attendance.Location, now time.Time) (attendance.Attendance, error) {
	date := pc.branch.MidnightOn(now)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, pc.user.ID, date)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if existing == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	att := *existing

	if err := att.ClosePunch(loc, now); err != nil {
		return attendance.Attendance{}, err
	}
	att.RecomputeTotals()

	window, err := pc.shift.WindowOn(date, pc.branch.Location())
	if err != nil {
		return attendance.Attendance{}, err
	}
	shiftMinutes, err := pc.shift.DurationMinutes()
	if err != nil {
		return attendance.Attendance{}, err
	}

	outcome := attendance.EvaluatePunctuality(&att, window)

	effectiveLate := pc.user.LateCount + outcome.Counters.Late
	status, consumed := attendance.ResolveStatus(att.TotalWorkingMinutes, shiftMinutes, effectiveLate)
	if consumed {
		outcome.Counters.Late -= 3
	}
	att.Status = status

	localDate := date.In(pc.branch.Location())
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		if err := a.AttendanceRepository.UpdateClose(ctx, tx, att); err != nil {
			return err
		}
		if err := a.UserRepository.ApplyCounterDelta(ctx, tx, pc.user.ID, outcome.Counters.Late, outcome.Counters.EarlyExit); err != nil {
			return err
		}
		for _, t := range outcome.CreateViolations {
			v := violation.Violation{
				UserID:       att.UserID,
				BranchID:     att.BranchID,
				AttendanceID: att.ID,
				Type:         t,
				Date:         att.Date,
				Month:        int(localDate.Month()),
				Year:         localDate.Year(),
			}
			if err := a.ViolationRepository.Create(ctx, tx, v); err != nil {
				return err
			}
		}
		for _, t := range outcome.RetractViolations {
			if err := a.ViolationRepository.DeleteForAttendance(ctx, tx, att.ID, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	return att, nil
}

// GetDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDay(ctx context.Context, userID string, at time.Time) (attendance.AttendanceResponse, error) {
	pc, err := a.resolvePunchContext(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date := pc.branch.MidnightOn(at)
	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if att == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return toResponse(*att, pc.branch.Location()), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	filter.Normalize()

	usr, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	loc := time.UTC
	if usr.BranchID != nil {
		if b, err := a.BranchRepository.GetByID(ctx, *usr.BranchID); err == nil {
			loc = b.Location()
		}
	}

	records, total, err := a.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return toListResponse(records, total, filter, loc), nil
}

// GetBranchAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetBranchAttendance(ctx context.Context, branchID string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	filter.Normalize()

	b, err := a.BranchRepository.GetByID(ctx, branchID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByBranch(ctx, branchID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return toListResponse(records, total, filter, b.Location()), nil
}

// GetByDate implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetByDate(ctx context.Context, date string, branchID *string, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	filter.Normalize()

	if _, ok := validator.IsValidDate(date); !ok {
		return attendance.ListAttendanceResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "must be a valid date in YYYY-MM-DD format"},
		}
	}

	// The day key is the midnight of the queried branch's zone; a date query
	// with no branch falls back to UTC midnight.
	loc := time.UTC
	if branchID != nil {
		b, err := a.BranchRepository.GetByID(ctx, *branchID)
		if err != nil {
			return attendance.ListAttendanceResponse{}, err
		}
		loc = b.Location()
	}

	parsed, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return attendance.ListAttendanceResponse{}, validator.ValidationErrors{
			{Field: "date", Message: "must be a valid date in YYYY-MM-DD format"},
		}
	}

	records, total, err := a.AttendanceRepository.ListByDate(ctx, parsed, branchID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return toListResponse(records, total, filter, loc), nil
}

// notify delivers a best-effort notification; failures are logged, never
// propagated.
func (a *AttendanceServiceImpl) notify(ctx context.Context, recipientID string, t notification.NotificationType, title, message, attendanceID string) {
	if a.notificationService == nil {
		return
	}

	n := notification.Notification{
		RecipientID: recipientID,
		Type:        t,
		Title:       title,
		Message:     message,
		Data:        map[string]interface{}{"attendance_id": attendanceID},
	}
	if err := a.notificationService.Notify(ctx, n); err != nil {
		a.logger.Warn("notification delivery failed",
			slog.String("recipient_id", recipientID),
			slog.String("type", string(t)),
			slog.Any("error", err),
		)
	}
}

func toResponse(att attendance.Attendance, loc *time.Location) attendance.AttendanceResponse {
	punches := make([]attendance.PunchResponse, 0, len(att.Punches))
	for _, p := range att.Punches {
		punches = append(punches, attendance.PunchResponse{
			CheckIn:          p.CheckIn.In(loc),
			CheckInLocation:  p.CheckInLocation,
			CheckOut:         timePtrIn(p.CheckOut, loc),
			CheckOutLocation: p.CheckOutLocation,
			AutoClosed:       p.AutoClosed,
		})
	}

	return attendance.AttendanceResponse{
		ID:                  att.ID,
		UserID:              att.UserID,
		BranchID:            att.BranchID,
		ShiftID:             att.ShiftID,
		Date:                att.Date.In(loc).Format("2006-01-02"),
		Punches:             punches,
		TotalWorkingMinutes: att.TotalWorkingMinutes,
		TotalBreakMinutes:   att.TotalBreakMinutes,
		LateMarked:          att.LateMarked,
		EarlyExitMarked:     att.EarlyExitMarked,
		Status:              att.Status,
	}
}

func toListResponse(records []attendance.Attendance, total int64, filter attendance.HistoryFilter, loc *time.Location) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		responses = append(responses, toResponse(att, loc))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}
}

func timePtrIn(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	converted := t.In(loc)
	return &converted
}
