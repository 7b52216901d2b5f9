package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/middleware"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetByBranch(w http.ResponseWriter, r *http.Request)
	GetByDate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	userRepo          user.UserRepository
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, userRepo user.UserRepository) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		userRepo:          userRepo,
	}
}

func historyFilterFromQuery(r *http.Request) attendance.HistoryFilter {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return attendance.HistoryFilter{Page: page, Limit: limit}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), userID, req, time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), userID, req, time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.GetDay(r.Context(), userID, time.Now().UTC())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.GetMyAttendance(r.Context(), userID, historyFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetByBranch implements AttendanceHandler.
//
// Admins may read any branch; other elevated roles only their own.
func (h *attendanceHandlerImpl) GetByBranch(w http.ResponseWriter, r *http.Request) {
	branchID := chi.URLParam(r, "branchID")

	if err := h.authorizeBranchAccess(r, branchID); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetBranchAttendance(r.Context(), branchID, historyFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetByDate implements AttendanceHandler.
//
// Non-admin callers are pinned to their own branch so the day key resolves in
// their branch's time zone.
func (h *attendanceHandlerImpl) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	branchID, err := h.resolveBranchScope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.GetByDate(r.Context(), date, branchID, historyFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func (h *attendanceHandlerImpl) authorizeBranchAccess(r *http.Request, branchID string) error {
	role, ok := middleware.CurrentRole(r.Context())
	if !ok {
		return user.ErrElevatedRoleRequired
	}
	if role == user.RoleAdmin {
		return nil
	}

	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		return user.ErrElevatedRoleRequired
	}
	caller, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		return err
	}
	if caller.BranchID == nil || *caller.BranchID != branchID {
		return user.ErrBranchAccessForbidden
	}
	return nil
}

func (h *attendanceHandlerImpl) resolveBranchScope(r *http.Request) (*string, error) {
	role, ok := middleware.CurrentRole(r.Context())
	if !ok {
		return nil, user.ErrElevatedRoleRequired
	}

	if role == user.RoleAdmin {
		if q := r.URL.Query().Get("branch_id"); q != "" {
			return &q, nil
		}
		return nil, nil
	}

	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		return nil, user.ErrElevatedRoleRequired
	}
	caller, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if caller.BranchID == nil {
		return nil, user.ErrNoBranchOrShift
	}
	if q := r.URL.Query().Get("branch_id"); q != "" && q != *caller.BranchID {
		return nil, user.ErrBranchAccessForbidden
	}
	return caller.BranchID, nil
}
