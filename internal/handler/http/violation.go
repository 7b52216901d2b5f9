package http

import (
	"net/http"
	"strconv"

	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/domain/violation"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/middleware"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/response"
)

type ViolationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type violationHandlerImpl struct {
	violationService violation.ViolationService
	userRepo         user.UserRepository
}

func NewViolationHandler(violationService violation.ViolationService, userRepo user.UserRepository) ViolationHandler {
	return &violationHandlerImpl{
		violationService: violationService,
		userRepo:         userRepo,
	}
}

// List implements ViolationHandler.
//
// Admins may query any branch or all of them; HR is pinned to their own.
func (h *violationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	branchID, err := h.resolveBranchScope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.violationService.List(r.Context(), violation.ListViolationsRequest{
		Month:    month,
		Year:     year,
		BranchID: branchID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Violations, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func (h *violationHandlerImpl) resolveBranchScope(r *http.Request) (*string, error) {
	role, ok := middleware.CurrentRole(r.Context())
	if !ok {
		return nil, user.ErrAdminAccessRequired
	}

	if role == user.RoleAdmin {
		if q := r.URL.Query().Get("branch_id"); q != "" {
			return &q, nil
		}
		return nil, nil
	}

	userID, ok := middleware.CurrentUserID(r.Context())
	if !ok {
		return nil, user.ErrAdminAccessRequired
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
