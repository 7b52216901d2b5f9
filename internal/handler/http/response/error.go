package response

import (
	"errors"
	"net/http"

	"github.com/shiftwise/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwise/attendance-backend-go/internal/domain/branch"
	"github.com/shiftwise/attendance-backend-go/internal/domain/shift"
	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You are already checked in, please check out first")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You are not checked in", nil)
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Location (latitude, longitude) is required", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrConcurrentUpdate):
		Conflict(w, "Attendance was modified concurrently, please retry")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserNotActive):
		Forbidden(w, "User is not active")
	case errors.Is(err, user.ErrNoBranchOrShift):
		BadRequest(w, "User must have an assigned branch and shift", nil)
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrElevatedRoleRequired),
		errors.Is(err, user.ErrBranchAccessForbidden):
		Forbidden(w, err.Error())

	// Reference data errors
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrInvalidClock), errors.Is(err, shift.ErrOvernightShift):
		BadRequest(w, err.Error(), nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
