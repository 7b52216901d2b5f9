package user

import "errors"

// User domain errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserNotActive         = errors.New("user is not active")
	ErrNoBranchOrShift       = errors.New("user must have an assigned branch and shift")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrElevatedRoleRequired  = errors.New("admin or hr access required")
	ErrBranchAccessForbidden = errors.New("not authorized to view other branches")
)
