package middleware

import (
	"net/http"

	"github.com/shiftwise/attendance-backend-go/internal/domain/user"
	"github.com/shiftwise/attendance-backend-go/internal/handler/http/response"
)

// RequireElevated requires an admin, HR or manager role
func RequireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := CurrentRole(r.Context())
		if !ok {
			response.HandleError(w, user.ErrElevatedRoleRequired)
			return
		}

		if role != user.RoleAdmin && role != user.RoleHR && role != user.RoleManager {
			response.HandleError(w, user.ErrElevatedRoleRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdminOrHR requires an admin or HR role
func RequireAdminOrHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := CurrentRole(r.Context())
		if !ok {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		if role != user.RoleAdmin && role != user.RoleHR {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
