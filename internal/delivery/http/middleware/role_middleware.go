package middleware

import (
	"net/http"

	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/response"
)

// RequireRole admits requests whose token carries one of the given roles.
// It must run after Authenticate.
func RequireRole(allowedRoleIDs ...int) func(http.Handler) http.Handler {
	allowed := make(map[int]struct{}, len(allowedRoleIDs))
	for _, id := range allowedRoleIDs {
		allowed[id] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roleID, ok := GetRoleIDFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if _, ok := allowed[roleID]; !ok {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	RequireAdmin    = RequireRole(entity.RoleIDAdmin)
	RequireDoctor   = RequireRole(entity.RoleIDDoctor)
	RequirePatient  = RequireRole(entity.RoleIDPatient)
	RequirePharmacy = RequireRole(entity.RoleIDPharmacy)
)
