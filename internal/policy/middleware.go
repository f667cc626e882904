package policy

import (
	"log/slog"
	"net/http"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
)

// Require rejects the request with 403 unless the authenticated user may
// perform action on the resource type. Owner-scoped checks happen in the
// handlers, where the concrete resource id is known.
func Require(action Action, resource Resource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				pkgerrors.WriteHTTP(w, r, pkgerrors.NewAuthentication("user not authenticated"))
				return
			}

			ability := ForUser(identity.UserID, identity.Role)
			if !ability.Can(action, resource) {
				slog.Warn("request denied by policy",
					"user_id", identity.UserID,
					"role", identity.Role,
					"action", action,
					"resource", resource)
				pkgerrors.WriteHTTP(w, r, pkgerrors.NewForbidden())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
