// Package rbac gates routes on the caller's role.
package rbac

import (
	"context"
	"net/http"

	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/logger"
	"github.com/jantrick/jantrick/pkg/response"
)

// AdminChecker reports whether an email holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin lets a request through only when the identity attached by
// middleware.Auth belongs to an admin. It must run after middleware.Auth.
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}

			admin, err := checker.IsAdmin(r.Context(), id.Email)
			if err != nil {
				logger.WithCtx(r.Context()).Error("role lookup failed", "email", id.Email, "error", err)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			if !admin {
				response.Forbidden(w, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
