package middleware

import (
	"errors"
	"net/http"

	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/response"
)

// Verifier checks an Authorization header value.
type Verifier interface {
	Verify(header string) (*auth.Identity, error)
}

// Auth rejects requests without a valid bearer token: 401 when the header
// is absent, 403 when the token does not verify. The verified identity is
// attached to the request context.
func Auth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.Verify(r.Header.Get("Authorization"))
			switch {
			case errors.Is(err, auth.ErrMissingCredentials):
				response.Unauthorized(w)
				return
			case err != nil:
				response.Forbidden(w, "Forbidden access")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
