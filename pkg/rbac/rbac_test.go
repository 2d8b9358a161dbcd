package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/rbac"
)

type checker map[string]bool

func (c checker) IsAdmin(_ context.Context, email string) (bool, error) {
	if email == "broken@b.co" {
		return false, errors.New("store down")
	}
	return c[email], nil
}

func TestRequireAdmin(t *testing.T) {
	h := rbac.RequireAdmin(checker{"boss@b.co": true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name  string
		email string
		want  int
	}{
		{"no identity", "", http.StatusUnauthorized},
		{"admin", "boss@b.co", http.StatusNoContent},
		{"not admin", "pleb@b.co", http.StatusForbidden},
		{"lookup error", "broken@b.co", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tools", nil)
			if tc.email != "" {
				req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{Email: tc.email}))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
