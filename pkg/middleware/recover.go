package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/jantrick/jantrick/pkg/logger"
	"github.com/jantrick/jantrick/pkg/response"
)

// Recovery turns a panic in any downstream handler into a logged 500 JSON
// response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
