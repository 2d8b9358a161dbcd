// Package ctx gives handlers a single *Context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (t *ToolController) Show(c *ctx.Context) {
//	    id, err := models.ParseID(c.Param("id"))
//	    ...
//	    c.OK(tool)
//	}
//
//	r.Get("/tools/{id}", "tools.show", ctx.Wrap(t.Show))
package ctx

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/bind"
	"github.com/jantrick/jantrick/pkg/logger"
	"github.com/jantrick/jantrick/pkg/middleware"
	"github.com/jantrick/jantrick/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

type limitKey struct{}

// BodyLimit stores the maximum accepted body size on the request so that
// BindJSON can enforce it.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), limitKey{}, maxBytes)))
		})
	}
}

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, "" if absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger.
func (c *Context) Logger() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Identity returns the caller verified by the auth middleware, if any.
func (c *Context) Identity() (*auth.Identity, bool) {
	return auth.IdentityFromCtx(c.R.Context())
}

// ClientIP returns the remote host, as resolved by middleware.RealIP.
func (c *Context) ClientIP() string {
	return middleware.ClientIP(c.R)
}

// BindJSON decodes and validates the body into dest. On failure it writes
// 400 (malformed) or 422 (validation) and returns false.
//
//	var in LoginInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	limit, _ := c.R.Context().Value(limitKey{}).(int64)
	errs, err := bind.JSON(c.W, c.R, dest, limit)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if errs != nil {
		c.ValidationError(errs)
		return false
	}
	return true
}

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// OK writes a 200 with the raw result.
func (c *Context) OK(v any) {
	c.JSON(http.StatusOK, v)
}

// Error writes {"message": message}.
func (c *Context) Error(code int, message string) {
	c.JSON(code, response.ErrorBody{Message: message})
}

// ValidationError writes a 422 with field errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, errs)
}

// Unauthorized writes the 401 sent when no credentials are present.
func (c *Context) Unauthorized() {
	c.status = http.StatusUnauthorized
	response.Unauthorized(c.W)
}

// Forbidden writes a 403.
func (c *Context) Forbidden(message string) {
	c.Error(http.StatusForbidden, message)
}

// Text writes a plain body.
func (c *Context) Text(code int, body string) {
	c.status = code
	response.Text(c.W, code, body)
}

// WrittenStatus is the status written so far, 0 if none.
func (c *Context) WrittenStatus() int { return c.status }
