// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jantrick/jantrick/pkg/validate"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 4 << 20

// ErrBadRequest marks a body that could not be decoded.
var ErrBadRequest = errors.New("bind: bad request body")

// JSON decodes r.Body as JSON into dest and runs validation.
// An empty body leaves dest untouched. The body is capped at maxBytes
// (DefaultMaxBodyBytes when maxBytes <= 0).
// Returns (errs, nil) on validation failures and (nil, err) when the body
// is malformed or too large; err wraps ErrBadRequest.
func JSON(w http.ResponseWriter, r *http.Request, dest any, maxBytes int64) (errs map[string]string, err error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err = dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request body too large (max %d bytes)", ErrBadRequest, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrBadRequest, err)
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
