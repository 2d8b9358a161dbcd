// Package controllers maps HTTP requests onto store and service calls and
// writes their raw results.
package controllers

import (
	"errors"
	"net/http"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/app/services"
	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/bind"
	"github.com/jantrick/jantrick/pkg/ctx"
	"github.com/jantrick/jantrick/pkg/payment"
)

// fail maps err to a status and writes {"message": ...}. Server-side
// failures are logged with the request id.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, models.ErrMalformedID),
		errors.Is(err, bind.ErrBadRequest),
		errors.Is(err, services.ErrInvalidAmount):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrMissingCredentials):
		c.Unauthorized()
	case errors.Is(err, auth.ErrInvalidToken):
		c.Forbidden("Forbidden access")
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden("Forbidden")
	case errors.Is(err, services.ErrOrderNotFound):
		c.Error(http.StatusNotFound, "Order not found")
	case errors.Is(err, services.ErrAlreadyPaid):
		c.Error(http.StatusConflict, "Order already paid")
	case errors.Is(err, payment.ErrProcessor):
		c.Logger().Error("payment processor failed", "error", err)
		c.Error(http.StatusBadGateway, "Payment processor error")
	default:
		c.Logger().Error("request failed", "method", c.R.Method, "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// bindDocument reads a free-form JSON object body.
func bindDocument(c *ctx.Context) (models.Document, bool) {
	var body map[string]any
	if !c.BindJSON(&body) {
		return nil, false
	}
	return models.Normalize(body), true
}

// documentOrNull keeps a missed lookup as a JSON null.
func documentOrNull(doc models.Document) any {
	if doc == nil {
		return nil
	}
	return doc
}
