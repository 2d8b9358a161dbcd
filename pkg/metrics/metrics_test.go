package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jantrick/jantrick/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/tool/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("null")) //nolint:errcheck
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tool/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tool/def", nil))

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	assert.Contains(t, body, `route="/tool/{id}"`)
	assert.NotContains(t, body, `route="/tool/abc"`)
}

func TestHandlerServesRegistry(t *testing.T) {
	metrics.PaymentIntents.WithLabelValues(metrics.OutcomeSuccess).Inc()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "jantrick_payment_intents_total"))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeSuccess, metrics.Outcome(nil))
	assert.Equal(t, metrics.OutcomeFailure, metrics.Outcome(errors.New("x")))
}
