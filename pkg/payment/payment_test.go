package payment_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/jantrick/jantrick/pkg/payment"
)

func stripeAgainst(t *testing.T, h http.HandlerFunc) *payment.Stripe {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return payment.NewStripe("sk_test_123", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func TestStripeCreateIntent(t *testing.T) {
	var form url.Values
	p := stripeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","object":"payment_intent","amount":25000,"currency":"inr","client_secret":"pi_1_secret_x"}`)) //nolint:errcheck
	})

	intent, err := p.CreateIntent(context.Background(), 25000, "inr")
	require.NoError(t, err)

	assert.Equal(t, "pi_1_secret_x", intent.ClientSecret)
	assert.Equal(t, int64(25000), intent.Amount)
	assert.Equal(t, "25000", form.Get("amount"))
	assert.Equal(t, "inr", form.Get("currency"))
	assert.Equal(t, "card", form.Get("payment_method_types[0]"))
}

func TestStripeErrorWrapsErrProcessor(t *testing.T) {
	p := stripeAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Amount must be at least 50 paise"}}`)) //nolint:errcheck
	})

	_, err := p.CreateIntent(context.Background(), 1, "inr")
	require.Error(t, err)
	assert.True(t, errors.Is(err, payment.ErrProcessor))
	assert.Contains(t, err.Error(), "Amount must be at least 50 paise")
}

func TestUnconfigured(t *testing.T) {
	_, err := payment.Unconfigured{}.CreateIntent(context.Background(), 100, "inr")
	assert.True(t, errors.Is(err, payment.ErrProcessor))
}
