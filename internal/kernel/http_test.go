package kernel_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/jantrick/jantrick/app/models"
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/config"
	"github.com/jantrick/jantrick/internal/kernel"
	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/payment"
	"github.com/jantrick/jantrick/pkg/testkit"
)

const (
	secret     = "kernel-test-secret"
	adminEmail = "boss@jantrick.test"
)

func testConfig() *config.Config {
	return &config.Config{
		DBDriver:        config.DriverMemory,
		TokenSecret:     secret,
		PaymentCurrency: "inr",
		MaxBodyBytes:    1 << 20,
	}
}

// stripeThrough points a Stripe client at out so scenarios can mock it.
func stripeThrough(out *testkit.Outbound) payment.Processor {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String("https://api.stripe.test"),
		HTTPClient:        out.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return payment.NewStripe("sk_test_kernel", &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
}

func seedAdmin(t *testing.T, stores repositories.Stores) string {
	t.Helper()
	ctx := context.Background()
	_, err := stores.Users.Upsert(ctx, adminEmail, models.Document{"email": adminEmail})
	require.NoError(t, err)
	_, err = stores.Users.SetRole(ctx, adminEmail, models.RoleAdmin)
	require.NoError(t, err)

	token, err := auth.NewTokens(secret).Issue(adminEmail)
	require.NoError(t, err)
	return token
}

func TestAPIScenarios(t *testing.T) {
	stores := repositories.NewMemoryStores()
	out := testkit.NewOutbound()
	k := kernel.NewHTTPKernel(testConfig(), kernel.Deps{Stores: stores, Processor: stripeThrough(out)})

	testkit.NewRunner(k.Handler(), out).
		Set("adminToken", seedAdmin(t, stores)).
		RunDir(t, "testdata")

	// Confirming the same order twice leaves one ledger entry.
	ledger := stores.Payments.(*repositories.MemoryLedger).Records()
	require.Len(t, ledger, 1)
	assert.Equal(t, "pi_1", ledger[0]["transactionId"])
}

func TestMutationsBehindAuth(t *testing.T) {
	cfg := testConfig()
	cfg.RequireAuthForMutations = true

	stores := repositories.NewMemoryStores()
	k := kernel.NewHTTPKernel(cfg, kernel.Deps{Stores: stores})

	userToken, err := auth.NewTokens(secret).Issue("ann@jantrick.test")
	require.NoError(t, err)

	testkit.NewRunner(k.Handler(), nil).
		Set("adminToken", seedAdmin(t, stores)).
		Set("userToken", userToken).
		RunDir(t, filepath.Join("testdata", "strict"))
}

func TestBanner(t *testing.T) {
	k := kernel.NewHTTPKernel(testConfig(), kernel.Deps{Stores: repositories.NewMemoryStores()})

	rec := httptest.NewRecorder()
	k.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jantrick", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestUnconfiguredProcessor(t *testing.T) {
	k := kernel.NewHTTPKernel(testConfig(), kernel.Deps{Stores: repositories.NewMemoryStores()})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", strings.NewReader(`{"totalPrice":"19.99"}`))
	req.Header.Set("Content-Type", "application/json")
	k.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"message":"Payment processor error"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	k := kernel.NewHTTPKernel(testConfig(), kernel.Deps{Stores: repositories.NewMemoryStores()})
	h := k.Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tools", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `route="/tools"`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2

	limiter := kernel.NewLimiter(cfg, nil)
	require.NotNil(t, limiter)

	h := kernel.NewHTTPKernel(cfg, kernel.Deps{Stores: repositories.NewMemoryStores(), Limiter: limiter}).Handler()

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tools", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	h := kernel.NewHTTPKernel(cfg, kernel.Deps{Stores: repositories.NewMemoryStores(), Limiter: kernel.NewLimiter(cfg, nil)}).Handler()

	codes := make([]int, 0, 2)
	for _, fake := range []string{"198.51.100.1", "198.51.100.2"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tools", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fake)
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	cfg.TrustedProxyHops = 1
	h := kernel.NewHTTPKernel(cfg, kernel.Deps{Stores: repositories.NewMemoryStores(), Limiter: kernel.NewLimiter(cfg, nil)}).Handler()

	send := func(xff string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tools", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", xff)
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.10"))
	assert.Equal(t, http.StatusOK, send("192.0.2.11"), "clients behind the proxy have their own budget")
	assert.Equal(t, http.StatusTooManyRequests, send("6.6.6.6, 192.0.2.10"), "a forged left entry does not reset the budget")
}

func TestNewLimiterDisabled(t *testing.T) {
	cfg := testConfig()
	assert.Nil(t, kernel.NewLimiter(cfg, nil))
}

func TestRoutesListsNamedEndpoints(t *testing.T) {
	k := kernel.NewHTTPKernel(testConfig(), kernel.Deps{Stores: repositories.NewMemoryStores()})

	names := map[string]bool{}
	for _, r := range k.Routes() {
		names[r.Name] = true
	}
	for _, want := range []string{"home", "users.login", "users.make_admin", "tools.show", "orders.by_email", "payments.intent", "payments.confirm", "reviews.store"} {
		assert.True(t, names[want], "missing route %s", want)
	}
}
