// Package kernel assembles the HTTP handler: global middleware, the
// metrics endpoint and the API routes.
package kernel

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/app/routes"
	"github.com/jantrick/jantrick/app/services"
	"github.com/jantrick/jantrick/config"
	"github.com/jantrick/jantrick/pkg/auth"
	"github.com/jantrick/jantrick/pkg/ctx"
	"github.com/jantrick/jantrick/pkg/metrics"
	"github.com/jantrick/jantrick/pkg/middleware"
	"github.com/jantrick/jantrick/pkg/payment"
	"github.com/jantrick/jantrick/pkg/reqid"
	"github.com/jantrick/jantrick/pkg/response"
	"github.com/jantrick/jantrick/pkg/router"
)

// Deps are the collaborators built outside the kernel.
type Deps struct {
	Stores    repositories.Stores
	Processor payment.Processor
	// Limiter may be nil to disable rate limiting.
	Limiter middleware.Limiter
}

// HTTPKernel owns the router for one server instance.
type HTTPKernel struct {
	router *router.Router
}

// NewHTTPKernel builds the full handler.
func NewHTTPKernel(cfg *config.Config, deps Deps) *HTTPKernel {
	tokens := auth.NewTokens(cfg.TokenSecret)
	processor := deps.Processor
	if processor == nil {
		processor = payment.Unconfigured{}
	}

	r := router.New()

	// Outermost first. The request id must exist before Logger runs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.RealIP(cfg.TrustedProxyHops))
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(ctx.BodyLimit(cfg.MaxBodyBytes))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(deps.Limiter))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())

	routes.RegisterAPI(r, routes.Dependencies{
		Stores:                  deps.Stores,
		Auth:                    services.NewAuthService(deps.Stores.Users, tokens),
		Payments:                services.NewPaymentService(processor, deps.Stores.Orders, deps.Stores.Payments, cfg.PaymentCurrency),
		Tokens:                  tokens,
		RequireAuthForMutations: cfg.RequireAuthForMutations,
	})

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

func (k *HTTPKernel) Routes() []router.RouteInfo {
	return k.router.Routes()
}

// NewLimiter picks the rate limiter for cfg: none when the budget is 0, a
// window shared through rdb when it is non-nil, otherwise in-process buckets.
func NewLimiter(cfg *config.Config, rdb *redis.Client) middleware.Limiter {
	switch {
	case cfg.RateLimitPerMinute <= 0:
		return nil
	case rdb != nil:
		return middleware.NewRedisLimiter(rdb, cfg.RateLimitPerMinute)
	default:
		return middleware.NewMemoryLimiter(cfg.RateLimitPerMinute)
	}
}
