package routes

import (
	"github.com/jantrick/jantrick/app/controllers"
	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/app/services"
	"github.com/jantrick/jantrick/pkg/ctx"
	"github.com/jantrick/jantrick/pkg/middleware"
	"github.com/jantrick/jantrick/pkg/rbac"
	"github.com/jantrick/jantrick/pkg/router"
)

// Dependencies is everything the route table needs.
type Dependencies struct {
	Stores   repositories.Stores
	Auth     *services.AuthService
	Payments *services.PaymentService
	Tokens   middleware.Verifier

	// RequireAuthForMutations puts tool, order, payment and review writes
	// behind a token (and tool writes behind the admin role). Off by
	// default: only the two admin routes check tokens.
	RequireAuthForMutations bool
}

func RegisterAPI(r *router.Router, d Dependencies) {
	home := controllers.NewHomeController(d.Stores.Health)
	users := controllers.NewUserController(d.Auth, d.Stores.Users)
	tools := controllers.NewToolController(d.Stores.Tools)
	orders := controllers.NewOrderController(d.Stores.Orders)
	reviews := controllers.NewReviewController(d.Stores.Reviews)
	payments := controllers.NewPaymentController(d.Payments)

	authed := router.Middleware(middleware.Auth(d.Tokens))
	admin := router.Middleware(rbac.RequireAdmin(d.Auth))

	var writer, toolWriter []router.Middleware
	if d.RequireAuthForMutations {
		writer = []router.Middleware{authed}
		toolWriter = []router.Middleware{authed, admin}
	}

	r.Get("/", "home", ctx.Wrap(home.Banner))
	r.Get("/health", "health", ctx.Wrap(home.Health))

	r.Put("/user/admin/{email}", "users.make_admin", ctx.Wrap(users.MakeAdmin), authed)
	r.Get("/admin/{email}", "users.is_admin", ctx.Wrap(users.CheckAdmin), authed)

	r.Put("/user/{email}", "users.login", ctx.Wrap(users.Login))
	r.Get("/user", "users.index", ctx.Wrap(users.Index))
	r.Delete("/user/{email}", "users.destroy", ctx.Wrap(users.Destroy))

	r.Post("/create-payment-intent", "payments.intent", ctx.Wrap(payments.CreateIntent))
	r.Patch("/paymentOrder/{id}", "payments.confirm", ctx.Wrap(payments.Confirm), writer...)

	t := r.Group("/tools")
	t.Post("/", "tools.store", ctx.Wrap(tools.Store), toolWriter...)
	t.Get("/", "tools.index", ctx.Wrap(tools.Index))
	t.Get("/{id}", "tools.show", ctx.Wrap(tools.Show))
	t.Delete("/{id}", "tools.destroy", ctx.Wrap(tools.Destroy), toolWriter...)

	o := r.Group("/orders")
	o.Post("/", "orders.store", ctx.Wrap(orders.Store), writer...)
	o.Get("/", "orders.index", ctx.Wrap(orders.Index))
	o.Get("/{email}", "orders.by_email", ctx.Wrap(orders.ByEmail))
	o.Delete("/{id}", "orders.destroy", ctx.Wrap(orders.Destroy), writer...)
	r.Get("/myOrders/{id}", "orders.show", ctx.Wrap(orders.Show))

	rv := r.Group("/reviews")
	rv.Post("/", "reviews.store", ctx.Wrap(reviews.Store), writer...)
	rv.Get("/", "reviews.index", ctx.Wrap(reviews.Index))
}
