package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/jantrick/jantrick/app/repositories"
	"github.com/jantrick/jantrick/pkg/ctx"
)

const healthTimeout = 3 * time.Second

type HomeController struct {
	store repositories.Pinger
}

func NewHomeController(store repositories.Pinger) *HomeController {
	return &HomeController{store: store}
}

// Banner handles GET /.
func (h *HomeController) Banner(c *ctx.Context) {
	c.Text(http.StatusOK, "Jantrick")
}

// Health handles GET /health.
func (h *HomeController) Health(c *ctx.Context) {
	pingCtx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(pingCtx); err != nil {
		c.Logger().Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	c.OK(map[string]string{"status": "healthy"})
}
