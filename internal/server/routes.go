package server

import (
	"net/http"

	"github.com/rs-labo46/ec-order-core/internal/config"
	"github.com/rs-labo46/ec-order-core/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := middleware.AuthJWT(cfg.JWTSecret)
	if h.Orders != nil {
		h.Orders.RegisterRoutes(e, auth)
	}
	if h.AdminOrders != nil {
		h.AdminOrders.RegisterRoutes(e, auth, middleware.AdminRoleGuard())
	}
}
