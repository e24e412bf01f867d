package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/akverma/order-management-api/internal/config"
	"github.com/akverma/order-management-api/internal/handler"
	"github.com/akverma/order-management-api/internal/middleware"
	"github.com/akverma/order-management-api/internal/model"
)

// RegisterRoutes registers routes that do not belong to a feature group.
// Currently it exposes only a health check for load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/auth.
// None of them require an access token; the session endpoints authenticate
// through the refresh-token cookie instead.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.PATCH("/activation/:token", a.Activate)
	g.GET("/resend-activation/:email", a.ResendActivation)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password/:token", a.ResetPassword)
	g.GET("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterProducts registers the catalog endpoints under /api/products.
// Listing is open to everyone and cached; all other operations require an
// authenticated admin.
func RegisterProducts(e *echo.Echo, p *handler.ProductHandler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("/api/products")

	g.GET("", p.List, middleware.CatalogCache(config.LoadCacheConfig(), rdb))

	admin := []echo.MiddlewareFunc{
		middleware.IsAuthenticated(cfg.AccessSecret),
		middleware.AuthRole(model.RoleAdmin),
	}
	g.POST("", p.Create, admin...)
	g.GET("/:id", p.Get, admin...)
	g.PUT("/:id", p.Update, admin...)
	g.DELETE("/:id", p.Delete, admin...)
}

// RegisterOrders registers the order endpoints under /api/orders. Placing
// an order is open; everything else is admin-only.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, cfg config.Config) {
	g := e.Group("/api/orders")

	g.POST("", o.Create)

	admin := []echo.MiddlewareFunc{
		middleware.IsAuthenticated(cfg.AccessSecret),
		middleware.AuthRole(model.RoleAdmin),
	}
	g.GET("", o.List, admin...)
	g.GET("/:id", o.Get, admin...)
	g.GET("/user/:id", o.ListByUser, admin...)
	g.PUT("", o.UpdateStatus, admin...)
	g.DELETE("/:id", o.Delete, admin...)
}
