package router

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/adapter/api/handler"
	"pasarsosmed/internal/adapter/api/middleware"
)

// Handlers bundles everything Setup wires onto the echo instance.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Chat      *handler.ChatHandler
	Escrow    *handler.EscrowHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	File      *handler.FileHandler
	WebSocket *handler.WebSocketHandler
}

type Middlewares struct {
	Auth *middleware.AuthMiddleware
	Role *middleware.RoleMiddleware
}

func Setup(e *echo.Echo, h Handlers, m Middlewares) {
	e.GET("/health", h.Health.Check)

	v1 := e.Group("/v1")

	setupAuthRoutes(v1, h, m)
	setupUserRoutes(v1, h, m)
	setupChatRoutes(v1, h, m)
	setupEscrowRoutes(v1, h, m)
	setupCatalogRoutes(v1, h, m)
	setupFileRoutes(v1, h, m)

	v1.GET("/ws", h.WebSocket.Connect, m.Auth.Authenticate)
}

func setupAuthRoutes(g *echo.Group, h Handlers, m Middlewares) {
	g.POST("/auth/sync", h.Auth.Sync, m.Auth.Authenticate)
}

func setupUserRoutes(g *echo.Group, h Handlers, m Middlewares) {
	users := g.Group("/users", m.Auth.Authenticate)
	users.GET("/me", h.User.GetMe)
	users.PATCH("/me", h.User.UpdateMe)
	users.GET("/:id", h.User.GetByID)
}
