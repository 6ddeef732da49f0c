package router

import (
	"github.com/labstack/echo/v4"
)

func setupEscrowRoutes(g *echo.Group, h Handlers, m Middlewares) {
	// Any participant may ask for an agent; the rest is agent dashboard.
	g.POST("/chats/rooms/:roomId/escrow", h.Escrow.RequestAgent, m.Auth.Authenticate)

	escrow := g.Group("/escrow", m.Auth.Authenticate, m.Role.RequireEscrowAgent)
	escrow.POST("/rooms/:roomId/messages", h.Escrow.SendMessage)
	escrow.GET("/requests", h.Escrow.ListRequests)
	escrow.PATCH("/requests/:roomId", h.Escrow.UpdateRequestStatus)
}
