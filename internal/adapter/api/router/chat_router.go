package router

import (
	"github.com/labstack/echo/v4"
)

func setupChatRoutes(g *echo.Group, h Handlers, m Middlewares) {
	chats := g.Group("/chats", m.Auth.Authenticate)

	chats.GET("", h.Chat.Inbox)
	chats.POST("/rooms", h.Chat.OpenRoom)
	chats.GET("/rooms/:roomId", h.Chat.GetRoom)
	chats.DELETE("/rooms/:roomId", h.Chat.DeleteRoom)
	chats.GET("/rooms/:roomId/messages", h.Chat.RoomMessages)
	chats.POST("/messages", h.Chat.SendMessage)
	chats.POST("/rooms/:roomId/read", h.Chat.MarkRead)

	chats.POST("/purchase-requests", h.Chat.SendPurchaseRequest)
	chats.POST("/rooms/:roomId/messages/:messageId/agree", h.Chat.AgreePurchaseRequest)
}
