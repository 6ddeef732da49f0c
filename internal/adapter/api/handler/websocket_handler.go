package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/domain/entity"
	ws "pasarsosmed/internal/infrastructure/websocket"
	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by token auth, not by header
	},
}

type WebSocketHandler struct {
	wsManager   *ws.Manager
	chatUseCase *usecase.ChatUseCase
}

func NewWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		chatUseCase: chatUseCase,
	}
}

type wsInbound struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

// Connect upgrades the request and serves the connection until it closes.
// Clients drive room membership with join_room/leave_room frames; joining a
// room also opens a message subscription that replays the room history and
// pushes a fresh snapshot after every write.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	uid := c.Get("uid").(string)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed for %s: %v", uid, err)
		return err
	}

	client := &ws.Client{
		UserID: uid,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	var mu sync.Mutex
	cancels := make(map[string]func())

	ctx := c.Request().Context()

	client.OnMessage = func(cl *ws.Client, payload []byte) {
		var frame wsInbound
		if err := json.Unmarshal(payload, &frame); err != nil {
			return
		}

		switch frame.Type {
		case "join_room":
			h.wsManager.JoinRoom(frame.RoomID, cl)

			listener := func(messages []*entity.ChatMessage) {
				snapshot, err := json.Marshal(map[string]interface{}{
					"type":     "message_history",
					"room_id":  frame.RoomID,
					"messages": messages,
				})
				if err != nil {
					return
				}
				h.wsManager.SendToUser(cl.UserID, snapshot)
			}

			cancel, err := h.chatUseCase.SubscribeMessages(ctx, cl.UserID, frame.RoomID, listener)
			if err != nil {
				notice, _ := json.Marshal(map[string]interface{}{
					"type":    "error",
					"room_id": frame.RoomID,
					"message": err.Error(),
				})
				h.wsManager.SendToUser(cl.UserID, notice)
				h.wsManager.LeaveRoom(frame.RoomID, cl)
				return
			}

			mu.Lock()
			if prev, ok := cancels[frame.RoomID]; ok {
				prev()
			}
			cancels[frame.RoomID] = cancel
			mu.Unlock()

		case "leave_room":
			h.wsManager.LeaveRoom(frame.RoomID, cl)
			mu.Lock()
			if cancel, ok := cancels[frame.RoomID]; ok {
				cancel()
				delete(cancels, frame.RoomID)
			}
			mu.Unlock()
		}
	}

	client.OnClose = func(cl *ws.Client) {
		mu.Lock()
		for _, cancel := range cancels {
			cancel()
		}
		cancels = make(map[string]func())
		mu.Unlock()
	}

	h.wsManager.Register <- client

	go client.WritePump()
	client.ReadPump(h.wsManager)

	return nil
}
