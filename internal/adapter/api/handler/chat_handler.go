package handler

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/response"
)

type ChatHandler struct {
	chatUseCase     *usecase.ChatUseCase
	purchaseUseCase *usecase.PurchaseRequestUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, purchaseUseCase *usecase.PurchaseRequestUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:     chatUseCase,
		purchaseUseCase: purchaseUseCase,
	}
}

type openRoomRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	ScopeID     string `json:"scope_id"`
}

// OpenRoom resolves or creates the room for the caller, the recipient and
// the scope.
func (h *ChatHandler) OpenRoom(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req openRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	room, err := h.chatUseCase.GetOrCreateRoom(c.Request().Context(), uid, req.RecipientID, req.ScopeID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, room)
}

func (h *ChatHandler) GetRoom(c echo.Context) error {
	uid := c.Get("uid").(string)

	room, err := h.chatUseCase.GetRoom(c.Request().Context(), uid, c.Param("roomId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, room)
}

func (h *ChatHandler) Inbox(c echo.Context) error {
	uid := c.Get("uid").(string)

	summaries, err := h.chatUseCase.Inbox(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, summaries)
}

func (h *ChatHandler) RoomMessages(c echo.Context) error {
	uid := c.Get("uid").(string)

	messages, err := h.chatUseCase.RoomMessages(c.Request().Context(), uid, c.Param("roomId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var input usecase.SendMessageInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

type markReadRequest struct {
	SenderID string `json:"sender_id" validate:"required"`
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req markReadRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	count, err := h.chatUseCase.MarkRead(c.Request().Context(), uid, c.Param("roomId"), req.SenderID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"marked_read": count})
}

func (h *ChatHandler) DeleteRoom(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.chatUseCase.DeleteRoom(c.Request().Context(), uid, c.Param("roomId")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "deleted"})
}

func (h *ChatHandler) SendPurchaseRequest(c echo.Context) error {
	uid := c.Get("uid").(string)

	var input usecase.SendPurchaseRequestInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	message, err := h.purchaseUseCase.SendPurchaseRequest(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) AgreePurchaseRequest(c echo.Context) error {
	uid := c.Get("uid").(string)

	message, err := h.purchaseUseCase.Agree(c.Request().Context(), uid, c.Param("roomId"), c.Param("messageId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, message)
}
