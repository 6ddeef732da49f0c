package handler

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/response"
)

type EscrowHandler struct {
	escrowUseCase *usecase.EscrowUseCase
}

func NewEscrowHandler(escrowUseCase *usecase.EscrowUseCase) *EscrowHandler {
	return &EscrowHandler{
		escrowUseCase: escrowUseCase,
	}
}

// RequestAgent pulls the escrow agent into the caller's room.
func (h *EscrowHandler) RequestAgent(c echo.Context) error {
	uid := c.Get("uid").(string)

	request, err := h.escrowUseCase.RequestEscrowAgent(c.Request().Context(), uid, c.Param("roomId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, request)
}

type escrowMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

// SendMessage posts into the room under the escrow pseudo-identity.
func (h *EscrowHandler) SendMessage(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req escrowMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.escrowUseCase.SendAsEscrowAgent(c.Request().Context(), uid, c.Param("roomId"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *EscrowHandler) ListRequests(c echo.Context) error {
	uid := c.Get("uid").(string)

	requests, err := h.escrowUseCase.ListRequests(c.Request().Context(), uid, c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, requests)
}

type escrowStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed cancelled"`
}

func (h *EscrowHandler) UpdateRequestStatus(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req escrowStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.escrowUseCase.UpdateRequestStatus(c.Request().Context(), uid, c.Param("roomId"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, request)
}
