package handler

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// Sync mirrors the authenticated Firebase account into the user collection.
// Clients call it right after sign-in.
func (h *AuthHandler) Sync(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.authUseCase.SyncUser(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
