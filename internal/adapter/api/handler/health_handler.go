package handler

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/pkg/response"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

func (h *HealthHandler) Check(c echo.Context) error {
	return response.Success(c, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
