package middleware

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/errors"
	"pasarsosmed/pkg/response"
)

// RoleMiddleware gates routes on the caller's resolved role. It runs after
// Authenticate, so "uid" is always present.
type RoleMiddleware struct {
	roles *usecase.RoleProvider
}

func NewRoleMiddleware(roles *usecase.RoleProvider) *RoleMiddleware {
	return &RoleMiddleware{
		roles: roles,
	}
}

func (m *RoleMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := c.Get("uid").(string)

		isAdmin, err := m.roles.IsAdmin(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, err)
		}
		if !isAdmin {
			return response.Error(c, errors.Forbidden("Admin role required", nil))
		}
		return next(c)
	}
}

func (m *RoleMiddleware) RequireEscrowAgent(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid := c.Get("uid").(string)

		allowed, err := m.roles.IsEscrowAgent(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, err)
		}
		if !allowed {
			return response.Error(c, errors.Forbidden("Escrow agent role required", nil))
		}
		return next(c)
	}
}
