package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/infrastructure/firebase"
	"pasarsosmed/pkg/errors"
	"pasarsosmed/pkg/response"
)

type AuthMiddleware struct {
	authClient *firebase.AuthClient
}

func NewAuthMiddleware(authClient *firebase.AuthClient) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
	}
}

// Authenticate verifies the Bearer token and stores the caller's uid in the
// request context under "uid".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := m.tokenFromRequest(c)
		if err != nil {
			return response.Error(c, err)
		}

		decoded, err := m.authClient.VerifyToken(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, err)
		}

		c.Set("uid", decoded.UID)
		return next(c)
	}
}

// tokenFromRequest reads the Authorization header, falling back to the
// "token" query parameter for WebSocket upgrades, which cannot set headers
// from browsers.
func (m *AuthMiddleware) tokenFromRequest(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errors.Unauthorized("Invalid authorization header", nil)
		}
		return parts[1], nil
	}

	if token := c.QueryParam("token"); token != "" {
		return token, nil
	}

	return "", errors.Unauthorized("Missing authorization token", nil)
}
