package router

import (
	"github.com/labstack/echo/v4"
)

func setupFileRoutes(g *echo.Group, h Handlers, m Middlewares) {
	files := g.Group("/files", m.Auth.Authenticate)
	files.POST("", h.File.Upload)
	files.DELETE("", h.File.Delete)
}
