package router

import (
	"github.com/labstack/echo/v4"
)

func setupCatalogRoutes(g *echo.Group, h Handlers, m Middlewares) {
	// Storefront reads are public.
	g.GET("/products", h.Product.List)
	g.GET("/products/:id", h.Product.GetByID)
	g.GET("/categories", h.Category.List)
	g.GET("/categories/:id", h.Category.GetByID)

	products := g.Group("/products", m.Auth.Authenticate)
	products.POST("", h.Product.Create)
	products.GET("/mine", h.Product.ListMine)
	products.PATCH("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.PATCH("/:id/reorder", h.Product.Reorder, m.Role.RequireAdmin)

	categories := g.Group("/categories", m.Auth.Authenticate, m.Role.RequireAdmin)
	categories.POST("", h.Category.Create)
	categories.PATCH("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)
}
