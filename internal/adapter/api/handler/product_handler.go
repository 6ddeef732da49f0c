package handler

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/response"
	"pasarsosmed/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Create(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, product)
}

func (h *ProductHandler) GetByID(c echo.Context) error {
	product, err := h.productUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

// List serves the public storefront catalog, optionally filtered by
// category.
func (h *ProductHandler) List(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	products, total := h.productUseCase.List(c.Request().Context(), c.QueryParam("category_id"), params.PageSize, params.Offset)
	return response.Paginated(c, products, total, params.Page, params.PageSize)
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	uid := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	products, total := h.productUseCase.ListBySeller(c.Request().Context(), uid, params.PageSize, params.Offset)
	return response.Paginated(c, products, total, params.Page, params.PageSize)
}

func (h *ProductHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)

	var input usecase.ProductInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Update(c.Request().Context(), uid, c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.productUseCase.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "deleted"})
}

func (h *ProductHandler) Reorder(c echo.Context) error {
	uid := c.Get("uid").(string)

	var req struct {
		SortOrder int `json:"sort_order"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Reorder(c.Request().Context(), uid, c.Param("id"), req.SortOrder)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}
