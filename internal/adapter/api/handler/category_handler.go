package handler

import (
	"github.com/labstack/echo/v4"

	"pasarsosmed/internal/usecase"
	"pasarsosmed/pkg/response"
)

type CategoryHandler struct {
	categoryUseCase *usecase.CategoryUseCase
}

func NewCategoryHandler(categoryUseCase *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{
		categoryUseCase: categoryUseCase,
	}
}

func (h *CategoryHandler) List(c echo.Context) error {
	return response.Success(c, h.categoryUseCase.List(c.Request().Context()))
}

func (h *CategoryHandler) GetByID(c echo.Context) error {
	category, err := h.categoryUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, category)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	uid := c.Get("uid").(string)

	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryUseCase.Create(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	uid := c.Get("uid").(string)

	var input usecase.CategoryInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryUseCase.Update(c.Request().Context(), uid, c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.categoryUseCase.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "deleted"})
}
