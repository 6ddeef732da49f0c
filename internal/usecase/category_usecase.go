package usecase

import (
	"context"
	"strings"
	"time"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
	"pasarsosmed/pkg/logger"
)

type CategoryInput struct {
	Name      string `json:"name" validate:"required"`
	Slug      string `json:"slug"`
	ImageURL  string `json:"image_url"`
	SortOrder int    `json:"sort_order"`
}

type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	roles        *RoleProvider
}

func NewCategoryUseCase(categoryRepo repository.CategoryRepository, roles *RoleProvider) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		roles:        roles,
	}
}

// List returns all categories ordered by sort position. Read failures
// degrade to an empty list so navigation still renders.
func (uc *CategoryUseCase) List(ctx context.Context) []*entity.Category {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		logger.Error("Category list failed, serving empty list: %v", err)
		return []*entity.Category{}
	}
	if categories == nil {
		categories = []*entity.Category{}
	}
	return categories
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

func (uc *CategoryUseCase) Create(ctx context.Context, callerID string, input CategoryInput) (*entity.Category, error) {
	if err := uc.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Name:      input.Name,
		Slug:      input.Slug,
		ImageURL:  input.ImageURL,
		SortOrder: input.SortOrder,
	}
	if category.Slug == "" {
		category.Slug = slugify(input.Name)
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, callerID, categoryID string, input CategoryInput) (*entity.Category, error) {
	if err := uc.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Slug != "" {
		category.Slug = input.Slug
	}
	if input.ImageURL != "" {
		category.ImageURL = input.ImageURL
	}
	category.SortOrder = input.SortOrder
	category.UpdatedAt = time.Now()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, callerID, categoryID string) error {
	if err := uc.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	return uc.categoryRepo.Delete(ctx, categoryID)
}

func (uc *CategoryUseCase) requireAdmin(ctx context.Context, callerID string) error {
	isAdmin, err := uc.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return errors.Forbidden("Admin role required", nil)
	}
	return nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(slug, " ", "-")
}
