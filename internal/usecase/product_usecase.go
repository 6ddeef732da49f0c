package usecase

import (
	"context"
	"time"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
	"pasarsosmed/pkg/logger"
)

type ProductInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Platform    string   `json:"platform"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Currency    string   `json:"currency"`
	Followers   int64    `json:"followers"`
	ImageURLs   []string `json:"image_urls"`
	Status      string   `json:"status"`
	SortOrder   int      `json:"sort_order"`
}

type ProductUseCase struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	roles        *RoleProvider
}

func NewProductUseCase(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, roles *RoleProvider) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		roles:        roles,
	}
}

func (uc *ProductUseCase) Create(ctx context.Context, sellerID string, input ProductInput) (*entity.Product, error) {
	if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Platform:    input.Platform,
		Price:       input.Price,
		Currency:    input.Currency,
		Followers:   input.Followers,
		SellerID:    sellerID,
		ImageURLs:   input.ImageURLs,
		Status:      input.Status,
		SortOrder:   input.SortOrder,
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

// List returns the storefront catalog. Read failures degrade to an empty
// page so a storefront render never hard-fails on a backend hiccup.
func (uc *ProductUseCase) List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Product, int64) {
	products, total, err := uc.productRepo.List(ctx, categoryID, limit, offset)
	if err != nil {
		logger.Error("Product list failed, serving empty page: %v", err)
		return []*entity.Product{}, 0
	}
	if products == nil {
		products = []*entity.Product{}
	}
	return products, total
}

func (uc *ProductUseCase) ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64) {
	products, total, err := uc.productRepo.ListBySellerID(ctx, sellerID, limit, offset)
	if err != nil {
		logger.Error("Seller product list failed, serving empty page: %v", err)
		return []*entity.Product{}, 0
	}
	if products == nil {
		products = []*entity.Product{}
	}
	return products, total
}

// Update is allowed for the product's seller or an admin.
func (uc *ProductUseCase) Update(ctx context.Context, callerID, productID string, input ProductInput) (*entity.Product, error) {
	product, err := uc.authorize(ctx, callerID, productID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != "" && input.CategoryID != product.CategoryID {
		if _, err := uc.categoryRepo.GetByID(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = input.CategoryID
	}
	if input.Title != "" {
		product.Title = input.Title
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Platform != "" {
		product.Platform = input.Platform
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.Currency != "" {
		product.Currency = input.Currency
	}
	if input.Followers > 0 {
		product.Followers = input.Followers
	}
	if input.ImageURLs != nil {
		product.ImageURLs = input.ImageURLs
	}
	if input.Status != "" {
		product.Status = input.Status
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, callerID, productID string) error {
	if _, err := uc.authorize(ctx, callerID, productID); err != nil {
		return err
	}
	return uc.productRepo.Delete(ctx, productID)
}

// Reorder rewrites a product's sort position. Admin action from the catalog
// dashboard.
func (uc *ProductUseCase) Reorder(ctx context.Context, callerID, productID string, sortOrder int) (*entity.Product, error) {
	isAdmin, err := uc.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, errors.Forbidden("Admin role required", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.SortOrder = sortOrder
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (uc *ProductUseCase) authorize(ctx context.Context, callerID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID == callerID {
		return product, nil
	}

	isAdmin, err := uc.roles.IsAdmin(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, errors.Forbidden("Not the product owner", nil)
	}
	return product, nil
}
