package repository

import (
	"context"

	"pasarsosmed/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Product, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error)
}
