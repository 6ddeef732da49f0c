package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Status == "" {
		product.Status = "available"
	}

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}
	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	product.ID = doc.Ref.ID

	return &product, nil
}

func (r *firestoreProductRepository) Update(ctx context.Context, product *entity.Product) error {
	product.UpdatedAt = time.Now()

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to update product", err)
	}
	return nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}
	return nil
}

func (r *firestoreProductRepository) List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query
	if categoryID != "" {
		query = query.Where("categoryId", "==", categoryID)
	}
	query = query.OrderBy("sortOrder", firestore.Asc)

	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreProductRepository) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Where("sellerId", "==", sellerID).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query, limit, offset)
}

func (r *firestoreProductRepository) collect(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.Product, int64, error) {
	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to fetch products", err)
	}

	total := int64(len(allDocs))

	start := offset
	if start > len(allDocs) {
		start = len(allDocs)
	}
	end := len(allDocs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var products []*entity.Product
	for i := start; i < end; i++ {
		var product entity.Product
		if err := allDocs[i].DataTo(&product); err != nil {
			continue // skip malformed documents
		}
		product.ID = allDocs[i].Ref.ID
		products = append(products, &product)
	}

	return products, total, nil
}
