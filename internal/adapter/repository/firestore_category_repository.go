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

type firestoreCategoryRepository struct {
	client *firestore.Client
}

func NewFirestoreCategoryRepository(client *firestore.Client) repository.CategoryRepository {
	return &firestoreCategoryRepository{
		client: client,
	}
}

func (r *firestoreCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := r.client.Collection("categories").Doc(category.ID).Set(ctx, category)
	if err != nil {
		return errors.Internal("Failed to create category", err)
	}
	return nil
}

func (r *firestoreCategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	doc, err := r.client.Collection("categories").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Category", err)
		}
		return nil, errors.Internal("Failed to get category", err)
	}

	var category entity.Category
	if err := doc.DataTo(&category); err != nil {
		return nil, errors.Internal("Failed to parse category data", err)
	}
	category.ID = doc.Ref.ID

	return &category, nil
}

func (r *firestoreCategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now()

	_, err := r.client.Collection("categories").Doc(category.ID).Set(ctx, category)
	if err != nil {
		return errors.Internal("Failed to update category", err)
	}
	return nil
}

func (r *firestoreCategoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("categories").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete category", err)
	}
	return nil
}

func (r *firestoreCategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	docs, err := r.client.Collection("categories").OrderBy("sortOrder", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch categories", err)
	}

	var categories []*entity.Category
	for _, doc := range docs {
		var category entity.Category
		if err := doc.DataTo(&category); err != nil {
			continue // skip malformed documents
		}
		category.ID = doc.Ref.ID
		categories = append(categories, &category)
	}

	return categories, nil
}
