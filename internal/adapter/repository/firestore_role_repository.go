package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
)

type firestoreRoleRepository struct {
	client *firestore.Client
}

func NewFirestoreRoleRepository(client *firestore.Client) repository.RoleRepository {
	return &firestoreRoleRepository{
		client: client,
	}
}

// GetByUserID looks the assignment up by document id first (dashboards key
// role docs by uid), then falls back to a userId field query.
func (r *firestoreRoleRepository) GetByUserID(ctx context.Context, userID string) (*entity.RoleAssignment, error) {
	doc, err := r.client.Collection("roles").Doc(userID).Get(ctx)
	if err == nil {
		return parseRoleDoc(doc)
	}
	if status.Code(err) != codes.NotFound {
		return nil, errors.Internal("Failed to get role assignment", err)
	}

	query := r.client.Collection("roles").Where("userId", "==", userID).Limit(1)
	iter := query.Documents(ctx)
	doc, err = iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Role assignment", nil)
		}
		return nil, errors.Internal("Failed to query role assignment", err)
	}

	return parseRoleDoc(doc)
}

func (r *firestoreRoleRepository) GetByEmail(ctx context.Context, email string) (*entity.RoleAssignment, error) {
	doc, err := r.client.Collection("roles").Doc(email).Get(ctx)
	if err == nil {
		return parseRoleDoc(doc)
	}
	if status.Code(err) != codes.NotFound {
		return nil, errors.Internal("Failed to get role assignment", err)
	}

	query := r.client.Collection("roles").Where("email", "==", email).Limit(1)
	iter := query.Documents(ctx)
	doc, err = iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Role assignment", nil)
		}
		return nil, errors.Internal("Failed to query role assignment", err)
	}

	return parseRoleDoc(doc)
}

func (r *firestoreRoleRepository) Set(ctx context.Context, assignment *entity.RoleAssignment) error {
	if assignment.ID == "" {
		assignment.ID = assignment.UserID
	}
	assignment.CreatedAt = time.Now()

	_, err := r.client.Collection("roles").Doc(assignment.ID).Set(ctx, assignment)
	if err != nil {
		return errors.Internal("Failed to write role assignment", err)
	}
	return nil
}

func parseRoleDoc(doc *firestore.DocumentSnapshot) (*entity.RoleAssignment, error) {
	var assignment entity.RoleAssignment
	if err := doc.DataTo(&assignment); err != nil {
		return nil, errors.Internal("Failed to parse role assignment", err)
	}
	assignment.ID = doc.Ref.ID
	return &assignment, nil
}
