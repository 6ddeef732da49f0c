package repository

import (
	"context"

	"pasarsosmed/internal/domain/entity"
)

// RoleRepository reads the Firestore "roles" collection, where assignments
// are keyed either by uid or by the user's email address.
type RoleRepository interface {
	GetByUserID(ctx context.Context, userID string) (*entity.RoleAssignment, error)
	GetByEmail(ctx context.Context, email string) (*entity.RoleAssignment, error)
	Set(ctx context.Context, assignment *entity.RoleAssignment) error
}
