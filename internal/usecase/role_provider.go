package usecase

import (
	"context"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/pkg/errors"
)

// RoleProvider resolves a user's effective role from the historical role
// sources in one canonical order:
//
//  1. realtime-db users/{uid}/role
//  2. Firestore user document role field
//  3. Firestore user document admin flag
//  4. roles collection matched by user id
//  5. roles collection matched by email
//
// The first non-empty answer wins; a user matching nothing is a plain user.
type RoleProvider struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewRoleProvider(chatRepo repository.ChatRepository, userRepo repository.UserRepository, roleRepo repository.RoleRepository) *RoleProvider {
	return &RoleProvider{
		chatRepo: chatRepo,
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (p *RoleProvider) Resolve(ctx context.Context, userID string) (string, error) {
	if role, err := p.chatRepo.RoleByUserID(ctx, userID); err == nil && role != "" {
		return role, nil
	}

	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return "", err
	}
	if user != nil {
		if user.Role != "" {
			return user.Role, nil
		}
		if user.Admin {
			return entity.RoleAdmin, nil
		}
	}

	if assignment, err := p.roleRepo.GetByUserID(ctx, userID); err == nil && assignment.Role != "" {
		return assignment.Role, nil
	}
	if user != nil && user.Email != "" {
		if assignment, err := p.roleRepo.GetByEmail(ctx, user.Email); err == nil && assignment.Role != "" {
			return assignment.Role, nil
		}
	}

	return entity.RoleUser, nil
}

// IsEscrowAgent reports whether the user may act as an escrow agent.
// Admins always may.
func (p *RoleProvider) IsEscrowAgent(ctx context.Context, userID string) (bool, error) {
	role, err := p.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == entity.RoleEscrowAgent || role == entity.RoleAdmin, nil
}

func (p *RoleProvider) IsAdmin(ctx context.Context, userID string) (bool, error) {
	role, err := p.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == entity.RoleAdmin, nil
}
