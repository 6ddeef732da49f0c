package usecase

import (
	"context"
	"strings"
	"time"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
	"pasarsosmed/internal/infrastructure/firebase"
	"pasarsosmed/pkg/errors"
)

// AuthUseCase mirrors Firebase accounts into the Firestore user collection.
// Sign-in itself happens client side against Firebase; the backend only sees
// verified tokens.
type AuthUseCase struct {
	authClient *firebase.AuthClient
	userRepo   repository.UserRepository
}

func NewAuthUseCase(authClient *firebase.AuthClient, userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

// SyncUser ensures a Firestore profile exists for the authenticated uid,
// creating it from the Firebase account record on first contact. Called on
// every login; an existing profile is returned untouched.
func (uc *AuthUseCase) SyncUser(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	record, err := uc.authClient.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	username := record.DisplayName
	if username == "" && record.Email != "" {
		username = strings.SplitN(record.Email, "@", 2)[0]
	}

	provider := ""
	if len(record.ProviderUserInfo) > 0 {
		provider = record.ProviderUserInfo[0].ProviderID
	}

	now := time.Now()
	user = &entity.User{
		ID:        uid,
		Email:     record.Email,
		Username:  username,
		PhotoURL:  record.PhotoURL,
		Phone:     record.PhoneNumber,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
