package usecase

import (
	"context"
	"time"

	"pasarsosmed/internal/domain/entity"
	"pasarsosmed/internal/domain/repository"
)

type UpdateProfileInput struct {
	Username string `json:"username"`
	PhotoURL string `json:"photo_url"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
	Language string `json:"language"`
}

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// UpdateProfile patches the mutable profile fields; empty input fields leave
// the stored value alone.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Language != "" {
		user.Language = input.Language
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
