package service

import (
	"context"

	"murmur/internal/auth"
	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/repository"
	"murmur/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	Caller   auth.Caller
	Username string
	Bio      string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user *models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		var fetchErr error
		user, fetchErr = s.userRepo.GetByID(ctx, id)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.Caller.ID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if in.Username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, in.Username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewConflictError("Username already taken")
			}
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, user.ID)

	return user, nil
}

// SetRole changes a user's role. Only admins may call it; an admin demoting
// themselves is allowed and takes effect on their next issued credential.
func (s *UserService) SetRole(ctx context.Context, caller auth.Caller, targetID uint, role models.Role) (*models.User, error) {
	if err := auth.RequireAdmin(&caller); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}

	if err := s.userRepo.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, targetID)

	return s.userRepo.GetByID(ctx, targetID)
}
