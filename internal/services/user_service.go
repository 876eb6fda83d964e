package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	profile := models.NewUserProfile(user)
	return &profile, nil
}

// UpdateProfile applies a partial update; nil fields are left untouched
func (s *userService) UpdateProfile(ctx context.Context, username string, req *UpdateProfileRequest) (*models.UserProfile, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.repo.User().ExistsByEmail(ctx, nil, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Organization != nil {
		user.Organization = req.Organization
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", "username", username)

	updated, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}
	profile := models.NewUserProfile(updated)
	return &profile, nil
}

func (s *userService) getUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
