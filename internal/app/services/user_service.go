package services

import (
	"context"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/auth"
	"github.com/tobi/learnhub/internal/pkg/logger"
)

// UserService defines the interface for user management operations
type UserService interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, roleType string, isActive *bool, page, size int) ([]*models.User, int64, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	UpdateProfilePhoto(ctx context.Context, userID int64, photoURL *string) error
	SetActive(ctx context.Context, userID int64, active bool) error
	PromoteToTrainer(ctx context.Context, userID int64) (*models.User, error)
}

type userServiceImpl struct {
	userRepo  *repositories.UserRepository
	tokenRepo *repositories.TokenRepository
}

// NewUserService creates a new user service instance
func NewUserService(userRepo *repositories.UserRepository, tokenRepo *repositories.TokenRepository) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userServiceImpl) List(ctx context.Context, roleType string, isActive *bool, page, size int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, roleType, isActive, page, size)
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, firstName, lastName); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword verifies the current password, replaces the hash, and
// revokes every outstanding refresh token.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens after password change")
	}

	return nil
}

func (s *userServiceImpl) UpdateProfilePhoto(ctx context.Context, userID int64, photoURL *string) error {
	return s.userRepo.UpdateProfilePhoto(ctx, userID, photoURL)
}

func (s *userServiceImpl) SetActive(ctx context.Context, userID int64, active bool) error {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	// A deactivated user must not keep a live session
	if !active {
		if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
			logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to revoke tokens on deactivation")
		}
	}
	return nil
}

// PromoteToTrainer upgrades a student account to the trainer role
func (s *userServiceImpl) PromoteToTrainer(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.RoleType == models.RoleAdmin {
		return nil, apperrors.NewConflictError("admin accounts cannot be demoted to trainer")
	}

	if err := s.userRepo.SetRole(ctx, userID, models.RoleTrainer); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}
