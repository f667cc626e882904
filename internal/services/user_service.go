package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	"github.com/mkirylau/vinylmarket/internal/models"
	"github.com/mkirylau/vinylmarket/internal/policy"
	"github.com/mkirylau/vinylmarket/internal/repository"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// UserService exposes profile operations guarded by owner-scoped policy
// rules: customers may only touch their own profile, admins anyone's.
type UserService interface {
	GetUser(ctx context.Context, requester *auth.Identity, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, requester *auth.Identity, userID int64, email, password string) error
	DeleteUser(ctx context.Context, requester *auth.Identity, userID int64) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *userService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, requester *auth.Identity, userID int64) (*models.User, error) {
	ability := policy.ForUser(requester.UserID, requester.Role)
	if !ability.CanOwn(policy.ActionRead, policy.ResourceUser, userID) {
		slog.Warn("profile read denied", "requester_id", requester.UserID, "target_id", userID)
		return nil, pkgerrors.ErrAccessDenied
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateUser(ctx context.Context, requester *auth.Identity, userID int64, email, password string) error {
	ability := policy.ForUser(requester.UserID, requester.Role)
	if !ability.CanOwn(policy.ActionUpdate, policy.ResourceUser, userID) {
		slog.Warn("profile update denied", "requester_id", requester.UserID, "target_id", userID)
		return pkgerrors.ErrAccessDenied
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if email != "" {
		user.Email = email
	}
	if password != "" {
		if len(password) < passwordMinLength {
			return fmt.Errorf("%w: password must be at least %d characters", pkgerrors.ErrInvalidInput, passwordMinLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("failed to update user", "user_id", userID, "error", err)
		return err
	}
	slog.Info("user updated", "user_id", userID)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, requester *auth.Identity, userID int64) error {
	ability := policy.ForUser(requester.UserID, requester.Role)
	if !ability.CanOwn(policy.ActionDelete, policy.ResourceUser, userID) {
		slog.Warn("profile delete denied", "requester_id", requester.UserID, "target_id", userID)
		return pkgerrors.ErrAccessDenied
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		slog.Error("failed to delete user", "user_id", userID, "error", err)
		return err
	}
	slog.Info("user deleted", "user_id", userID)
	return nil
}
