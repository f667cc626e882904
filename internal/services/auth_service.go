package service

import (
	"context"
	"fmt"
	"log/slog"

	stderrors "errors"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	"github.com/mkirylau/vinylmarket/internal/infrastructure/redis"
	"github.com/mkirylau/vinylmarket/internal/models"
	"github.com/mkirylau/vinylmarket/internal/repository"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

const passwordMinLength = 8

type AuthService interface {
	Register(ctx context.Context, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	redisClient redis.RedisClient
	jwtSecret   string
}

func NewAuthService(userRepo repository.UserRepository, redisClient redis.RedisClient, jwtSecret string) *authService {
	return &authService{userRepo: userRepo, redisClient: redisClient, jwtSecret: jwtSecret}
}

func (s *authService) Register(ctx context.Context, email, password string) (int64, error) {
	tracer := otel.Tracer("vinyl-market")
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if email == "" || len(password) < passwordMinLength {
		span.SetStatus(codes.Error, "invalid email or password")
		return 0, fmt.Errorf("%w: email and a password of at least %d characters are required", pkgerrors.ErrInvalidInput, passwordMinLength)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if existing != nil {
		span.SetStatus(codes.Error, "email already registered")
		slog.Warn("email already registered", "email", email, "existing_id", existing.ID)
		return 0, pkgerrors.ErrEmailExists
	}
	if err != nil && !stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user check failed")
		slog.Error("failed to check user existence", "email", email, "error", err)
		return 0, fmt.Errorf("%w: failed to check user existence", pkgerrors.ErrInternal)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "password hashing failed")
		slog.Error("failed to hash password", "email", email, "error", err)
		return 0, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, pkgerrors.ErrEmailExists) {
			return 0, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user creation failed")
		slog.Error("failed to create user", "email", email, "error", err)
		return 0, fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}

	slog.Info("user registered", "user_id", user.ID, "email", email)
	return user.ID, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	tracer := otel.Tracer("vinyl-market")
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		slog.Error("failed to login", "email", email, "error", err)
		return "", pkgerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Error("invalid password", "email", email)
		return "", pkgerrors.ErrInvalidCredentials
	}

	tokenString, err := auth.GenerateToken(user, s.jwtSecret)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to generate JWT", "error", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.redisClient.Set(ctx, fmt.Sprintf("user:%d:token", user.ID), tokenString, auth.TokenTTL); err != nil {
		slog.Error("failed to cache JWT", "user_id", user.ID, "error", err)
	}

	slog.Info("user logged in", "email", email, "user_id", user.ID)
	return tokenString, nil
}
