package service

import (
	"context"
	"testing"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	"github.com/mkirylau/vinylmarket/internal/models"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewAuthService(repo, newStubRedis(), "secret")

		repo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, pkgerrors.ErrUserNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "new@example.com" && u.Role == models.RoleCustomer && u.PasswordHash != "password123"
		})).Return(nil)

		userID, err := svc.Register(ctx, "new@example.com", "password123")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), userID)
		repo.AssertExpectations(t)
	})

	t.Run("short password rejected", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewAuthService(repo, newStubRedis(), "secret")

		_, err := svc.Register(ctx, "new@example.com", "short")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewAuthService(repo, newStubRedis(), "secret")
		repo.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&models.User{ID: 2, Email: "taken@example.com"}, nil)

		_, err := svc.Register(ctx, "taken@example.com", "password123")
		assert.ErrorIs(t, err, pkgerrors.ErrEmailExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login issues a role-bearing token and caches it", func(t *testing.T) {
		repo := &mockUserRepo{}
		cache := newStubRedis()
		svc := NewAuthService(repo, cache, "secret")

		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user := &models.User{ID: 7, Email: "buyer@example.com", PasswordHash: string(hash), Role: models.RoleCustomer}
		repo.On("GetByEmail", mock.Anything, "buyer@example.com").Return(user, nil)

		token, err := svc.Login(ctx, "buyer@example.com", "password123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, token, cache.values["user:7:token"])

		identity, err := auth.ParseToken(token, "secret")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), identity.UserID)
		assert.Equal(t, "buyer@example.com", identity.Email)
		assert.Equal(t, models.RoleCustomer, identity.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewAuthService(repo, newStubRedis(), "secret")

		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user := &models.User{ID: 7, Email: "buyer@example.com", PasswordHash: string(hash)}
		repo.On("GetByEmail", mock.Anything, "buyer@example.com").Return(user, nil)

		token, err := svc.Login(ctx, "buyer@example.com", "wrongpass")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
		assert.Empty(t, token)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := &mockUserRepo{}
		svc := NewAuthService(repo, newStubRedis(), "secret")
		repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, pkgerrors.ErrUserNotFound)

		token, err := svc.Login(ctx, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
		assert.Empty(t, token)
	})
}
