package service

import (
	"context"
	"testing"

	"github.com/mkirylau/vinylmarket/internal/infrastructure/auth"
	"github.com/mkirylau/vinylmarket/internal/models"
	pkgerrors "github.com/mkirylau/vinylmarket/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserServiceGetUser(t *testing.T) {
	owner := &auth.Identity{UserID: 7, Email: "buyer@example.com", Role: models.RoleCustomer}
	admin := &auth.Identity{UserID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

	t.Run("owner reads own profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Email: "buyer@example.com", Role: models.RoleCustomer}, nil)
		svc := NewUserService(repo)

		user, err := svc.GetUser(context.Background(), owner, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
	})

	t.Run("customer denied another profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := NewUserService(repo)

		_, err := svc.GetUser(context.Background(), owner, 8)
		assert.ErrorIs(t, err, pkgerrors.ErrAccessDenied)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("admin reads any profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Email: "buyer@example.com", Role: models.RoleCustomer}, nil)
		svc := NewUserService(repo)

		_, err := svc.GetUser(context.Background(), admin, 7)
		assert.NoError(t, err)
	})
}

func TestUserServiceUpdateUser(t *testing.T) {
	owner := &auth.Identity{UserID: 7, Email: "buyer@example.com", Role: models.RoleCustomer}

	t.Run("owner updates email and password", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Email: "buyer@example.com", PasswordHash: "old"}, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			if u.Email != "new@example.com" {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpassword")) == nil
		})).Return(nil)
		svc := NewUserService(repo)

		err := svc.UpdateUser(context.Background(), owner, 7, "new@example.com", "newpassword")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("short replacement password rejected", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByID", mock.Anything, int64(7)).
			Return(&models.User{ID: 7, Email: "buyer@example.com", PasswordHash: "old"}, nil)
		svc := NewUserService(repo)

		err := svc.UpdateUser(context.Background(), owner, 7, "", "short")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("customer denied another profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := NewUserService(repo)

		err := svc.UpdateUser(context.Background(), owner, 8, "new@example.com", "")
		assert.ErrorIs(t, err, pkgerrors.ErrAccessDenied)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUserServiceDeleteUser(t *testing.T) {
	owner := &auth.Identity{UserID: 7, Email: "buyer@example.com", Role: models.RoleCustomer}
	admin := &auth.Identity{UserID: 1, Email: "admin@example.com", Role: models.RoleAdmin}

	t.Run("owner deletes own profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("Delete", mock.Anything, int64(7)).Return(nil)
		svc := NewUserService(repo)

		assert.NoError(t, svc.DeleteUser(context.Background(), owner, 7))
		repo.AssertExpectations(t)
	})

	t.Run("customer denied another profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := NewUserService(repo)

		err := svc.DeleteUser(context.Background(), owner, 8)
		assert.ErrorIs(t, err, pkgerrors.ErrAccessDenied)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes any profile", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("Delete", mock.Anything, int64(9)).Return(nil)
		svc := NewUserService(repo)

		assert.NoError(t, svc.DeleteUser(context.Background(), admin, 9))
	})
}
