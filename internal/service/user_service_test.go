package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogbreeze/internal/access"
	"blogbreeze/internal/config"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
)

func newUserFixture() (*MockUserRepository, *MockStorage, UserService) {
	users := new(MockUserRepository)
	store := new(MockStorage)
	cfg := &config.Config{MaxImageSize: 5 * 1024 * 1024}
	return users, store, NewUserService(users, store, cfg, NewValidator(), guard{})
}

func TestUserService_Me(t *testing.T) {
	t.Run("Аноним", func(t *testing.T) {
		_, _, svc := newUserFixture()

		_, err := svc.Me(context.Background(), anonymous)

		assertDenied(t, err, access.ReasonUnauthenticated)
	})

	t.Run("Пользователь без профиля видит себя", func(t *testing.T) {
		users, _, svc := newUserFixture()
		users.On("GetUserByID", mock.Anything, readerID).Return(&models.User{UserID: readerID}, nil)

		user, err := svc.Me(context.Background(), noProfile)

		require.NoError(t, err)
		assert.Equal(t, readerID, user.UserID)
	})
}

func TestUserService_ChangeRole(t *testing.T) {
	t.Run("Автор не может менять роли", func(t *testing.T) {
		users, _, svc := newUserFixture()

		err := svc.ChangeRole(context.Background(), author, readerID, models.RoleAdmin)

		assertDenied(t, err, access.ReasonRoleNotPermitted)
		users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Неизвестная роль", func(t *testing.T) {
		_, _, svc := newUserFixture()

		err := svc.ChangeRole(context.Background(), admin, readerID, "superuser")

		assertFieldErrors(t, err, "role")
	})

	t.Run("Администратор повышает читателя", func(t *testing.T) {
		users, _, svc := newUserFixture()
		users.On("UpdateRole", mock.Anything, readerID, models.RoleAuthor).Return(nil)

		require.NoError(t, svc.ChangeRole(context.Background(), admin, readerID, models.RoleAuthor))
		users.AssertExpectations(t)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("Слишком длинное описание", func(t *testing.T) {
		_, _, svc := newUserFixture()

		_, err := svc.UpdateProfile(context.Background(), reader, repository.UpdateProfileRequest{Bio: strings.Repeat("б", 2001)}, nil)

		assertFieldErrors(t, err, "bio")
	})

	t.Run("Без профиля редактировать нечего", func(t *testing.T) {
		_, _, svc := newUserFixture()

		_, err := svc.UpdateProfile(context.Background(), noProfile, repository.UpdateProfileRequest{Bio: "о себе"}, nil)

		assertDenied(t, err, access.ReasonNoProfile)
	})

	t.Run("Новый аватар заменяет старый", func(t *testing.T) {
		users, store, svc := newUserFixture()
		avatar := &ImageUpload{FileName: "me.png", ContentType: "image/png", Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)}

		users.On("GetProfile", mock.Anything, readerID).Return(&models.Profile{
			UserID:    readerID,
			Role:      models.RoleReader,
			AvatarURL: "http://cdn/images/avatars/old.png",
		}, nil)
		store.On("UploadImage", mock.Anything, "avatars", "me.png", avatar.Body, avatar.Size).
			Return("avatars/new.png", "http://cdn/images/avatars/new.png", nil)
		users.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
			return p.Bio == "о себе" && p.AvatarURL == "http://cdn/images/avatars/new.png"
		})).Return(nil)
		store.On("ObjectNameFromURL", "http://cdn/images/avatars/old.png").Return("avatars/old.png", true)
		store.On("DeleteImage", mock.Anything, "avatars/old.png").Return(nil)

		profile, err := svc.UpdateProfile(context.Background(), reader, repository.UpdateProfileRequest{Bio: " о себе "}, avatar)

		require.NoError(t, err)
		assert.Equal(t, models.RoleReader, profile.Role)
		users.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("Ошибка сохранения удаляет загруженный аватар", func(t *testing.T) {
		users, store, svc := newUserFixture()
		avatar := &ImageUpload{FileName: "me.gif", ContentType: "image/gif", Size: 10}

		users.On("GetProfile", mock.Anything, readerID).Return(&models.Profile{UserID: readerID, Role: models.RoleReader}, nil)
		store.On("UploadImage", mock.Anything, "avatars", "me.gif", nil, int64(10)).
			Return("avatars/new.gif", "http://cdn/images/avatars/new.gif", nil)
		users.On("UpdateProfile", mock.Anything, mock.Anything).Return(errors.New("db down"))
		store.On("ObjectNameFromURL", "http://cdn/images/avatars/new.gif").Return("avatars/new.gif", true)
		store.On("DeleteImage", mock.Anything, "avatars/new.gif").Return(nil)

		_, err := svc.UpdateProfile(context.Background(), reader, repository.UpdateProfileRequest{}, avatar)

		require.Error(t, err)
		store.AssertExpectations(t)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	users, _, svc := newUserFixture()
	users.On("DeleteUser", mock.Anything, readerID).Return(nil)

	assertDenied(t, svc.DeleteUser(context.Background(), author, readerID), access.ReasonRoleNotPermitted)
	require.NoError(t, svc.DeleteUser(context.Background(), admin, readerID))
	users.AssertNumberOfCalls(t, "DeleteUser", 1)
}
