package test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogbreeze/internal/access"
	handlers "blogbreeze/internal/handler"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/service"
)

func TestGetCurrentUserHandler(t *testing.T) {
	t.Run("Аноним", func(t *testing.T) {
		f := newFixture()
		f.users.On("Me", mock.Anything, access.Anonymous()).
			Return(nil, access.Decision{Reason: access.ReasonUnauthenticated}.Err())

		rr := httptest.NewRecorder()
		f.handler.GetCurrentUser(rr, request(http.MethodGet, "/api/me", nil, access.Anonymous(), nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Текущий пользователь", func(t *testing.T) {
		f := newFixture()
		f.users.On("Me", mock.Anything, author).Return(&models.User{
			UserID:       authorID,
			Username:     "anna",
			PasswordHash: "secret-hash",
			Profile:      &models.Profile{Role: models.RoleAuthor},
		}, nil)

		rr := httptest.NewRecorder()
		f.handler.GetCurrentUser(rr, request(http.MethodGet, "/api/me", nil, author, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotContains(t, rr.Body.String(), "secret-hash")

		var body handlers.UserResponse
		decodeBody(t, rr, &body)
		assert.Equal(t, "anna", body.Username)
		assert.Equal(t, models.RoleAuthor, body.Profile.Role)
	})
}

func TestUpdateProfileHandler(t *testing.T) {
	t.Run("Описание и аватар", func(t *testing.T) {
		f := newFixture()
		gif := []byte("GIF89a\x01\x00\x01\x00")
		body, contentType := multipartPost(t, map[string][]string{"bio": {"Пишу о Go"}}, "avatar", "me.gif", "image/gif", gif)

		f.users.On("UpdateProfile", mock.Anything, author, repository.UpdateProfileRequest{Bio: "Пишу о Go"},
			mock.MatchedBy(func(img *service.ImageUpload) bool { return img != nil && img.FileName == "me.gif" })).
			Return(&models.Profile{UserID: authorID, Bio: "Пишу о Go", AvatarURL: "http://cdn/images/avatars/me.gif"}, nil)

		req := request(http.MethodPut, "/api/me/profile", body, author, nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		f.handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		f.users.AssertExpectations(t)
	})

	t.Run("Только описание", func(t *testing.T) {
		f := newFixture()
		body, contentType := multipartPost(t, map[string][]string{"bio": {"Без аватара"}}, "", "", "", nil)

		f.users.On("UpdateProfile", mock.Anything, author, repository.UpdateProfileRequest{Bio: "Без аватара"},
			(*service.ImageUpload)(nil)).Return(&models.Profile{UserID: authorID}, nil)

		req := request(http.MethodPut, "/api/me/profile", body, author, nil)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		f.handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Не multipart", func(t *testing.T) {
		f := newFixture()

		req := request(http.MethodPut, "/api/me/profile", strings.NewReader(`{"bio":"x"}`), author, nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		f.handler.UpdateProfile(rr, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})
}

func TestChangeUserRoleHandler(t *testing.T) {
	tests := []struct {
		name           string
		actor          access.Actor
		userID         string
		body           string
		mockSetup      func(*MockUserService)
		expectedStatus int
	}{
		{
			name:   "Администратор назначает автора",
			actor:  admin,
			userID: authorID,
			body:   `{"role":"author"}`,
			mockSetup: func(s *MockUserService) {
				s.On("ChangeRole", mock.Anything, admin, authorID, models.RoleAuthor).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Автор не может менять роли",
			actor:  author,
			userID: adminID,
			body:   `{"role":"reader"}`,
			mockSetup: func(s *MockUserService) {
				s.On("ChangeRole", mock.Anything, author, adminID, models.RoleReader).
					Return(access.Decision{Reason: access.ReasonRoleNotPermitted}.Err())
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Некорректный идентификатор",
			actor:          admin,
			userID:         "abc",
			body:           `{"role":"author"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.mockSetup != nil {
				tt.mockSetup(f.users)
			}

			rr := httptest.NewRecorder()
			f.handler.ChangeUserRole(rr, request(http.MethodPut, "/api/users/"+tt.userID+"/role",
				strings.NewReader(tt.body), tt.actor, map[string]string{"id": tt.userID}))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			f.users.AssertExpectations(t)
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	f := newFixture()
	f.users.On("DeleteUser", mock.Anything, admin, authorID).Return(nil)

	rr := httptest.NewRecorder()
	f.handler.DeleteUser(rr, request(http.MethodDelete, "/api/users/"+authorID, nil, admin, map[string]string{"id": authorID}))

	assert.Equal(t, http.StatusOK, rr.Code)
	f.users.AssertExpectations(t)
}
