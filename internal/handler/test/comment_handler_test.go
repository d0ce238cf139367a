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
	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/service"
)

const commentID = "e0000000-0000-0000-0000-000000000001"

func TestGetCommentsHandler(t *testing.T) {
	f := newFixture()
	f.comments.On("ListForPost", mock.Anything, access.Anonymous(), "hello-world").
		Return([]models.Comment{{CommentID: commentID, Content: "Отлично"}}, nil)

	rr := httptest.NewRecorder()
	f.handler.GetComments(rr, request(http.MethodGet, "/api/posts/hello-world/comments", nil, access.Anonymous(),
		map[string]string{"slug": "hello-world"}))

	require.Equal(t, http.StatusOK, rr.Code)

	var body []models.Comment
	decodeBody(t, rr, &body)
	assert.Len(t, body, 1)
}

func TestCreateCommentHandler(t *testing.T) {
	tests := []struct {
		name           string
		actor          access.Actor
		body           string
		mockSetup      func(*MockCommentService)
		expectedStatus int
	}{
		{
			name:  "Комментарий добавлен",
			actor: author,
			body:  `{"content":"Отличная статья"}`,
			mockSetup: func(s *MockCommentService) {
				s.On("Submit", mock.Anything, author, "hello-world", service.CreateCommentRequest{Content: "Отличная статья"}).
					Return(&models.Comment{CommentID: commentID, IsApproved: true}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "Аноним",
			actor: access.Anonymous(),
			body:  `{"content":"Отличная статья"}`,
			mockSetup: func(s *MockCommentService) {
				s.On("Submit", mock.Anything, access.Anonymous(), "hello-world", mock.Anything).
					Return(nil, access.Decision{Reason: access.ReasonUnauthenticated}.Err())
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "Слишком длинный",
			actor: author,
			body:  `{"content":"` + strings.Repeat("a", 1001) + `"}`,
			mockSetup: func(s *MockCommentService) {
				var errs apperrors.ValidationErrors
				errs.Add("content", "максимальная длина 1000 символов")
				s.On("Submit", mock.Anything, author, "hello-world", mock.Anything).Return(nil, errs)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.mockSetup(f.comments)

			rr := httptest.NewRecorder()
			f.handler.CreateComment(rr, request(http.MethodPost, "/api/posts/hello-world/comments",
				strings.NewReader(tt.body), tt.actor, map[string]string{"slug": "hello-world"}))

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestSetCommentApprovalHandler(t *testing.T) {
	t.Run("Без поля approved", func(t *testing.T) {
		f := newFixture()

		rr := httptest.NewRecorder()
		f.handler.SetCommentApproval(rr, request(http.MethodPatch, "/api/comments/"+commentID+"/approval",
			strings.NewReader(`{}`), admin, map[string]string{"id": commentID}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Снятие одобрения", func(t *testing.T) {
		f := newFixture()
		f.comments.On("SetApproval", mock.Anything, admin, commentID, false).Return(nil)

		rr := httptest.NewRecorder()
		f.handler.SetCommentApproval(rr, request(http.MethodPatch, "/api/comments/"+commentID+"/approval",
			strings.NewReader(`{"approved":false}`), admin, map[string]string{"id": commentID}))

		assert.Equal(t, http.StatusOK, rr.Code)
		f.comments.AssertExpectations(t)
	})
}

func TestTaxonomyHandlers(t *testing.T) {
	t.Run("Список категорий", func(t *testing.T) {
		f := newFixture()
		f.taxonomy.On("ListCategories", mock.Anything).Return([]models.Category{{Name: "Go", Slug: "go"}}, nil)

		rr := httptest.NewRecorder()
		f.handler.GetCategories(rr, request(http.MethodGet, "/api/categories", nil, access.Anonymous(), nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body []models.Category
		decodeBody(t, rr, &body)
		assert.Equal(t, "go", body[0].Slug)
	})

	t.Run("Создание тега", func(t *testing.T) {
		f := newFixture()
		f.taxonomy.On("CreateTag", mock.Anything, admin, repository.CreateTaxonomyRequest{Name: "PostgreSQL"}).
			Return(&models.Tag{Name: "PostgreSQL", Slug: "postgresql"}, nil)

		rr := httptest.NewRecorder()
		f.handler.CreateTag(rr, request(http.MethodPost, "/api/tags", strings.NewReader(`{"name":"PostgreSQL"}`), admin, nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Категория используется", func(t *testing.T) {
		f := newFixture()
		f.taxonomy.On("DeleteCategory", mock.Anything, admin, "go").Return(apperrors.ErrInUse)

		rr := httptest.NewRecorder()
		f.handler.DeleteCategory(rr, request(http.MethodDelete, "/api/categories/go", nil, admin, map[string]string{"slug": "go"}))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Удаление тега", func(t *testing.T) {
		f := newFixture()
		f.taxonomy.On("DeleteTag", mock.Anything, admin, "go").Return(nil)

		rr := httptest.NewRecorder()
		f.handler.DeleteTag(rr, request(http.MethodDelete, "/api/tags/go", nil, admin, map[string]string{"slug": "go"}))

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Создание категории читателем", func(t *testing.T) {
		reader := access.Actor{UserID: "r1", Role: models.RoleReader}
		f := newFixture()
		f.taxonomy.On("CreateCategory", mock.Anything, reader, mock.Anything).
			Return(nil, access.Decision{Reason: access.ReasonRoleNotPermitted}.Err())

		rr := httptest.NewRecorder()
		f.handler.CreateCategory(rr, request(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"Go"}`), reader, nil))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Список тегов", func(t *testing.T) {
		f := newFixture()
		f.taxonomy.On("ListTags", mock.Anything).Return([]models.Tag{}, nil)

		rr := httptest.NewRecorder()
		f.handler.GetTags(rr, request(http.MethodGet, "/api/tags", nil, access.Anonymous(), nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
