package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"blogbreeze/internal/access"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) ValidateToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResolveActor(ctx context.Context, tokenString string) (access.Actor, error) {
	args := m.Called(ctx, tokenString)
	return args.Get(0).(access.Actor), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Me(ctx context.Context, actor access.Actor) (*models.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ChangeRole(ctx context.Context, actor access.Actor, userID string, role models.Role) error {
	args := m.Called(ctx, actor, userID, role)
	return args.Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor access.Actor, req repository.UpdateProfileRequest, avatar *service.ImageUpload) (*models.Profile, error) {
	args := m.Called(ctx, actor, req, avatar)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor access.Actor, userID string) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, actor access.Actor, req repository.CreatePostRequest, image *service.ImageUpload) (*models.Post, error) {
	args := m.Called(ctx, actor, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, actor access.Actor, req repository.UpdatePostRequest, image *service.ImageUpload) (*models.Post, error) {
	args := m.Called(ctx, actor, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, actor access.Actor, postID string) error {
	args := m.Called(ctx, actor, postID)
	return args.Error(0)
}

func (m *MockPostService) TransitionStatus(ctx context.Context, actor access.Actor, postID string, status models.PostStatus) (*models.Post, error) {
	args := m.Called(ctx, actor, postID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, viewer access.Actor, postSlug string) (*models.Post, error) {
	args := m.Called(ctx, viewer, postSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, viewer access.Actor, filter service.ListFilter) ([]models.Post, error) {
	args := m.Called(ctx, viewer, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Submit(ctx context.Context, actor access.Actor, postSlug string, req service.CreateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, actor, postSlug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) ListForPost(ctx context.Context, viewer access.Actor, postSlug string) ([]models.Comment, error) {
	args := m.Called(ctx, viewer, postSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentService) SetApproval(ctx context.Context, actor access.Actor, commentID string, approved bool) error {
	args := m.Called(ctx, actor, commentID, approved)
	return args.Error(0)
}

type MockTaxonomyService struct {
	mock.Mock
}

func (m *MockTaxonomyService) CreateCategory(ctx context.Context, actor access.Actor, req repository.CreateTaxonomyRequest) (*models.Category, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockTaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockTaxonomyService) DeleteCategory(ctx context.Context, actor access.Actor, categorySlug string) error {
	args := m.Called(ctx, actor, categorySlug)
	return args.Error(0)
}

func (m *MockTaxonomyService) CreateTag(ctx context.Context, actor access.Actor, req repository.CreateTaxonomyRequest) (*models.Tag, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTaxonomyService) DeleteTag(ctx context.Context, actor access.Actor, tagSlug string) error {
	args := m.Called(ctx, actor, tagSlug)
	return args.Error(0)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Dashboard(ctx context.Context, actor access.Actor) (*models.Dashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Dashboard), args.Error(1)
}

type MockDB struct {
	mock.Mock
}

func (m *MockDB) CloseDB() error {
	return m.Called().Error(0)
}

func (m *MockDB) RunMigrations(migrationFilePath string) error {
	return m.Called(migrationFilePath).Error(0)
}

func (m *MockDB) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
