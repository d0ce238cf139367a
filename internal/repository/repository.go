package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogbreeze/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string, role models.Role) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateRole(ctx context.Context, userID string, role models.Role) error
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagIDs []string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post, tagIDs []string) error
	UpdateStatus(ctx context.Context, postID string, status models.PostStatus) error
	Delete(ctx context.Context, postID string) error
	SlugExists(ctx context.Context, slug, excludePostID string) (bool, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, categoryID string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	GetByIDs(ctx context.Context, tagIDs []string) ([]models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Delete(ctx context.Context, tagID string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	SetApproval(ctx context.Context, commentID string, approved bool) error
}

type StatsRepository interface {
	CountPostsByStatus(ctx context.Context, authorID string) (*models.PostStats, error)
}

// PostFilter narrows a post listing. Empty fields do not filter.
type PostFilter struct {
	CategoryID    string
	TagID         string
	AuthorID      string
	Search        string
	PublishedOnly bool
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Category CategoryRepository
	Tag      TagRepository
	Comment  CommentRepository
	Stats    StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Category: NewCategoryRepository(db),
		Tag:      NewTagRepository(db),
		Comment:  NewCommentRepository(db),
		Stats:    NewStatsRepository(db),
	}
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// isViolation reports whether err is a postgres error with the given code,
// optionally on a specific constraint.
func isViolation(err error, code, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != code {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
