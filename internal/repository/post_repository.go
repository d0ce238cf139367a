package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/models"
)

const postSlugConstraint = "posts_slug_key"

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

type CreatePostRequest struct {
	Title       string            `json:"title" validate:"required,min=3,max=200"`
	Content     string            `json:"content" validate:"required,min=10"`
	Description string            `json:"description" validate:"max=300"`
	CategoryID  string            `json:"categoryId" validate:"required,uuid"`
	TagIDs      []string          `json:"tagIds" validate:"dive,uuid"`
	Status      models.PostStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

type UpdatePostRequest struct {
	PostID string `json:"-"`
	CreatePostRequest
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// Create inserts the post and its tag links. A taken slug yields apperrors.ErrSlugTaken.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, tagIDs []string) error {
	query := `
        INSERT INTO posts
        (post_id, author_id, category_id, title, slug, content, description, status, image_url, created_at, updated_at)
        VALUES
        (:post_id, :author_id, :category_id, :title, :slug, :content, :description, :status, :image_url, :created_at, :updated_at)
    `

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, query, post); err != nil {
		if isViolation(err, codeUniqueViolation, postSlugConstraint) {
			return fmt.Errorf("slug %q: %w", post.Slug, apperrors.ErrSlugTaken)
		}
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	if err := insertPostTags(ctx, tx, post.PostID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func insertPostTags(ctx context.Context, tx *sqlx.Tx, postID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка при привязке тега %s: %w", tagID, err)
		}
	}
	return nil
}

func (r *PostRepositoryImpl) getOne(ctx context.Context, query, arg string) (*models.Post, error) {
	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост %s: %w", arg, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	posts := []models.Post{post}
	if err := r.attachRelations(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	return r.getOne(ctx, `SELECT * FROM posts WHERE post_id = $1`, postID)
}

func (r *PostRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.getOne(ctx, `SELECT * FROM posts WHERE slug = $1`, slug)
}

// escapeLike makes user input literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildListQuery returns the listing SQL, newest first, and its arguments.
func buildListQuery(filter PostFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.PublishedOnly {
		conditions = append(conditions, "p.status = "+arg(models.StatusPublished))
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, "p.category_id = "+arg(filter.CategoryID))
	}
	if filter.AuthorID != "" {
		conditions = append(conditions, "p.author_id = "+arg(filter.AuthorID))
	}
	if filter.TagID != "" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.post_id AND pt.tag_id = "+arg(filter.TagID)+")")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := arg("%" + escapeLike(search) + "%")
		conditions = append(conditions, "(p.title ILIKE "+pattern+" OR p.content ILIKE "+pattern+")")
	}

	query := "SELECT p.* FROM posts p"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC"

	return query, args
}

func (r *PostRepositoryImpl) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query, args := buildListQuery(filter)

	posts := []models.Post{}
	if err := r.DB.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при получении списка постов: %w", err)
	}

	if err := r.attachRelations(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

type postTag struct {
	PostID string `db:"post_id"`
	models.Tag
}

// attachRelations batch-loads categories and tags for the given posts.
func (r *PostRepositoryImpl) attachRelations(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, 0, len(posts))
	categoryIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.PostID)
		categoryIDs = append(categoryIDs, p.CategoryID)
	}

	var categories []models.Category
	err := r.DB.SelectContext(ctx, &categories,
		`SELECT * FROM categories WHERE category_id = ANY($1)`, pq.Array(categoryIDs))
	if err != nil {
		return fmt.Errorf("ошибка при получении категорий постов: %w", err)
	}

	byID := make(map[string]*models.Category, len(categories))
	for i := range categories {
		byID[categories[i].CategoryID] = &categories[i]
	}

	var links []postTag
	err = r.DB.SelectContext(ctx, &links, `
		SELECT pt.post_id, t.tag_id, t.name, t.slug, t.description, t.created_at
		FROM post_tags pt
		JOIN tags t ON t.tag_id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name
	`, pq.Array(postIDs))
	if err != nil {
		return fmt.Errorf("ошибка при получении тегов постов: %w", err)
	}

	tags := make(map[string][]models.Tag, len(posts))
	for _, l := range links {
		tags[l.PostID] = append(tags[l.PostID], l.Tag)
	}

	for i := range posts {
		posts[i].Category = byID[posts[i].CategoryID]
		posts[i].Tags = tags[posts[i].PostID]
		if posts[i].Tags == nil {
			posts[i].Tags = []models.Tag{}
		}
	}

	return nil
}

// Update rewrites the editable fields and replaces the tag set. The author never changes.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post, tagIDs []string) error {
	query := `
		UPDATE posts SET
			category_id = :category_id,
			title = :title,
			slug = :slug,
			content = :content,
			description = :description,
			status = :status,
			image_url = :image_url,
			updated_at = :updated_at
		WHERE post_id = :post_id
	`

	post.UpdatedAt = time.Now()

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.NamedExecContext(ctx, query, post)
	if err != nil {
		if isViolation(err, codeUniqueViolation, postSlugConstraint) {
			return fmt.Errorf("slug %q: %w", post.Slug, apperrors.ErrSlugTaken)
		}
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s: %w", post.PostID, apperrors.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, post.PostID); err != nil {
		return fmt.Errorf("ошибка при очистке тегов поста: %w", err)
	}

	if err := insertPostTags(ctx, tx, post.PostID, tagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) UpdateStatus(ctx context.Context, postID string, status models.PostStatus) error {
	query := `
		UPDATE posts SET
			status = $1,
			updated_at = CURRENT_TIMESTAMP
		WHERE post_id = $2
	`

	result, err := r.DB.ExecContext(ctx, query, status, postID)
	if err != nil {
		return fmt.Errorf("ошибка при изменении статуса поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s: %w", postID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.DB.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s: %w", postID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) SlugExists(ctx context.Context, slug, excludePostID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND post_id::text <> $2)`

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, query, slug, excludePostID); err != nil {
		return false, fmt.Errorf("ошибка при проверке slug: %w", err)
	}

	return exists, nil
}
