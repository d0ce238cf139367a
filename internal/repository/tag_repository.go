package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/models"
)

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (tag_id, name, slug, description, created_at)
		VALUES (:tag_id, :name, :slug, :description, :created_at)
	`

	if tag.TagID == "" {
		tag.TagID = uuid.New().String()
	}
	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now()
	}

	if _, err := r.db.NamedExecContext(ctx, query, tag); err != nil {
		if isViolation(err, codeUniqueViolation, "") {
			return fmt.Errorf("тег со slug %q: %w", tag.Slug, apperrors.ErrSlugTaken)
		}
		return fmt.Errorf("ошибка создания тега: %w", err)
	}

	return nil
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.GetContext(ctx, &tag, `SELECT * FROM tags WHERE slug = $1`, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("тег %s: %w", slug, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении тега: %w", err)
	}
	return &tag, nil
}

// GetByIDs returns the tags that exist among tagIDs; unknown ids are skipped.
func (r *tagRepository) GetByIDs(ctx context.Context, tagIDs []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(tagIDs) == 0 {
		return tags, nil
	}

	err := r.db.SelectContext(ctx, &tags,
		`SELECT * FROM tags WHERE tag_id::text = ANY($1) ORDER BY name`, pq.Array(tagIDs))
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.SelectContext(ctx, &tags, `SELECT * FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("ошибка при получении тегов: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) Delete(ctx context.Context, tagID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE tag_id = $1`, tagID)
	if err != nil {
		return fmt.Errorf("ошибка удаления тега: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("тег %s: %w", tagID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *tagRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM tags WHERE slug = $1)`, slug)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке slug тега: %w", err)
	}
	return exists, nil
}
