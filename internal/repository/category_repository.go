package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/models"
)

// CreateTaxonomyRequest is the input for both categories and tags.
type CreateTaxonomyRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (category_id, name, slug, description, created_at)
		VALUES (:category_id, :name, :slug, :description, :created_at)
	`

	if category.CategoryID == "" {
		category.CategoryID = uuid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		if isViolation(err, codeUniqueViolation, "") {
			return fmt.Errorf("категория со slug %q: %w", category.Slug, apperrors.ErrSlugTaken)
		}
		return fmt.Errorf("ошибка создания категории: %w", err)
	}

	return nil
}

func (r *categoryRepository) get(ctx context.Context, query, arg string) (*models.Category, error) {
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("категория %s: %w", arg, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	return r.get(ctx, `SELECT * FROM categories WHERE category_id = $1`, categoryID)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.get(ctx, `SELECT * FROM categories WHERE slug = $1`, slug)
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %w", err)
	}
	return categories, nil
}

// Delete refuses to remove a category that posts still reference.
func (r *categoryRepository) Delete(ctx context.Context, categoryID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		if isViolation(err, codeForeignKeyViolation, "") {
			return fmt.Errorf("в категории есть посты: %w", apperrors.ErrInUse)
		}
		return fmt.Errorf("ошибка удаления категории: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("категория %s: %w", categoryID, apperrors.ErrNotFound)
	}

	return nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1)`, slug)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке slug категории: %w", err)
	}
	return exists, nil
}
