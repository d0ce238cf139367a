package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"blogbreeze/internal/models"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountPostsByStatus(ctx context.Context, authorID string) (*models.PostStats, error) {
	var stats models.PostStats

	err := r.db.GetContext(ctx, &stats, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'draft')     AS draft,
				COUNT(*) FILTER (WHERE status = 'published') AS published,
				COUNT(*)                                     AS total
			FROM posts
			WHERE author_id = $1
		`, authorID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте постов автора: %w", err)
	}

	return &stats, nil
}
