package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (comment_id, post_id, user_id, content, is_approved, created_at)
		VALUES (:comment_id, :post_id, :user_id, :content, :is_approved, :created_at)
	`

	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		if isViolation(err, codeForeignKeyViolation, "") {
			return fmt.Errorf("пост %s: %w", comment.PostID, apperrors.ErrNotFound)
		}
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

// ListByPost returns every comment of the post, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at ASC`

	comments := []models.Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) SetApproval(ctx context.Context, commentID string, approved bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET is_approved = $1 WHERE comment_id = $2`, approved, commentID)
	if err != nil {
		return fmt.Errorf("ошибка при модерации комментария: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("комментарий %s: %w", commentID, apperrors.ErrNotFound)
	}

	return nil
}
