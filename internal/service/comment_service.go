package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/access"
	"blogbreeze/internal/apperrors"
	"blogbreeze/internal/config"
	"blogbreeze/internal/metrics"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
)

type CommentService interface {
	Submit(ctx context.Context, actor access.Actor, postSlug string, req CreateCommentRequest) (*models.Comment, error)
	ListForPost(ctx context.Context, viewer access.Actor, postSlug string) ([]models.Comment, error)
	SetApproval(ctx context.Context, actor access.Actor, commentID string, approved bool) error
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=3,max=1000"`
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cfg         *config.Config
	validate    *validator.Validate
	guard       guard
	metrics     *metrics.Metrics
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	cfg *config.Config,
	validate *validator.Validate,
	g guard,
	m *metrics.Metrics,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cfg:         cfg,
		validate:    validate,
		guard:       g,
		metrics:     m,
	}
}

// visiblePost loads a post by slug, treating drafts the viewer cannot see as missing.
func (s *commentService) visiblePost(ctx context.Context, viewer access.Actor, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if !visibleTo(post, viewer) {
		return nil, fmt.Errorf("пост %s: %w", postSlug, apperrors.ErrNotFound)
	}
	return post, nil
}

// Submit accepts a comment from any signed-in user, whatever their role.
func (s *commentService) Submit(ctx context.Context, actor access.Actor, postSlug string, req CreateCommentRequest) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, s.guard.check(actor, access.Decision{Reason: access.ReasonUnauthenticated})
	}

	req.Content = strings.TrimSpace(req.Content)
	errs, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, err
	}
	if err := errs.OrNil(); err != nil {
		return nil, err
	}

	post, err := s.visiblePost(ctx, actor, postSlug)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     post.PostID,
		UserID:     actor.UserID,
		Content:    req.Content,
		IsApproved: !s.cfg.CommentModeration,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.metrics.CommentSubmitted()
	log.WithFields(log.Fields{
		"comment_id": comment.CommentID,
		"post_id":    post.PostID,
		"user_id":    actor.UserID,
	}).Info("комментарий добавлен")

	return comment, nil
}

func (s *commentService) ListForPost(ctx context.Context, viewer access.Actor, postSlug string) ([]models.Comment, error) {
	post, err := s.visiblePost(ctx, viewer, postSlug)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, post.PostID)
}

func (s *commentService) SetApproval(ctx context.Context, actor access.Actor, commentID string, approved bool) error {
	if err := s.guard.require(actor, models.RoleAdmin); err != nil {
		return err
	}
	return s.commentRepo.SetApproval(ctx, commentID, approved)
}
