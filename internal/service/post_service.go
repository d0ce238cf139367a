package service

import (
	"context"
	"errors"
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
	"blogbreeze/internal/slug"
	"blogbreeze/internal/storage"
)

type PostService interface {
	CreatePost(ctx context.Context, actor access.Actor, req repository.CreatePostRequest, image *ImageUpload) (*models.Post, error)
	UpdatePost(ctx context.Context, actor access.Actor, req repository.UpdatePostRequest, image *ImageUpload) (*models.Post, error)
	DeletePost(ctx context.Context, actor access.Actor, postID string) error
	TransitionStatus(ctx context.Context, actor access.Actor, postID string, status models.PostStatus) (*models.Post, error)
	GetPost(ctx context.Context, viewer access.Actor, postSlug string) (*models.Post, error)
	ListPosts(ctx context.Context, viewer access.Actor, filter ListFilter) ([]models.Post, error)
}

// ListFilter selects posts by taxonomy slugs and a free-text query.
type ListFilter struct {
	CategorySlug string
	TagSlug      string
	Search       string
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	storage      storage.Storage
	cfg          *config.Config
	validate     *validator.Validate
	guard        guard
	metrics      *metrics.Metrics
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	storage storage.Storage,
	cfg *config.Config,
	validate *validator.Validate,
	g guard,
	m *metrics.Metrics,
) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		storage:      storage,
		cfg:          cfg,
		validate:     validate,
		guard:        g,
		metrics:      m,
	}
}

// normalizePostRequest trims the input. An empty status becomes defaultStatus.
func normalizePostRequest(req *repository.CreatePostRequest, defaultStatus models.PostStatus) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	req.Description = strings.TrimSpace(req.Description)
	req.CategoryID = strings.TrimSpace(req.CategoryID)
	if req.Status == "" {
		req.Status = defaultStatus
	}

	seen := make(map[string]bool, len(req.TagIDs))
	tagIDs := make([]string, 0, len(req.TagIDs))
	for _, id := range req.TagIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		tagIDs = append(tagIDs, id)
	}
	req.TagIDs = tagIDs
}

// validatePost collects every field failure of the input, including
// references to categories and tags that do not exist.
func (s *postService) validatePost(ctx context.Context, req *repository.CreatePostRequest, image *ImageUpload) (*models.Category, []models.Tag, error) {
	errs, err := validateStruct(s.validate, req)
	if err != nil {
		return nil, nil, err
	}

	var category *models.Category
	if !errs.Has("categoryId") {
		category, err = s.categoryRepo.GetByID(ctx, req.CategoryID)
		if errors.Is(err, apperrors.ErrNotFound) {
			errs.Add("categoryId", "категория не найдена")
		} else if err != nil {
			return nil, nil, err
		}
	}

	tags := []models.Tag{}
	if len(req.TagIDs) > 0 && !errs.Has("tagIds") {
		tags, err = s.tagRepo.GetByIDs(ctx, req.TagIDs)
		if err != nil {
			return nil, nil, err
		}
		if len(tags) != len(req.TagIDs) {
			errs.Add("tagIds", "указаны несуществующие теги")
		}
	}

	validateImage(&errs, "image", image, s.cfg.MaxImageSize)

	if err := errs.OrNil(); err != nil {
		return nil, nil, err
	}
	return category, tags, nil
}

func (s *postService) CreatePost(ctx context.Context, actor access.Actor, req repository.CreatePostRequest, image *ImageUpload) (*models.Post, error) {
	if err := s.guard.require(actor, models.RoleAuthor, models.RoleAdmin); err != nil {
		return nil, err
	}

	normalizePostRequest(&req, models.StatusDraft)
	category, tags, err := s.validatePost(ctx, &req, image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:    actor.UserID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Status:      req.Status,
	}

	if image != nil {
		post.ImageURL, err = s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
	}

	err = writeWithUniqueSlug(ctx, slug.MakeOrFallback(post.Title),
		func(ctx context.Context, candidate string) (bool, error) {
			return s.postRepo.SlugExists(ctx, candidate, "")
		},
		func(candidate string) error {
			post.Slug = candidate
			return s.postRepo.Create(ctx, post, req.TagIDs)
		})
	if err != nil {
		s.discardImage(ctx, post.ImageURL)
		return nil, err
	}

	post.Category = category
	post.Tags = tags

	log.WithFields(log.Fields{
		"post_id":   post.PostID,
		"slug":      post.Slug,
		"author_id": post.AuthorID,
		"status":    post.Status,
	}).Info("пост создан")

	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, actor access.Actor, req repository.UpdatePostRequest, image *ImageUpload) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.requireOwner(actor, post.AuthorID); err != nil {
		return nil, err
	}

	normalizePostRequest(&req.CreatePostRequest, post.Status)
	category, tags, err := s.validatePost(ctx, &req.CreatePostRequest, image)
	if err != nil {
		return nil, err
	}

	wasPublished := post.Status == models.StatusPublished
	titleChanged := post.Title != req.Title

	post.Title = req.Title
	post.Content = req.Content
	post.Description = req.Description
	post.CategoryID = req.CategoryID
	post.Status = req.Status

	oldImageURL := ""
	if image != nil {
		newImageURL, err := s.uploadImage(ctx, image)
		if err != nil {
			return nil, err
		}
		oldImageURL = post.ImageURL
		post.ImageURL = newImageURL
	}

	if post.Slug == "" || titleChanged {
		err = writeWithUniqueSlug(ctx, slug.MakeOrFallback(post.Title),
			func(ctx context.Context, candidate string) (bool, error) {
				return s.postRepo.SlugExists(ctx, candidate, post.PostID)
			},
			func(candidate string) error {
				post.Slug = candidate
				return s.postRepo.Update(ctx, post, req.TagIDs)
			})
	} else {
		err = s.postRepo.Update(ctx, post, req.TagIDs)
	}
	if err != nil {
		if image != nil {
			s.discardImage(ctx, post.ImageURL)
		}
		return nil, err
	}

	s.discardImage(ctx, oldImageURL)

	post.Category = category
	post.Tags = tags

	if !wasPublished && post.Status == models.StatusPublished {
		s.onPublished(post)
	}

	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, actor access.Actor, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.guard.requireOwner(actor, post.AuthorID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.discardImage(ctx, post.ImageURL)

	log.WithFields(log.Fields{
		"post_id": postID,
		"user_id": actor.UserID,
	}).Info("пост удален")

	return nil
}

func (s *postService) TransitionStatus(ctx context.Context, actor access.Actor, postID string, status models.PostStatus) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.requireOwner(actor, post.AuthorID); err != nil {
		return nil, err
	}

	if !status.Valid() {
		var errs apperrors.ValidationErrors
		errs.Add("status", "допустимые значения: draft published")
		return nil, errs
	}

	if post.Status == status {
		return post, nil
	}

	if err := s.postRepo.UpdateStatus(ctx, postID, status); err != nil {
		return nil, err
	}

	post.Status = status
	if status == models.StatusPublished {
		s.onPublished(post)
	}

	return post, nil
}

// visibleTo hides drafts from everyone but their author and admins.
func visibleTo(post *models.Post, viewer access.Actor) bool {
	if post.Status == models.StatusPublished || viewer.IsAdmin() {
		return true
	}
	return viewer.Authenticated() && viewer.UserID == post.AuthorID
}

func (s *postService) GetPost(ctx context.Context, viewer access.Actor, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if !visibleTo(post, viewer) {
		return nil, fmt.Errorf("пост %s: %w", postSlug, apperrors.ErrNotFound)
	}

	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, viewer access.Actor, filter ListFilter) ([]models.Post, error) {
	query := repository.PostFilter{
		Search:        strings.TrimSpace(filter.Search),
		PublishedOnly: !viewer.IsAdmin(),
	}

	if filter.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(ctx, filter.CategorySlug)
		if err != nil {
			return nil, err
		}
		query.CategoryID = category.CategoryID
	}

	if filter.TagSlug != "" {
		tag, err := s.tagRepo.GetBySlug(ctx, filter.TagSlug)
		if err != nil {
			return nil, err
		}
		query.TagID = tag.TagID
	}

	return s.postRepo.List(ctx, query)
}

func (s *postService) onPublished(post *models.Post) {
	s.metrics.PostPublished()

	log.WithFields(log.Fields{
		"post_id":   post.PostID,
		"slug":      post.Slug,
		"title":     post.Title,
		"author_id": post.AuthorID,
	}).Info("пост опубликован")
}

func (s *postService) uploadImage(ctx context.Context, image *ImageUpload) (string, error) {
	_, imageURL, err := s.storage.UploadImage(ctx, "posts", image.FileName, image.Body, image.Size)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки изображения: %w", err)
	}
	s.metrics.ImageUploaded(image.Size)
	return imageURL, nil
}

// discardImage removes a stored image. Failures are only logged.
func (s *postService) discardImage(ctx context.Context, imageURL string) {
	discardObject(ctx, s.storage, imageURL)
}

func discardObject(ctx context.Context, store storage.Storage, objectURL string) {
	if objectURL == "" || store == nil {
		return
	}

	objectName, ok := store.ObjectNameFromURL(objectURL)
	if !ok {
		return
	}

	if err := store.DeleteImage(ctx, objectName); err != nil {
		log.WithError(err).WithField("object", objectName).Warn("не удалось удалить изображение из хранилища")
	}
}
