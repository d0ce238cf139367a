package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"blogbreeze/internal/access"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
	"blogbreeze/internal/slug"
)

type TaxonomyService interface {
	CreateCategory(ctx context.Context, actor access.Actor, req repository.CreateTaxonomyRequest) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, actor access.Actor, categorySlug string) error
	CreateTag(ctx context.Context, actor access.Actor, req repository.CreateTaxonomyRequest) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, actor access.Actor, tagSlug string) error
}

type taxonomyService struct {
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	validate     *validator.Validate
	guard        guard
}

func NewTaxonomyService(
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	validate *validator.Validate,
	g guard,
) TaxonomyService {
	return &taxonomyService{
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		validate:     validate,
		guard:        g,
	}
}

// prepare checks the caller is an admin and the input is valid.
func (s *taxonomyService) prepare(actor access.Actor, req *repository.CreateTaxonomyRequest) error {
	if err := s.guard.require(actor, models.RoleAdmin); err != nil {
		return err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)

	errs, err := validateStruct(s.validate, req)
	if err != nil {
		return err
	}
	return errs.OrNil()
}

// taxonomySlug is the slug base for a category or tag name.
func taxonomySlug(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return "term"
}

func (s *taxonomyService) CreateCategory(ctx context.Context, actor access.Actor, req repository.CreateTaxonomyRequest) (*models.Category, error) {
	if err := s.prepare(actor, &req); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Description: req.Description}
	err := writeWithUniqueSlug(ctx, taxonomySlug(req.Name), s.categoryRepo.SlugExists,
		func(candidate string) error {
			category.Slug = candidate
			return s.categoryRepo.Create(ctx, category)
		})
	if err != nil {
		return nil, err
	}

	log.WithField("slug", category.Slug).Info("категория создана")
	return category, nil
}

func (s *taxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *taxonomyService) DeleteCategory(ctx context.Context, actor access.Actor, categorySlug string) error {
	if err := s.guard.require(actor, models.RoleAdmin); err != nil {
		return err
	}

	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return err
	}

	return s.categoryRepo.Delete(ctx, category.CategoryID)
}

func (s *taxonomyService) CreateTag(ctx context.Context, actor access.Actor, req repository.CreateTaxonomyRequest) (*models.Tag, error) {
	if err := s.prepare(actor, &req); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: req.Name, Description: req.Description}
	err := writeWithUniqueSlug(ctx, taxonomySlug(req.Name), s.tagRepo.SlugExists,
		func(candidate string) error {
			tag.Slug = candidate
			return s.tagRepo.Create(ctx, tag)
		})
	if err != nil {
		return nil, err
	}

	log.WithField("slug", tag.Slug).Info("тег создан")
	return tag, nil
}

func (s *taxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *taxonomyService) DeleteTag(ctx context.Context, actor access.Actor, tagSlug string) error {
	if err := s.guard.require(actor, models.RoleAdmin); err != nil {
		return err
	}

	tag, err := s.tagRepo.GetBySlug(ctx, tagSlug)
	if err != nil {
		return err
	}

	return s.tagRepo.Delete(ctx, tag.TagID)
}
