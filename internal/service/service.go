package service

import (
	"context"
	"errors"
	"fmt"

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

type Service struct {
	User      UserService
	Post      PostService
	Comment   CommentService
	Auth      AuthService
	Taxonomy  TaxonomyService
	Dashboard DashboardService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, m *metrics.Metrics) *Service {
	v := NewValidator()
	g := guard{metrics: m}

	return &Service{
		User:      NewUserService(rep.User, storage, cfg, v, g),
		Post:      NewPostService(rep.Post, rep.Category, rep.Tag, storage, cfg, v, g, m),
		Comment:   NewCommentService(rep.Comment, rep.Post, cfg, v, g, m),
		Auth:      NewAuthService(rep.User, cfg, v),
		Taxonomy:  NewTaxonomyService(rep.Category, rep.Tag, v, g),
		Dashboard: NewDashboardService(rep.Post, rep.Stats, g),
	}
}

// guard turns access decisions into errors and records denials.
type guard struct {
	metrics *metrics.Metrics
}

func (g guard) check(actor access.Actor, d access.Decision) error {
	if d.Allowed {
		return nil
	}

	g.metrics.AccessDenied(string(d.Reason))

	entry := log.WithFields(log.Fields{
		"user_id": actor.UserID,
		"reason":  d.Reason,
	})
	if d.Reason == access.ReasonNoProfile {
		entry.Error("у пользователя нет профиля роли")
	} else {
		entry.Debug("доступ запрещен")
	}

	return d.Err()
}

func (g guard) require(actor access.Actor, roles ...models.Role) error {
	return g.check(actor, access.Evaluate(actor, roles...))
}

func (g guard) requireOwner(actor access.Actor, ownerID string) error {
	return g.check(actor, access.EvaluateOwnership(actor, ownerID))
}

// maxSlugAttempts bounds how often a write is retried after losing a slug race.
const maxSlugAttempts = 5

// writeWithUniqueSlug picks the first free candidate for base and calls write with it.
// If write still hits the unique constraint, the next suffix is tried.
func writeWithUniqueSlug(
	ctx context.Context,
	base string,
	exists func(ctx context.Context, candidate string) (bool, error),
	write func(candidate string) error,
) error {
	n := 0
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		for {
			taken, err := exists(ctx, slug.Candidate(base, n))
			if err != nil {
				return err
			}
			if !taken {
				break
			}
			n++
		}

		err := write(slug.Candidate(base, n))
		if !errors.Is(err, apperrors.ErrSlugTaken) {
			return err
		}

		log.WithField("slug", slug.Candidate(base, n)).Warn("slug занят параллельной записью, пробуем следующий")
		n++
	}

	return fmt.Errorf("не удалось подобрать свободный slug для %q: %w", base, apperrors.ErrConflict)
}
