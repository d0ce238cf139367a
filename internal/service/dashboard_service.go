package service

import (
	"context"

	"blogbreeze/internal/access"
	"blogbreeze/internal/models"
	"blogbreeze/internal/repository"
)

type DashboardService interface {
	Dashboard(ctx context.Context, actor access.Actor) (*models.Dashboard, error)
}

type dashboardService struct {
	postRepo  repository.PostRepository
	statsRepo repository.StatsRepository
	guard     guard
}

func NewDashboardService(postRepo repository.PostRepository, statsRepo repository.StatsRepository, g guard) DashboardService {
	return &dashboardService{postRepo: postRepo, statsRepo: statsRepo, guard: g}
}

// Dashboard lists the caller's own posts, drafts included, with per-status counts.
func (s *dashboardService) Dashboard(ctx context.Context, actor access.Actor) (*models.Dashboard, error) {
	if err := s.guard.require(actor, models.RoleAuthor, models.RoleAdmin); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.List(ctx, repository.PostFilter{AuthorID: actor.UserID})
	if err != nil {
		return nil, err
	}

	stats, err := s.statsRepo.CountPostsByStatus(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{Posts: posts, Stats: *stats}, nil
}
