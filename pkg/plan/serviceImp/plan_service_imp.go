package serviceImp

import (
	"context"
	"strings"

	"animeplan/entities"
	planrepo "animeplan/pkg/plan/repository"
	"animeplan/pkg/plan/service"
)

type PlanSvc struct {
	repo planrepo.PlanRepository
}

func NewPlanService(r planrepo.PlanRepository) *PlanSvc {
	return &PlanSvc{repo: r}
}

var _ service.PlanService = (*PlanSvc)(nil)

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", service.ErrEmptyTitle
	}
	return t, nil
}

func (s *PlanSvc) Add(ctx context.Context, userID int64, title string) error {
	t, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	return s.repo.Add(ctx, userID, t)
}

func (s *PlanSvc) Remove(ctx context.Context, userID int64, title string) error {
	t, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	return s.repo.Remove(ctx, userID, t)
}

func (s *PlanSvc) Toggle(ctx context.Context, userID int64, title string) error {
	t, err := normalizeTitle(title)
	if err != nil {
		return err
	}
	return s.repo.Toggle(ctx, userID, t)
}

func (s *PlanSvc) List(ctx context.Context, userID int64) ([]entities.PlanItem, error) {
	return s.repo.List(ctx, userID)
}
