package repository

import (
	"context"

	"animeplan/entities"
)

// PlanRepository is the durable watch plan, keyed by user id.
// Add, Remove and Toggle are no-ops when there is nothing to do; only
// storage failures are returned as errors.
type PlanRepository interface {
	Add(ctx context.Context, userID int64, title string) error
	Remove(ctx context.Context, userID int64, title string) error
	Toggle(ctx context.Context, userID int64, title string) error
	List(ctx context.Context, userID int64) ([]entities.PlanItem, error)
}
