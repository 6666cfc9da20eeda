package service

import (
	"context"
	"errors"

	"animeplan/entities"
)

// ErrEmptyTitle is returned when a plan mutation names no title.
var ErrEmptyTitle = errors.New("title is empty")

type PlanService interface {
	Add(ctx context.Context, userID int64, title string) error
	Remove(ctx context.Context, userID int64, title string) error
	Toggle(ctx context.Context, userID int64, title string) error
	List(ctx context.Context, userID int64) ([]entities.PlanItem, error)

	// ExportXLSX renders the user's plan as a workbook.
	ExportXLSX(ctx context.Context, userID int64) ([]byte, error)
}
