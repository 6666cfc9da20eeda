package repositoryImp

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"animeplan/entities"
	"animeplan/pkg/plan/repository"
)

type planRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.PlanRepository { return &planRepo{db} }

// Add inserts the entry unless (user_id, title) already exists. The conflict
// is resolved inside the statement, so a duplicate never reaches the caller.
func (r *planRepo) Add(ctx context.Context, userID int64, title string) error {
	e := entities.PlanEntry{UserID: userID, Title: title}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "title"}},
			DoNothing: true,
		}).
		Create(&e).Error
	if err != nil {
		return fmt.Errorf("add plan entry: %w", err)
	}
	return nil
}

func (r *planRepo) Remove(ctx context.Context, userID int64, title string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND title = ?", userID, title).
		Delete(&entities.PlanEntry{}).Error
	if err != nil {
		return fmt.Errorf("remove plan entry: %w", err)
	}
	return nil
}

func (r *planRepo) Toggle(ctx context.Context, userID int64, title string) error {
	err := r.db.WithContext(ctx).
		Model(&entities.PlanEntry{}).
		Where("user_id = ? AND title = ?", userID, title).
		Update("watched", gorm.Expr("NOT watched")).Error
	if err != nil {
		return fmt.Errorf("toggle plan entry: %w", err)
	}
	return nil
}

// List returns the user's entries in insertion order.
func (r *planRepo) List(ctx context.Context, userID int64) ([]entities.PlanItem, error) {
	out := []entities.PlanItem{}
	err := r.db.WithContext(ctx).
		Model(&entities.PlanEntry{}).
		Select("title", "watched").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list plan: %w", err)
	}
	return out, nil
}
