package repository

import (
	"context"
	"sweepstakes-payments/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, planID string) (*model.SubscriptionPlan, error)
}

type planRepoImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepoImpl{
		db: db,
	}
}

// Seed inserts the default plans for local development.
func (r *planRepoImpl) Seed(ctx context.Context) error {
	plans := []model.SubscriptionPlan{
		{Record: model.Record{ID: "basic"}, Name: "Basic", Price: 4.99, Currency: "USD", DurationMonths: 1, IsActive: true},
		{Record: model.Record{ID: "pro"}, Name: "Pro", Price: 9.99, Currency: "USD", DurationMonths: 1, IsActive: true},
		{Record: model.Record{ID: "pro_annual"}, Name: "Pro Annual", Price: 99.99, Currency: "USD", DurationMonths: 12, IsActive: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&plans).Error
}

func (r *planRepoImpl) FindByID(ctx context.Context, planID string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("id = ?", planID).
		First(&plan).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return &plan, nil
}
