package repository

import (
	"context"
	"sweepstakes-payments/internal/model"
	"time"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	FindActive(ctx context.Context, userEmail, planID string) (*model.Subscription, error)
	FindFirstByEmail(ctx context.Context, userEmail string) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) FindActive(ctx context.Context, userEmail, planID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_email = ? AND plan_id = ? AND status = ?", userEmail, planID, model.SubscriptionStatusActive).
		Order("created_at").
		First(&sub).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) FindFirstByEmail(ctx context.Context, userEmail string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("created_at").
		First(&sub).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepoImpl) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
