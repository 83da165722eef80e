package repository

import (
	"context"
	"sweepstakes-payments/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepository interface {
	// CreateIfNotExists records the event and reports whether this call
	// inserted it. The stored row is returned either way.
	CreateIfNotExists(ctx context.Context, event *model.WebhookEvent) (bool, *model.WebhookEvent, error)
	MarkProcessed(ctx context.Context, eventID, processingError string) error
}

type webhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryImpl{db: db}
}

func (r *webhookEventRepositoryImpl) CreateIfNotExists(ctx context.Context, event *model.WebhookEvent) (bool, *model.WebhookEvent, error) {
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored model.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", event.EventID).
		First(&stored).Error
	if err != nil {
		return false, nil, translateErr(err)
	}

	return created, &stored, nil
}

func (r *webhookEventRepositoryImpl) MarkProcessed(ctx context.Context, eventID, processingError string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"processed_at":     &now,
			"processing_error": processingError,
		}).Error
}
