package repository

import (
	"context"
	"sweepstakes-payments/internal/model"
	"time"

	"gorm.io/gorm"
)

// ParticipantPayment holds the fields written when an entry fee is confirmed.
type ParticipantPayment struct {
	AmountPaid        float64
	PaymentMethod     string
	PaymentDate       time.Time
	ProviderSessionID string
}

type ParticipantRepository interface {
	FindFirst(ctx context.Context, tournamentID, userID string) (*model.TournamentParticipant, error)
	MarkPaid(ctx context.Context, id string, payment ParticipantPayment) error
}

type participantRepoImpl struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepoImpl{
		db: db,
	}
}

func (r *participantRepoImpl) FindFirst(ctx context.Context, tournamentID, userID string) (*model.TournamentParticipant, error) {
	var participant model.TournamentParticipant
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		Order("created_at").
		First(&participant).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return &participant, nil
}

func (r *participantRepoImpl) MarkPaid(ctx context.Context, id string, payment ParticipantPayment) error {
	result := r.db.WithContext(ctx).
		Model(&model.TournamentParticipant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status":      model.PaymentStatusPaid,
			"amount_paid":         payment.AmountPaid,
			"payment_method":      payment.PaymentMethod,
			"payment_date":        payment.PaymentDate,
			"provider_session_id": payment.ProviderSessionID,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
