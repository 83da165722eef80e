package repository

import (
	"context"
	"sweepstakes-payments/internal/model"

	"gorm.io/gorm"
)

type TournamentRepository interface {
	FindByID(ctx context.Context, tournamentID string) (*model.Tournament, error)
}

type tournamentRepoImpl struct {
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &tournamentRepoImpl{
		db: db,
	}
}

func (r *tournamentRepoImpl) FindByID(ctx context.Context, tournamentID string) (*model.Tournament, error) {
	var tournament model.Tournament
	err := r.db.WithContext(ctx).
		Where("id = ?", tournamentID).
		First(&tournament).Error
	if err != nil {
		return nil, translateErr(err)
	}

	return &tournament, nil
}
