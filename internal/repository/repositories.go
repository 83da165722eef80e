package repository

import (
	"sweepstakes-payments/internal/client"

	"gorm.io/gorm"
)

// Repositories groups the entity store accessors the services depend on.
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Tournament   TournamentRepository
	Subscription SubscriptionRepository
	Participant  ParticipantRepository
	WebhookEvent WebhookEventRepository
}

func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Plan:         NewPlanRepository(db),
		Tournament:   NewTournamentRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Participant:  NewParticipantRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}

// NewBase44Repositories backs every repository with the remote entity API.
func NewBase44Repositories(c client.Base44Client) *Repositories {
	base := base44Repo{client: c}
	return &Repositories{
		User:         &base44UserRepo{base},
		Plan:         &base44PlanRepo{base},
		Tournament:   &base44TournamentRepo{base},
		Subscription: &base44SubscriptionRepo{base},
		Participant:  &base44ParticipantRepo{base},
		WebhookEvent: &base44WebhookEventRepo{base},
	}
}
