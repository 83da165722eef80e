package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sweepstakes-payments/internal/client"
	"sweepstakes-payments/internal/model"
	"time"
)

// Entity names in the base44 app schema.
const (
	entityUser                  = "User"
	entitySubscriptionPlan      = "SubscriptionPlan"
	entityTournament            = "Tournament"
	entitySubscription          = "Subscription"
	entityTournamentParticipant = "TournamentParticipant"
	entityWebhookEvent          = "ProcessedWebhookEvent"
)

// looseTime accepts the timestamp layouts the entity API emits.
type looseTime struct {
	time.Time
}

func (t *looseTime) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse time %q", raw)
}

func (t looseTime) ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

type base44Subscription struct {
	ID              string    `json:"id"`
	UserEmail       string    `json:"user_email"`
	UserName        string    `json:"user_name"`
	PlanID          string    `json:"plan_id"`
	PlanName        string    `json:"plan_name"`
	Status          string    `json:"status"`
	StartDate       looseTime `json:"start_date"`
	EndDate         looseTime `json:"end_date"`
	NextBillingDate looseTime `json:"next_billing_date"`
	AmountPaid      float64   `json:"amount_paid"`
	Currency        string    `json:"currency"`
	PaymentMethod   string    `json:"payment_method"`
	AutoRenew       bool      `json:"auto_renew"`
}

func (s *base44Subscription) toModel() *model.Subscription {
	return &model.Subscription{
		Record:          model.Record{ID: s.ID},
		UserEmail:       s.UserEmail,
		UserName:        s.UserName,
		PlanID:          s.PlanID,
		PlanName:        s.PlanName,
		Status:          s.Status,
		StartDate:       s.StartDate.Time,
		EndDate:         s.EndDate.Time,
		NextBillingDate: s.NextBillingDate.Time,
		AmountPaid:      s.AmountPaid,
		Currency:        s.Currency,
		PaymentMethod:   s.PaymentMethod,
		AutoRenew:       s.AutoRenew,
	}
}

type base44Participant struct {
	ID                string    `json:"id"`
	TournamentID      string    `json:"tournament_id"`
	UserID            string    `json:"user_id"`
	UserEmail         string    `json:"user_email"`
	PaymentStatus     string    `json:"payment_status"`
	AmountPaid        float64   `json:"amount_paid"`
	PaymentMethod     string    `json:"payment_method"`
	PaymentDate       looseTime `json:"payment_date"`
	ProviderSessionID string    `json:"provider_session_id"`
}

func (p *base44Participant) toModel() *model.TournamentParticipant {
	return &model.TournamentParticipant{
		Record:            model.Record{ID: p.ID},
		TournamentID:      p.TournamentID,
		UserID:            p.UserID,
		UserEmail:         p.UserEmail,
		PaymentStatus:     p.PaymentStatus,
		AmountPaid:        p.AmountPaid,
		PaymentMethod:     p.PaymentMethod,
		PaymentDate:       p.PaymentDate.ptr(),
		ProviderSessionID: p.ProviderSessionID,
	}
}

type base44WebhookEvent struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	PayloadJSON     string    `json:"payload_json"`
	SignatureValid  bool      `json:"signature_valid"`
	ProcessedAt     looseTime `json:"processed_at"`
	ProcessingError string    `json:"processing_error"`
}

func (e *base44WebhookEvent) toModel() *model.WebhookEvent {
	return &model.WebhookEvent{
		EventID:         e.EventID,
		EventType:       e.EventType,
		PayloadJSON:     e.PayloadJSON,
		SignatureValid:  e.SignatureValid,
		ProcessedAt:     e.ProcessedAt.ptr(),
		ProcessingError: e.ProcessingError,
	}
}

type base44Repo struct {
	client client.Base44Client
}

// first runs a filter and returns the oldest match.
func first[T any](ctx context.Context, c client.Base44Client, entity string, query map[string]interface{}) (*T, error) {
	var records []T
	if err := c.Filter(ctx, entity, query, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

type base44UserRepo struct{ base44Repo }

func (r *base44UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](ctx, r.client, entityUser, map[string]interface{}{"email": email})
}

type base44PlanRepo struct{ base44Repo }

// Seed is a no-op: plans are managed in the base44 dashboard.
func (r *base44PlanRepo) Seed(ctx context.Context) error {
	return nil
}

func (r *base44PlanRepo) FindByID(ctx context.Context, planID string) (*model.SubscriptionPlan, error) {
	return first[model.SubscriptionPlan](ctx, r.client, entitySubscriptionPlan, map[string]interface{}{"id": planID})
}

type base44TournamentRepo struct{ base44Repo }

func (r *base44TournamentRepo) FindByID(ctx context.Context, tournamentID string) (*model.Tournament, error) {
	return first[model.Tournament](ctx, r.client, entityTournament, map[string]interface{}{"id": tournamentID})
}

type base44SubscriptionRepo struct{ base44Repo }

func (r *base44SubscriptionRepo) FindActive(ctx context.Context, userEmail, planID string) (*model.Subscription, error) {
	sub, err := first[base44Subscription](ctx, r.client, entitySubscription, map[string]interface{}{
		"user_email": userEmail,
		"plan_id":    planID,
		"status":     model.SubscriptionStatusActive,
	})
	if err != nil {
		return nil, err
	}
	return sub.toModel(), nil
}

func (r *base44SubscriptionRepo) FindFirstByEmail(ctx context.Context, userEmail string) (*model.Subscription, error) {
	sub, err := first[base44Subscription](ctx, r.client, entitySubscription, map[string]interface{}{"user_email": userEmail})
	if err != nil {
		return nil, err
	}
	return sub.toModel(), nil
}

func (r *base44SubscriptionRepo) Create(ctx context.Context, sub *model.Subscription) error {
	fields := map[string]interface{}{
		"user_email":        sub.UserEmail,
		"user_name":         sub.UserName,
		"plan_id":           sub.PlanID,
		"plan_name":         sub.PlanName,
		"status":            sub.Status,
		"start_date":        sub.StartDate.Format(time.RFC3339),
		"end_date":          sub.EndDate.Format(time.RFC3339),
		"next_billing_date": sub.NextBillingDate.Format(time.RFC3339),
		"amount_paid":       sub.AmountPaid,
		"currency":          sub.Currency,
		"payment_method":    sub.PaymentMethod,
		"auto_renew":        sub.AutoRenew,
	}
	var created base44Subscription
	if err := r.client.Create(ctx, entitySubscription, fields, &created); err != nil {
		return err
	}
	sub.ID = created.ID
	return nil
}

func (r *base44SubscriptionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.client.Update(ctx, entitySubscription, id, map[string]interface{}{"status": status}, nil)
}

type base44ParticipantRepo struct{ base44Repo }

func (r *base44ParticipantRepo) FindFirst(ctx context.Context, tournamentID, userID string) (*model.TournamentParticipant, error) {
	participant, err := first[base44Participant](ctx, r.client, entityTournamentParticipant, map[string]interface{}{
		"tournament_id": tournamentID,
		"user_id":       userID,
	})
	if err != nil {
		return nil, err
	}
	return participant.toModel(), nil
}

func (r *base44ParticipantRepo) MarkPaid(ctx context.Context, id string, payment ParticipantPayment) error {
	return r.client.Update(ctx, entityTournamentParticipant, id, map[string]interface{}{
		"payment_status":      model.PaymentStatusPaid,
		"amount_paid":         payment.AmountPaid,
		"payment_method":      payment.PaymentMethod,
		"payment_date":        payment.PaymentDate.Format(time.RFC3339),
		"provider_session_id": payment.ProviderSessionID,
	}, nil)
}

// base44WebhookEventRepo is check-then-create: the remote store offers no
// unique constraint, so two concurrent deliveries can both insert.
type base44WebhookEventRepo struct{ base44Repo }

func (r *base44WebhookEventRepo) find(ctx context.Context, eventID string) (*base44WebhookEvent, error) {
	return first[base44WebhookEvent](ctx, r.client, entityWebhookEvent, map[string]interface{}{"event_id": eventID})
}

func (r *base44WebhookEventRepo) CreateIfNotExists(ctx context.Context, event *model.WebhookEvent) (bool, *model.WebhookEvent, error) {
	stored, err := r.find(ctx, event.EventID)
	if err == nil {
		return false, stored.toModel(), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, nil, err
	}

	var created base44WebhookEvent
	err = r.client.Create(ctx, entityWebhookEvent, map[string]interface{}{
		"event_id":        event.EventID,
		"event_type":      event.EventType,
		"payload_json":    event.PayloadJSON,
		"signature_valid": event.SignatureValid,
	}, &created)
	if err != nil {
		return false, nil, err
	}

	return true, created.toModel(), nil
}

func (r *base44WebhookEventRepo) MarkProcessed(ctx context.Context, eventID, processingError string) error {
	stored, err := r.find(ctx, eventID)
	if err != nil {
		return err
	}

	return r.client.Update(ctx, entityWebhookEvent, stored.ID, map[string]interface{}{
		"processed_at":     time.Now().Format(time.RFC3339),
		"processing_error": processingError,
	}, nil)
}
