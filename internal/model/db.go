package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	PaymentMethodStripe = "stripe"
)

// Record carries the identity and timestamps every stored entity shares.
type Record struct {
	ID        string    `gorm:"primaryKey;size:64;not null" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	Record
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName string `gorm:"size:255" json:"full_name"`
	Role     string `gorm:"size:32" json:"role"`
}

type SubscriptionPlan struct {
	Record
	Name           string  `gorm:"size:128;not null" json:"name"`
	Price          float64 `gorm:"not null" json:"price"`
	Currency       string  `gorm:"size:8;not null" json:"currency"`
	DurationMonths int     `gorm:"not null;default:1" json:"duration_months"`
	StripePriceID  string  `gorm:"size:128;index" json:"stripe_price_id"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`
}

type Tournament struct {
	Record
	Name     string  `gorm:"size:255;not null" json:"name"`
	EntryFee float64 `gorm:"not null" json:"entry_fee"`
	Currency string  `gorm:"size:8" json:"currency"`
	Status   string  `gorm:"size:32;index" json:"status"`
}

type Subscription struct {
	Record
	UserEmail       string    `gorm:"size:255;index:idx_subscriptions_user_plan,priority:1;not null" json:"user_email"`
	UserName        string    `gorm:"size:255" json:"user_name"`
	PlanID          string    `gorm:"size:64;index:idx_subscriptions_user_plan,priority:2" json:"plan_id"`
	PlanName        string    `gorm:"size:128" json:"plan_name"`
	Status          string    `gorm:"size:32;index;not null" json:"status"` // active, cancelled
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	NextBillingDate time.Time `json:"next_billing_date"`
	AmountPaid      float64   `json:"amount_paid"`
	Currency        string    `gorm:"size:8" json:"currency"`
	PaymentMethod   string    `gorm:"size:32" json:"payment_method"`
	AutoRenew       bool      `json:"auto_renew"`
}

// TournamentParticipant is created at registration time; payment
// reconciliation only ever updates it.
type TournamentParticipant struct {
	Record
	TournamentID      string     `gorm:"size:64;index:idx_participants_tournament_user,priority:1;not null" json:"tournament_id"`
	UserID            string     `gorm:"size:64;index:idx_participants_tournament_user,priority:2;not null" json:"user_id"`
	UserEmail         string     `gorm:"size:255" json:"user_email"`
	PaymentStatus     string     `gorm:"size:32;index;not null;default:'pending'" json:"payment_status"` // pending, paid
	AmountPaid        float64    `json:"amount_paid"`
	PaymentMethod     string     `gorm:"size:32" json:"payment_method"`
	PaymentDate       *time.Time `json:"payment_date"`
	ProviderSessionID string     `gorm:"size:255" json:"provider_session_id"`
}

// WebhookEvent is the processed-events ledger keyed by the provider event id.
type WebhookEvent struct {
	EventID         string     `gorm:"primaryKey;size:128;not null" json:"event_id"`
	EventType       string     `gorm:"size:64;index" json:"event_type"`
	PayloadJSON     string     `gorm:"type:text" json:"payload_json"`
	SignatureValid  bool       `gorm:"default:false" json:"signature_valid"`
	ProcessedAt     *time.Time `json:"processed_at"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`
}

// Done reports whether a previous delivery of the event finished cleanly.
func (e *WebhookEvent) Done() bool {
	return e.ProcessedAt != nil && e.ProcessingError == ""
}
