package dto

type CheckoutRequest struct {
	Type         string `json:"type" validate:"required"`
	PriceID      string `json:"priceId"`
	PlanID       string `json:"planId"`
	TournamentID string `json:"tournamentId"`
}

type CheckoutResponse struct {
	SessionURL string `json:"sessionUrl"`
	SessionID  string `json:"sessionId"`
}

// Caller is the authenticated user a request acts for.
type Caller struct {
	UserID string
	Email  string
}

type GeoResponse struct {
	Country  string `json:"country"`
	Currency string `json:"currency"`
	IsPeru   bool   `json:"isPeru"`
	IP       string `json:"ip"`
}

const (
	WebhookStatusProcessed = "processed"
	WebhookStatusDuplicate = "duplicate"
	WebhookStatusIgnored   = "ignored"
)

type WebhookResult struct {
	Status string
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Status   string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
