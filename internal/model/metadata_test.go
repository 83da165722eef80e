package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutMetadata_ToMap(t *testing.T) {
	sub := CheckoutMetadata{
		Type:         CheckoutTypeSubscription,
		UserEmail:    "a@example.com",
		PlanID:       "pro",
		TournamentID: "ignored",
		AppID:        "app-1",
	}.ToMap()
	assert.Equal(t, map[string]string{
		"type":          "subscription",
		"userEmail":     "a@example.com",
		"planId":        "pro",
		"base44_app_id": "app-1",
	}, sub)

	tournament := CheckoutMetadata{
		Type:         CheckoutTypeTournament,
		UserEmail:    "a@example.com",
		TournamentID: "t-1",
	}.ToMap()
	assert.Equal(t, map[string]string{
		"type":         "tournament",
		"userEmail":    "a@example.com",
		"tournamentId": "t-1",
	}, tournament)
}

func TestCheckoutMetadataFromMap(t *testing.T) {
	assert.Equal(t, CheckoutMetadata{}, CheckoutMetadataFromMap(nil))

	md := CheckoutMetadataFromMap(map[string]string{
		"type":      " subscription ",
		"planId":    "pro",
		"userEmail": "a@example.com ",
	})
	assert.Equal(t, CheckoutTypeSubscription, md.Type)
	assert.Equal(t, "pro", md.PlanID)
	assert.Equal(t, "a@example.com", md.UserEmail)
}

func TestWebhookEvent_Done(t *testing.T) {
	assert.False(t, (&WebhookEvent{}).Done())
	now := time.Now()
	assert.False(t, (&WebhookEvent{ProcessedAt: &now, ProcessingError: "boom"}).Done())
	assert.True(t, (&WebhookEvent{ProcessedAt: &now}).Done())
}
