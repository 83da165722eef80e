package model

import "strings"

type CheckoutType string

const (
	CheckoutTypeSubscription CheckoutType = "subscription"
	CheckoutTypeTournament   CheckoutType = "tournament"
)

// Metadata keys shared between checkout issuance and webhook reconciliation.
const (
	MetadataKeyAppID        = "base44_app_id"
	MetadataKeyType         = "type"
	MetadataKeyPlanID       = "planId"
	MetadataKeyTournamentID = "tournamentId"
	MetadataKeyUserEmail    = "userEmail"
)

type CheckoutMetadata struct {
	Type         CheckoutType
	UserEmail    string
	PlanID       string
	TournamentID string
	AppID        string
}

// ToMap encodes the metadata for a provider checkout session. Only the
// reference matching Type is written.
func (m CheckoutMetadata) ToMap() map[string]string {
	md := map[string]string{
		MetadataKeyType:      string(m.Type),
		MetadataKeyUserEmail: m.UserEmail,
	}
	if m.AppID != "" {
		md[MetadataKeyAppID] = m.AppID
	}

	switch m.Type {
	case CheckoutTypeSubscription:
		md[MetadataKeyPlanID] = m.PlanID
	case CheckoutTypeTournament:
		md[MetadataKeyTournamentID] = m.TournamentID
	}
	return md
}

func CheckoutMetadataFromMap(md map[string]string) CheckoutMetadata {
	if md == nil {
		return CheckoutMetadata{}
	}
	return CheckoutMetadata{
		Type:         CheckoutType(strings.TrimSpace(md[MetadataKeyType])),
		UserEmail:    strings.TrimSpace(md[MetadataKeyUserEmail]),
		PlanID:       strings.TrimSpace(md[MetadataKeyPlanID]),
		TournamentID: strings.TrimSpace(md[MetadataKeyTournamentID]),
		AppID:        strings.TrimSpace(md[MetadataKeyAppID]),
	}
}
