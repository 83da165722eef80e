package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"sweepstakes-payments/internal/model"

	"github.com/stripe/stripe-go/v82"
)

// DecodePaymentEvent normalizes the provider payload of the event types the
// reconciler acts on. Other types come back with only ID and Type set.
func DecodePaymentEvent(event *stripe.Event) (*model.PaymentEvent, error) {
	out := &model.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		if isHandledEvent(out.Type) {
			return nil, fmt.Errorf("%w: event %s has no data object", ErrParse, event.ID)
		}
		return out, nil
	}
	raw := event.Data.Raw

	switch out.Type {
	case model.EventCheckoutSessionCompleted:
		var session model.StripeCheckoutSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("%w: decode checkout session: %w", ErrParse, err)
		}
		out.Metadata = model.CheckoutMetadataFromMap(session.Metadata)
		out.CustomerEmail = firstNonEmpty(session.CustomerDetails.Email, session.CustomerEmail)
		out.CustomerID = session.Customer
		out.AmountMinor = session.AmountTotal
		out.Currency = session.Currency
		out.SessionID = session.ID
		out.SubscriptionRef = session.Subscription

	case model.EventPaymentIntentSucceeded:
		var intent model.StripePaymentIntent
		if err := json.Unmarshal(raw, &intent); err != nil {
			return nil, fmt.Errorf("%w: decode payment intent: %w", ErrParse, err)
		}
		var chargeEmail string
		if len(intent.Charges.Data) > 0 {
			chargeEmail = intent.Charges.Data[0].BillingDetails.Email
		}
		out.Metadata = model.CheckoutMetadataFromMap(intent.Metadata)
		out.CustomerEmail = firstNonEmpty(chargeEmail, intent.ReceiptEmail)
		out.CustomerID = intent.Customer
		out.AmountMinor = intent.AmountReceived
		if out.AmountMinor == 0 {
			out.AmountMinor = intent.Amount
		}
		out.Currency = intent.Currency
		out.SessionID = intent.ID

	case model.EventInvoicePaid:
		var invoice model.StripeInvoice
		if err := json.Unmarshal(raw, &invoice); err != nil {
			return nil, fmt.Errorf("%w: decode invoice: %w", ErrParse, err)
		}
		md := invoice.Metadata
		if len(md) == 0 {
			md = invoice.Parent.SubscriptionDetails.Metadata
		}
		out.Metadata = model.CheckoutMetadataFromMap(md)
		out.CustomerEmail = strings.TrimSpace(invoice.CustomerEmail)
		out.CustomerID = invoice.Customer
		out.AmountMinor = invoice.AmountPaid
		out.Currency = invoice.Currency
		out.SubscriptionRef = firstNonEmpty(invoice.Subscription, invoice.Parent.SubscriptionDetails.Subscription)

	case model.EventCustomerSubscriptionDeleted:
		var sub model.StripeSubscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: decode subscription: %w", ErrParse, err)
		}
		out.Metadata = model.CheckoutMetadataFromMap(sub.Metadata)
		out.CustomerEmail = firstNonEmpty(sub.CustomerEmail, out.Metadata.UserEmail)
		out.CustomerID = sub.Customer
		out.SubscriptionRef = sub.ID
	}

	return out, nil
}

func isHandledEvent(eventType string) bool {
	switch eventType {
	case model.EventCheckoutSessionCompleted,
		model.EventPaymentIntentSucceeded,
		model.EventInvoicePaid,
		model.EventCustomerSubscriptionDeleted:
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
