package model

const (
	EventCheckoutSessionCompleted    = "checkout.session.completed"
	EventPaymentIntentSucceeded      = "payment_intent.succeeded"
	EventInvoicePaid                 = "invoice.paid"
	EventCustomerSubscriptionDeleted = "customer.subscription.deleted"
)

// PaymentEvent is the provider-neutral shape reconciliation works on.
type PaymentEvent struct {
	ID              string
	Type            string
	Metadata        CheckoutMetadata
	CustomerEmail   string
	CustomerID      string
	AmountMinor     int64
	Currency        string
	SessionID       string
	SubscriptionRef string
}

type StripeCustomerDetails struct {
	Email string `json:"email"`
}

type StripeCheckoutSession struct {
	ID              string                `json:"id"`
	Mode            string                `json:"mode"`
	Customer        string                `json:"customer"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerDetails StripeCustomerDetails `json:"customer_details"`
	AmountTotal     int64                 `json:"amount_total"`
	Currency        string                `json:"currency"`
	Subscription    string                `json:"subscription"`
	Metadata        map[string]string     `json:"metadata"`
}

type StripeBillingDetails struct {
	Email string `json:"email"`
}

type StripeCharge struct {
	ID             string               `json:"id"`
	BillingDetails StripeBillingDetails `json:"billing_details"`
}

type StripePaymentIntent struct {
	ID             string            `json:"id"`
	Amount         int64             `json:"amount"`
	AmountReceived int64             `json:"amount_received"`
	Currency       string            `json:"currency"`
	Customer       string            `json:"customer"`
	ReceiptEmail   string            `json:"receipt_email"`
	Metadata       map[string]string `json:"metadata"`
	Charges        struct {
		Data []StripeCharge `json:"data"`
	} `json:"charges"`
}

type StripeInvoice struct {
	ID            string            `json:"id"`
	Customer      string            `json:"customer"`
	CustomerEmail string            `json:"customer_email"`
	AmountPaid    int64             `json:"amount_paid"`
	Currency      string            `json:"currency"`
	Subscription  string            `json:"subscription"`
	Metadata      map[string]string `json:"metadata"`
	Parent        struct {
		SubscriptionDetails struct {
			Subscription string            `json:"subscription"`
			Metadata     map[string]string `json:"metadata"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

type StripeSubscription struct {
	ID            string            `json:"id"`
	Customer      string            `json:"customer"`
	CustomerEmail string            `json:"customer_email"`
	Status        string            `json:"status"`
	Metadata      map[string]string `json:"metadata"`
}
