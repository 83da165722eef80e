package client

import (
	"context"
	"fmt"
	"strings"
	"sweepstakes-payments/internal/config"

	"github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
)

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*CheckoutSession, error)
	GetCustomerEmail(ctx context.Context, customerID string) (string, error)
}

type CheckoutSession struct {
	ID  string
	URL string
}

type stripeClientImpl struct {
	api *stripeclient.API
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	api := &stripeclient.API{}
	api.Init(stripeCfg.SecretKey, nil)

	return &stripeClientImpl{
		api: api,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*CheckoutSession, error) {
	params.Context = ctx

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

func (c *stripeClientImpl) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	customer, err := c.api.Customers.Get(customerID, params)
	if err != nil {
		return "", fmt.Errorf("stripe get customer: %w", err)
	}
	if customer.Deleted {
		return "", nil
	}

	return strings.TrimSpace(customer.Email), nil
}
