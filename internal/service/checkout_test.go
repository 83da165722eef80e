package service

import (
	"context"
	"errors"
	"sweepstakes-payments/internal/dto"
	"sweepstakes-payments/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

func newCheckoutService(t *testing.T, stripeClient *fakeStripeClient) (CheckoutService, *fakeStripeClient) {
	t.Helper()
	return newCheckoutServiceWithCurrency(t, stripeClient, "USD")
}

func newCheckoutServiceWithCurrency(t *testing.T, stripeClient *fakeStripeClient, currency string) (CheckoutService, *fakeStripeClient) {
	t.Helper()
	db, repos := newTestRepos(t)
	require.NoError(t, db.Create(&model.Tournament{
		Record:   model.Record{ID: "t-1"},
		Name:     "Friday Cup",
		EntryFee: 19.99,
		Currency: "USD",
		Status:   "open",
	}).Error)

	if stripeClient == nil {
		stripeClient = &fakeStripeClient{}
	}
	return NewCheckoutService(stripeClient, repos.Tournament, "https://sweeps.test/", "app-42", currency, zap.NewNop()), stripeClient
}

var testCaller = &dto.Caller{UserID: "u-1", Email: "player@example.com"}

func TestCreateCheckoutSession_Subscription(t *testing.T) {
	svc, stripeClient := newCheckoutService(t, nil)

	resp, err := svc.CreateCheckoutSession(context.Background(), testCaller, &dto.CheckoutRequest{
		Type:    "subscription",
		PriceID: "price_pro",
		PlanID:  "pro",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", resp.SessionURL)

	require.Len(t, stripeClient.params, 1)
	params := stripeClient.params[0]
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	assert.Equal(t, "price_pro", *params.LineItems[0].Price)
	assert.Equal(t, int64(1), *params.LineItems[0].Quantity)
	assert.Equal(t, "https://sweeps.test/subscription/success?session_id={CHECKOUT_SESSION_ID}&plan=pro", *params.SuccessURL)
	assert.Equal(t, "https://sweeps.test/subscription?plan=pro&cancelled=true", *params.CancelURL)
	assert.Equal(t, "player@example.com", *params.CustomerEmail)
	require.NotNil(t, params.ClientReferenceID)
	assert.Equal(t, "u-1", *params.ClientReferenceID)

	md := model.CheckoutMetadataFromMap(params.Metadata)
	assert.Equal(t, model.CheckoutTypeSubscription, md.Type)
	assert.Equal(t, "pro", md.PlanID)
	assert.Equal(t, "player@example.com", md.UserEmail)
	assert.Equal(t, "app-42", md.AppID)
	assert.Empty(t, md.TournamentID)
	assert.Equal(t, params.Metadata, params.SubscriptionData.Metadata)
}

func TestCreateCheckoutSession_Tournament(t *testing.T) {
	svc, stripeClient := newCheckoutService(t, nil)

	_, err := svc.CreateCheckoutSession(context.Background(), testCaller, &dto.CheckoutRequest{
		Type:         "tournament",
		TournamentID: "t-1",
	})
	require.NoError(t, err)

	require.Len(t, stripeClient.params, 1)
	params := stripeClient.params[0]
	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	require.Len(t, params.LineItems, 1)
	priceData := params.LineItems[0].PriceData
	assert.Equal(t, "usd", *priceData.Currency)
	assert.Equal(t, int64(1999), *priceData.UnitAmount)
	assert.Equal(t, "Friday Cup", *priceData.ProductData.Name)
	require.NotNil(t, params.ClientReferenceID)
	assert.Equal(t, "u-1", *params.ClientReferenceID)

	md := model.CheckoutMetadataFromMap(params.Metadata)
	assert.Equal(t, model.CheckoutTypeTournament, md.Type)
	assert.Equal(t, "t-1", md.TournamentID)
	assert.Equal(t, "player@example.com", md.UserEmail)
	assert.Empty(t, md.PlanID)
}

func TestCreateCheckoutSession_ConfiguredCurrency(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		want     string
	}{
		{name: "configured", currency: "PEN", want: "pen"},
		{name: "unset", currency: "", want: "usd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stripeClient := newCheckoutServiceWithCurrency(t, nil, tt.currency)

			_, err := svc.CreateCheckoutSession(context.Background(), testCaller, &dto.CheckoutRequest{
				Type:         "tournament",
				TournamentID: "t-1",
			})
			require.NoError(t, err)
			require.Len(t, stripeClient.params, 1)
			assert.Equal(t, tt.want, *stripeClient.params[0].LineItems[0].PriceData.Currency)
		})
	}
}

func TestCreateCheckoutSession_NoUserIDOmitsReference(t *testing.T) {
	svc, stripeClient := newCheckoutService(t, nil)

	_, err := svc.CreateCheckoutSession(context.Background(), &dto.Caller{Email: "player@example.com"}, &dto.CheckoutRequest{
		Type:    "subscription",
		PriceID: "price_pro",
	})
	require.NoError(t, err)
	require.Len(t, stripeClient.params, 1)
	assert.Nil(t, stripeClient.params[0].ClientReferenceID)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	tests := []struct {
		name    string
		caller  *dto.Caller
		req     *dto.CheckoutRequest
		wantErr error
	}{
		{
			name:    "no caller",
			req:     &dto.CheckoutRequest{Type: "subscription", PriceID: "price_pro"},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "unknown type",
			caller:  testCaller,
			req:     &dto.CheckoutRequest{Type: "raffle"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "subscription without price",
			caller:  testCaller,
			req:     &dto.CheckoutRequest{Type: "subscription", PlanID: "pro"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "tournament without id",
			caller:  testCaller,
			req:     &dto.CheckoutRequest{Type: "tournament"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "missing tournament",
			caller:  testCaller,
			req:     &dto.CheckoutRequest{Type: "tournament", TournamentID: "nope"},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stripeClient := newCheckoutService(t, nil)

			_, err := svc.CreateCheckoutSession(context.Background(), tt.caller, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, stripeClient.params)
		})
	}
}

func TestCreateCheckoutSession_ProviderFailure(t *testing.T) {
	declined := errors.New("card_declined")
	svc, _ := newCheckoutService(t, &fakeStripeClient{err: declined})

	_, err := svc.CreateCheckoutSession(context.Background(), testCaller, &dto.CheckoutRequest{
		Type:    "subscription",
		PriceID: "price_pro",
	})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, declined)
}

func TestEntryFeeMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), EntryFeeMinorUnits(19.99))
	assert.Equal(t, int64(500), EntryFeeMinorUnits(5))
	assert.Equal(t, int64(1), EntryFeeMinorUnits(0.005))
	assert.Equal(t, int64(0), EntryFeeMinorUnits(0))
}
