package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sweepstakes-payments/internal/client"
	"sweepstakes-payments/internal/dto"
	"sweepstakes-payments/internal/metrics"
	"sweepstakes-payments/internal/model"
	"sweepstakes-payments/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, caller *dto.Caller, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	stripeClient   client.StripeClient
	tournamentRepo repository.TournamentRepository
	serviceBaseUrl string
	appID          string
	currency       string
	logger         *zap.Logger
}

func NewCheckoutService(
	stripeClient client.StripeClient,
	tournamentRepo repository.TournamentRepository,
	serviceBaseUrl string,
	appID string,
	currency string,
	logger *zap.Logger,
) CheckoutService {
	if currency == "" {
		currency = "usd"
	}

	return &checkoutServiceImpl{
		stripeClient:   stripeClient,
		tournamentRepo: tournamentRepo,
		serviceBaseUrl: strings.TrimRight(serviceBaseUrl, "/"),
		appID:          appID,
		currency:       strings.ToLower(currency),
		logger:         logger,
	}
}

func (s *checkoutServiceImpl) CreateCheckoutSession(ctx context.Context, caller *dto.Caller, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if caller == nil || caller.Email == "" {
		return nil, ErrUnauthorized
	}

	var (
		params *stripe.CheckoutSessionParams
		err    error
	)
	switch model.CheckoutType(req.Type) {
	case model.CheckoutTypeSubscription:
		params, err = s.subscriptionParams(caller, req)
	case model.CheckoutTypeTournament:
		params, err = s.tournamentParams(ctx, caller, req)
	default:
		err = fmt.Errorf("%w: unknown checkout type %q", ErrInvalidRequest, req.Type)
	}
	if err != nil {
		metrics.CheckoutSessionsCount.WithLabelValues(req.Type, "rejected").Inc()
		return nil, err
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, params)
	if err != nil {
		metrics.CheckoutSessionsCount.WithLabelValues(req.Type, "failed").Inc()
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	metrics.CheckoutSessionsCount.WithLabelValues(req.Type, "created").Inc()
	s.logger.Info("checkout session created",
		zap.String("type", req.Type),
		zap.String("session_id", session.ID),
		zap.String("user_id", caller.UserID),
		zap.String("user_email", caller.Email),
	)

	return &dto.CheckoutResponse{
		SessionURL: session.URL,
		SessionID:  session.ID,
	}, nil
}

func (s *checkoutServiceImpl) subscriptionParams(caller *dto.Caller, req *dto.CheckoutRequest) (*stripe.CheckoutSessionParams, error) {
	if req.PriceID == "" {
		return nil, fmt.Errorf("%w: priceId is required", ErrInvalidRequest)
	}

	md := model.CheckoutMetadata{
		Type:      model.CheckoutTypeSubscription,
		UserEmail: caller.Email,
		PlanID:    req.PlanID,
		AppID:     s.appID,
	}.ToMap()

	plan := url.QueryEscape(req.PlanID)
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(s.serviceBaseUrl + "/subscription/success?session_id={CHECKOUT_SESSION_ID}&plan=" + plan),
		CancelURL:     stripe.String(s.serviceBaseUrl + "/subscription?plan=" + plan + "&cancelled=true"),
		CustomerEmail: stripe.String(caller.Email),
		// copied onto the subscription so cancellation events can find the user
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: md,
		},
	}
	params.Metadata = md
	if caller.UserID != "" {
		params.ClientReferenceID = stripe.String(caller.UserID)
	}

	return params, nil
}

func (s *checkoutServiceImpl) tournamentParams(ctx context.Context, caller *dto.Caller, req *dto.CheckoutRequest) (*stripe.CheckoutSessionParams, error) {
	if req.TournamentID == "" {
		return nil, fmt.Errorf("%w: tournamentId is required", ErrInvalidRequest)
	}

	tournament, err := s.tournamentRepo.FindByID(ctx, req.TournamentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, req.TournamentID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find tournament: %w", ErrUpstream, err)
	}

	md := model.CheckoutMetadata{
		Type:         model.CheckoutTypeTournament,
		UserEmail:    caller.Email,
		TournamentID: tournament.ID,
		AppID:        s.appID,
	}.ToMap()

	tournamentID := url.QueryEscape(tournament.ID)
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(tournament.Name),
					},
					UnitAmount: stripe.Int64(EntryFeeMinorUnits(tournament.EntryFee)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(s.serviceBaseUrl + "/tournaments/" + tournamentID + "?payment=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.serviceBaseUrl + "/tournaments/" + tournamentID + "?payment=cancelled"),
		CustomerEmail: stripe.String(caller.Email),
	}
	params.Metadata = md
	if caller.UserID != "" {
		params.ClientReferenceID = stripe.String(caller.UserID)
	}

	return params, nil
}

// EntryFeeMinorUnits converts a fee in major units to rounded cents.
func EntryFeeMinorUnits(fee float64) int64 {
	return decimal.NewFromFloat(fee).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
