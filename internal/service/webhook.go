package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sweepstakes-payments/internal/client"
	"sweepstakes-payments/internal/config"
	"sweepstakes-payments/internal/dto"
	"sweepstakes-payments/internal/metrics"
	"sweepstakes-payments/internal/model"
	"sweepstakes-payments/internal/repository"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

type WebhookService interface {
	HandleEvent(ctx context.Context, body []byte, signature string) (*dto.WebhookResult, error)
}

type webhookServiceImpl struct {
	stripeClient     client.StripeClient
	webhookSecret    string
	requireSignature bool
	userRepo         repository.UserRepository
	planRepo         repository.PlanRepository
	subscriptionRepo repository.SubscriptionRepository
	participantRepo  repository.ParticipantRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewWebhookService(
	stripeClient client.StripeClient,
	stripeCfg *config.Stripe,
	repos *repository.Repositories,
	logger *zap.Logger,
) WebhookService {
	return &webhookServiceImpl{
		stripeClient:     stripeClient,
		webhookSecret:    stripeCfg.WebhookSecret,
		requireSignature: stripeCfg.RequireSignature,
		userRepo:         repos.User,
		planRepo:         repos.Plan,
		subscriptionRepo: repos.Subscription,
		participantRepo:  repos.Participant,
		webhookEventRepo: repos.WebhookEvent,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *webhookServiceImpl) HandleEvent(ctx context.Context, body []byte, signature string) (*dto.WebhookResult, error) {
	event, signatureValid, err := s.parseEvent(body, signature)
	if err != nil {
		metrics.WebhookEventsCount.WithLabelValues("unknown", "rejected").Inc()
		return nil, err
	}

	log := s.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
	)
	if !signatureValid {
		log.Warn("processing webhook without signature verification")
	}

	if event.ID != "" {
		created, stored, err := s.webhookEventRepo.CreateIfNotExists(ctx, &model.WebhookEvent{
			EventID:        event.ID,
			EventType:      string(event.Type),
			PayloadJSON:    string(body),
			SignatureValid: signatureValid,
		})
		if err != nil {
			metrics.WebhookEventsCount.WithLabelValues(string(event.Type), "failed").Inc()
			return nil, fmt.Errorf("%w: record webhook event: %w", ErrUpstream, err)
		}
		if !created && stored.Done() {
			log.Info("duplicate webhook event acknowledged")
			metrics.WebhookEventsCount.WithLabelValues(string(event.Type), dto.WebhookStatusDuplicate).Inc()
			return &dto.WebhookResult{Status: dto.WebhookStatusDuplicate}, nil
		}
	}

	status, err := s.process(ctx, log, event)
	if event.ID != "" {
		var processingError string
		if err != nil {
			processingError = err.Error()
		}
		if markErr := s.webhookEventRepo.MarkProcessed(ctx, event.ID, processingError); markErr != nil {
			log.Error("mark webhook event processed", zap.Error(markErr))
		}
	}
	if err != nil {
		log.Error("webhook event processing failed", zap.Error(err))
		metrics.WebhookEventsCount.WithLabelValues(string(event.Type), "failed").Inc()
		return nil, err
	}

	metrics.WebhookEventsCount.WithLabelValues(string(event.Type), status).Inc()
	return &dto.WebhookResult{Status: status}, nil
}

// parseEvent authenticates the payload when a secret and signature are
// available and falls back to a plain decode otherwise.
func (s *webhookServiceImpl) parseEvent(body []byte, signature string) (*stripe.Event, bool, error) {
	if s.webhookSecret != "" && signature != "" {
		event, err := webhook.ConstructEventWithOptions(body, signature, s.webhookSecret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			return nil, false, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
		}
		return &event, true, nil
	}

	if s.webhookSecret != "" && s.requireSignature {
		return nil, false, fmt.Errorf("%w: missing signature header", ErrInvalidSignature)
	}

	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, false, fmt.Errorf("%w: decode webhook payload: %w", ErrParse, err)
	}
	if event.Type == "" {
		return nil, false, fmt.Errorf("%w: webhook payload has no event type", ErrParse)
	}

	return &event, false, nil
}

func (s *webhookServiceImpl) process(ctx context.Context, log *zap.Logger, event *stripe.Event) (string, error) {
	paymentEvent, err := DecodePaymentEvent(event)
	if err != nil {
		return "", err
	}

	switch paymentEvent.Type {
	case model.EventCheckoutSessionCompleted, model.EventPaymentIntentSucceeded:
		return s.handlePaymentCompleted(ctx, log, paymentEvent)
	case model.EventInvoicePaid:
		return s.handleInvoicePaid(ctx, log, paymentEvent)
	case model.EventCustomerSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, log, paymentEvent)
	}

	log.Debug("ignoring webhook event type")
	return dto.WebhookStatusIgnored, nil
}

func (s *webhookServiceImpl) handlePaymentCompleted(ctx context.Context, log *zap.Logger, event *model.PaymentEvent) (string, error) {
	switch event.Metadata.Type {
	case model.CheckoutTypeSubscription:
		return s.handleSubscriptionPurchase(ctx, log, event)
	case model.CheckoutTypeTournament:
		return s.handleTournamentEntry(ctx, log, event)
	}

	log.Info("payment event carries no known checkout type", zap.String("checkout_type", string(event.Metadata.Type)))
	return dto.WebhookStatusIgnored, nil
}

func (s *webhookServiceImpl) handleSubscriptionPurchase(ctx context.Context, log *zap.Logger, event *model.PaymentEvent) (string, error) {
	email := firstNonEmpty(event.Metadata.UserEmail, event.CustomerEmail)
	planID := event.Metadata.PlanID
	log = log.With(zap.String("user_email", email), zap.String("plan_id", planID))

	user, ok, err := s.findUser(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Warn("subscription payment for unknown user")
		return dto.WebhookStatusProcessed, nil
	}

	_, err = s.subscriptionRepo.FindActive(ctx, email, planID)
	if err == nil {
		log.Info("active subscription already exists")
		return dto.WebhookStatusProcessed, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%w: find active subscription: %w", ErrUpstream, err)
	}

	planName, months := planID, 1
	plan, err := s.planRepo.FindByID(ctx, planID)
	switch {
	case err == nil:
		planName = plan.Name
		if plan.DurationMonths > 0 {
			months = plan.DurationMonths
		}
	case errors.Is(err, repository.ErrNotFound):
		log.Warn("plan not found, using defaults")
	default:
		return "", fmt.Errorf("%w: find plan: %w", ErrUpstream, err)
	}

	start := s.now()
	end := start.AddDate(0, months, 0)
	currency := strings.ToUpper(event.Currency)
	if currency == "" {
		currency = "USD"
	}

	sub := &model.Subscription{
		UserEmail:       email,
		UserName:        user.FullName,
		PlanID:          planID,
		PlanName:        planName,
		Status:          model.SubscriptionStatusActive,
		StartDate:       start,
		EndDate:         end,
		NextBillingDate: end,
		AmountPaid:      minorToMajor(event.AmountMinor),
		Currency:        currency,
		PaymentMethod:   model.PaymentMethodStripe,
		AutoRenew:       true,
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return "", fmt.Errorf("%w: create subscription: %w", ErrUpstream, err)
	}

	log.Info("subscription created", zap.String("subscription_id", sub.ID))
	return dto.WebhookStatusProcessed, nil
}

func (s *webhookServiceImpl) handleTournamentEntry(ctx context.Context, log *zap.Logger, event *model.PaymentEvent) (string, error) {
	email := firstNonEmpty(event.Metadata.UserEmail, event.CustomerEmail)
	tournamentID := event.Metadata.TournamentID
	log = log.With(zap.String("user_email", email), zap.String("tournament_id", tournamentID))

	user, ok, err := s.findUser(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Warn("tournament payment for unknown user")
		return dto.WebhookStatusProcessed, nil
	}

	participant, err := s.participantRepo.FindFirst(ctx, tournamentID, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("no tournament registration found for payment", zap.String("user_id", user.ID))
		return dto.WebhookStatusProcessed, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: find participant: %w", ErrUpstream, err)
	}

	err = s.participantRepo.MarkPaid(ctx, participant.ID, repository.ParticipantPayment{
		AmountPaid:        minorToMajor(event.AmountMinor),
		PaymentMethod:     model.PaymentMethodStripe,
		PaymentDate:       s.now(),
		ProviderSessionID: event.SessionID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: mark participant paid: %w", ErrUpstream, err)
	}

	log.Info("tournament entry paid", zap.String("participant_id", participant.ID))
	return dto.WebhookStatusProcessed, nil
}

func (s *webhookServiceImpl) handleInvoicePaid(ctx context.Context, log *zap.Logger, event *model.PaymentEvent) (string, error) {
	if event.SubscriptionRef == "" {
		log.Debug("invoice is not tied to a subscription")
		return dto.WebhookStatusIgnored, nil
	}

	return s.setSubscriptionStatus(ctx, log, event.CustomerEmail, model.SubscriptionStatusActive)
}

func (s *webhookServiceImpl) handleSubscriptionDeleted(ctx context.Context, log *zap.Logger, event *model.PaymentEvent) (string, error) {
	email := event.CustomerEmail
	if email == "" && event.CustomerID != "" {
		fetched, err := s.stripeClient.GetCustomerEmail(ctx, event.CustomerID)
		if err != nil {
			log.Warn("fetch customer email", zap.String("customer_id", event.CustomerID), zap.Error(err))
		}
		email = fetched
	}

	return s.setSubscriptionStatus(ctx, log, email, model.SubscriptionStatusCancelled)
}

func (s *webhookServiceImpl) setSubscriptionStatus(ctx context.Context, log *zap.Logger, email, status string) (string, error) {
	log = log.With(zap.String("user_email", email), zap.String("status", status))
	if email == "" {
		log.Warn("subscription event has no customer email")
		return dto.WebhookStatusProcessed, nil
	}

	sub, err := s.subscriptionRepo.FindFirstByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("no subscription found for customer")
		return dto.WebhookStatusProcessed, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: find subscription: %w", ErrUpstream, err)
	}

	if err := s.subscriptionRepo.UpdateStatus(ctx, sub.ID, status); err != nil {
		return "", fmt.Errorf("%w: update subscription status: %w", ErrUpstream, err)
	}

	log.Info("subscription status updated", zap.String("subscription_id", sub.ID))
	return dto.WebhookStatusProcessed, nil
}

// findUser reports ok=false for a blank or unknown email.
func (s *webhookServiceImpl) findUser(ctx context.Context, email string) (*model.User, bool, error) {
	if email == "" {
		return nil, false, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: find user: %w", ErrUpstream, err)
	}

	return user, true, nil
}

func minorToMajor(amount int64) float64 {
	return decimal.New(amount, -2).InexactFloat64()
}
