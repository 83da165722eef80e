package handler

import (
	"io"
	"net/http"
	"sweepstakes-payments/internal/dto"
	"sweepstakes-payments/internal/middleware"
	"sweepstakes-payments/internal/service"

	"github.com/labstack/echo/v4"
)

const maxWebhookBodyBytes = 1 << 20

type StripeHandler struct {
	checkoutService service.CheckoutService
	webhookService  service.WebhookService
}

func NewStripeHandler(checkoutService service.CheckoutService, webhookService service.WebhookService) *StripeHandler {
	return &StripeHandler{
		checkoutService: checkoutService,
		webhookService:  webhookService,
	}
}

func (h *StripeHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	caller := middleware.CallerFromContext(c)
	if caller == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "type is required")
	}

	result, err := h.checkoutService.CreateCheckoutSession(ctx, caller, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *StripeHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read body")
	}

	result, err := h.webhookService.HandleEvent(ctx, body, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, &dto.WebhookResponse{
		Received: true,
		Status:   result.Status,
	})
}
