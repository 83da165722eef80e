package server

import (
	"context"
	"net/http"
	"sweepstakes-payments/internal/handler"
	"sweepstakes-payments/internal/middleware"
	"sweepstakes-payments/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	echo               *echo.Echo
	jwtSecret          string
	stripeHandler      *handler.StripeHandler
	geolocationHandler *handler.GeolocationHandler
}

type customValidator struct {
	validate *validator.Validate
}

func (v customValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(
	checkoutService service.CheckoutService,
	webhookService service.WebhookService,
	geolocationService service.GeolocationService,
	jwtSecret string,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Validator = customValidator{
		validate: validator.New(),
	}

	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	s := &Server{
		echo:               e,
		jwtSecret:          jwtSecret,
		stripeHandler:      handler.NewStripeHandler(checkoutService, webhookService),
		geolocationHandler: handler.NewGeolocationHandler(geolocationService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.POST("/checkout", s.stripeHandler.CreateCheckoutSession, middleware.AuthMiddleware(s.jwtSecret))
	api.Any("/geolocation", s.geolocationHandler.GetCountry)

	// -------- stripe webhooks --------
	api.POST("/webhooks/stripe", s.stripeHandler.StripeWebhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
