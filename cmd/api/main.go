package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sweepstakes-payments/internal/client"
	"sweepstakes-payments/internal/config"
	"sweepstakes-payments/internal/repository"
	"sweepstakes-payments/internal/server"
	"sweepstakes-payments/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()

	repos, err := initRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init entity store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set, checkout sessions will fail")
	}
	if cfg.Stripe.WebhookSecret == "" {
		logger.Warn("STRIPE_WEBHOOK_SECRET is not set, webhooks are accepted without signature verification")
	}
	stripeClient := client.NewStripeClient(&cfg.Stripe)
	geoClient := client.NewGeoClient(&cfg.Geo)

	var countryCache client.CountryCache
	if cfg.Redis.Addr != "" {
		rdb, err := client.InitRedisClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, geolocation cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			countryCache = client.NewRedisCountryCache(rdb, cfg.Geo.CacheTTL)
		}
	}

	checkoutService := service.NewCheckoutService(stripeClient, repos.Tournament, cfg.BaseURL, cfg.Base44.AppID, cfg.Stripe.Currency, logger)
	webhookService := service.NewWebhookService(stripeClient, &cfg.Stripe, repos, logger)
	geolocationService := service.NewGeolocationService(geoClient, countryCache, logger)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(checkoutService, webhookService, geolocationService, cfg.Auth.JWTSecret, logger)

	logger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("store", cfg.StoreDriver))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
}

func initRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.Repositories, error) {
	switch cfg.StoreDriver {
	case "base44":
		if cfg.Base44.AppID == "" || cfg.Base44.ServiceToken == "" {
			return nil, fmt.Errorf("BASE44_APP_ID and BASE44_SERVICE_TOKEN are required")
		}
		return repository.NewBase44Repositories(client.NewBase44Client(&cfg.Base44)), nil
	default:
		db, err := client.InitDBClient(cfg.StoreDriver, &cfg.Database)
		if err != nil {
			return nil, err
		}
		repos := repository.NewGormRepositories(db)
		if cfg.Environment.IsDevelopment() {
			if err := repos.Plan.Seed(ctx); err != nil {
				logger.Warn("seed subscription plans", zap.Error(err))
			}
		}
		return repos, nil
	}
}

func newLogger(logCfg config.Log) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if logCfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(logCfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
