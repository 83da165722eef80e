package service

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sweepstakes-payments/internal/client"
	"sweepstakes-payments/internal/dto"
	"sweepstakes-payments/internal/metrics"

	"go.uber.org/zap"
)

const (
	defaultCountry  = "US"
	defaultCurrency = "USD"
	peruCountry     = "PE"
	peruCurrency    = "PEN"
)

type GeolocationService interface {
	ResolveCountry(ctx context.Context, headers http.Header) *dto.GeoResponse
}

type geolocationServiceImpl struct {
	geoClient client.GeoClient
	cache     client.CountryCache
	logger    *zap.Logger
}

// NewGeolocationService builds the resolver. cache may be nil.
func NewGeolocationService(geoClient client.GeoClient, cache client.CountryCache, logger *zap.Logger) GeolocationService {
	return &geolocationServiceImpl{
		geoClient: geoClient,
		cache:     cache,
		logger:    logger,
	}
}

func (s *geolocationServiceImpl) ResolveCountry(ctx context.Context, headers http.Header) *dto.GeoResponse {
	// proxy headers are caller controlled, anything past this point sees only a parsed address
	parsed := net.ParseIP(ClientIP(headers))
	country := s.lookup(ctx, parsed)

	currency := defaultCurrency
	if country == peruCountry {
		currency = peruCurrency
	}

	var ip string
	if parsed != nil {
		ip = parsed.String()
	}

	return &dto.GeoResponse{
		Country:  country,
		Currency: currency,
		IsPeru:   country == peruCountry,
		IP:       ip,
	}
}

func (s *geolocationServiceImpl) lookup(ctx context.Context, parsed net.IP) string {
	if parsed == nil || parsed.IsLoopback() {
		metrics.GeolocationLookupsCount.WithLabelValues("default").Inc()
		return defaultCountry
	}
	ip := parsed.String()

	if s.cache != nil {
		country, ok, err := s.cache.GetCountry(ctx, ip)
		if err != nil {
			s.logger.Debug("country cache read failed", zap.String("ip", ip), zap.Error(err))
		}
		if ok {
			metrics.GeolocationLookupsCount.WithLabelValues("cache").Inc()
			return country
		}
	}

	country, err := s.geoClient.LookupCountry(ctx, ip)
	if err != nil {
		s.logger.Warn("geolocation lookup failed", zap.String("ip", ip), zap.Error(err))
		metrics.GeolocationLookupsCount.WithLabelValues("default").Inc()
		return defaultCountry
	}
	metrics.GeolocationLookupsCount.WithLabelValues("lookup").Inc()

	if s.cache != nil {
		if err := s.cache.SetCountry(ctx, ip, country); err != nil {
			s.logger.Debug("country cache write failed", zap.String("ip", ip), zap.Error(err))
		}
	}

	return country
}

// ClientIP picks the caller address from proxy headers, CDN first.
func ClientIP(headers http.Header) string {
	if ip := strings.TrimSpace(headers.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if forwarded := headers.Get("X-Forwarded-For"); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(headers.Get("X-Real-IP"))
}
