package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sweepstakes-payments/internal/config"
)

type GeoClient interface {
	LookupCountry(ctx context.Context, ip string) (string, error)
}

type geoClientImpl struct {
	httpClient *http.Client
	lookupURL  string
}

func NewGeoClient(geoCfg *config.Geo) GeoClient {
	return &geoClientImpl{
		httpClient: &http.Client{
			Timeout: geoCfg.Timeout,
		},
		lookupURL: geoCfg.LookupURL,
	}
}

type geoLookupResult struct {
	CountryCode string `json:"country_code"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

func (c *geoClientImpl) LookupCountry(ctx context.Context, ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("invalid ip address %q", ip)
	}

	url := c.lookupURL
	if strings.Contains(url, "%s") {
		url = fmt.Sprintf(url, parsed.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geo lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("geo lookup error %d: %s", resp.StatusCode, string(b))
	}

	var result geoLookupResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode geo lookup response: %w", err)
	}
	if result.Error {
		return "", fmt.Errorf("geo lookup rejected: %s", result.Reason)
	}

	country := strings.ToUpper(strings.TrimSpace(result.CountryCode))
	if country == "" {
		return "", fmt.Errorf("geo lookup returned no country for %s", ip)
	}

	return country, nil
}
