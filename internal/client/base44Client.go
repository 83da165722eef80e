package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sweepstakes-payments/internal/config"
	"time"
)

// Base44Client talks to the base44 entity API with the service-role token.
type Base44Client interface {
	Filter(ctx context.Context, entity string, query map[string]interface{}, out interface{}) error
	Create(ctx context.Context, entity string, fields map[string]interface{}, out interface{}) error
	Update(ctx context.Context, entity, id string, fields map[string]interface{}, out interface{}) error
}

type base44ClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	appID        string
	serviceToken string
}

func NewBase44Client(cfg *config.Base44) Base44Client {
	return &base44ClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:   cfg.APIURL,
		appID:        cfg.AppID,
		serviceToken: cfg.ServiceToken,
	}
}

func (c *base44ClientImpl) entityURL(entity string) string {
	return fmt.Sprintf("%s/api/apps/%s/entities/%s", c.baseApiURL, url.PathEscape(c.appID), url.PathEscape(entity))
}

// Filter returns matching records oldest first.
func (c *base44ClientImpl) Filter(ctx context.Context, entity string, query map[string]interface{}, out interface{}) error {
	q, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("marshal filter query: %w", err)
	}

	params := url.Values{}
	params.Set("q", string(q))
	params.Set("sort", "created_date")

	return c.do(ctx, http.MethodGet, c.entityURL(entity)+"?"+params.Encode(), nil, out)
}

func (c *base44ClientImpl) Create(ctx context.Context, entity string, fields map[string]interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.entityURL(entity), fields, out)
}

func (c *base44ClientImpl) Update(ctx context.Context, entity, id string, fields map[string]interface{}, out interface{}) error {
	return c.do(ctx, http.MethodPut, c.entityURL(entity)+"/"+url.PathEscape(id), fields, out)
}

func (c *base44ClientImpl) do(ctx context.Context, method, endpoint string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	req.Header.Set("X-App-Id", c.appID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("base44 request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("base44 error %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode base44 response: %w", err)
	}

	return nil
}
