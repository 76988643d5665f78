package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"go-donorsync/internal/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const retryInitialDelay = 1 * time.Second

// Client talks to the fundraising platform REST API. All requests go through
// a shared rate limiter and are retried with bounded exponential backoff on
// transient failure.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

func NewClient(cfg *config.Config, limiter *rate.Limiter, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.PlatformBaseURL,
		token:   cfg.PlatformToken,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// NewLimiter builds the shared outbound limiter from the configured
// request budget per window. A non-positive budget or window disables
// throttling rather than crashing on a bad environment value.
func NewLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.RateBudget <= 0 || cfg.RateWindow <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	every := cfg.RateWindow / time.Duration(cfg.RateBudget)
	return rate.NewLimiter(rate.Every(every), cfg.RateBudget)
}

// getJSON performs a rate-limited, retried GET and decodes the body into v.
// Client errors other than 429 are not retried.
func (c *Client) getJSON(ctx context.Context, rawURL string, v interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * retryInitialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("platform request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("platform API error %d: %s", resp.StatusCode, string(body))
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				// Don't retry on client errors (4xx except 429)
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("failed to decode platform response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

func (c *Client) resourceURL(path string) string {
	return c.baseURL + path
}

// GetContact fetches a single contact by platform id
func (c *Client) GetContact(ctx context.Context, id int64) (*Contact, error) {
	var env contactEnvelope
	if err := c.getJSON(ctx, c.resourceURL(fmt.Sprintf("/contacts/%d", id)), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetTransaction fetches a single transaction by platform id
func (c *Client) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	var env transactionEnvelope
	if err := c.getJSON(ctx, c.resourceURL("/transactions/"+url.PathEscape(id)), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetPlan fetches a single recurring plan by platform id
func (c *Client) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var env planEnvelope
	if err := c.getJSON(ctx, c.resourceURL("/plans/"+url.PathEscape(id)), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetCampaign fetches a single campaign by platform id
func (c *Client) GetCampaign(ctx context.Context, id int64) (*Campaign, error) {
	var env campaignEnvelope
	if err := c.getJSON(ctx, c.resourceURL(fmt.Sprintf("/campaigns/%d", id)), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListContacts fetches one page of contacts. Pass an empty cursor for the
// first page; subsequent pages use the links.next URL from the prior page.
func (c *Client) ListContacts(ctx context.Context, cursor string) (*ContactPage, error) {
	if cursor == "" {
		cursor = c.resourceURL("/contacts")
	}
	var page ContactPage
	if err := c.getJSON(ctx, cursor, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListTransactions fetches one page of transactions
func (c *Client) ListTransactions(ctx context.Context, cursor string) (*TransactionPage, error) {
	if cursor == "" {
		cursor = c.resourceURL("/transactions")
	}
	var page TransactionPage
	if err := c.getJSON(ctx, cursor, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListPlans fetches one page of recurring plans
func (c *Client) ListPlans(ctx context.Context, cursor string) (*PlanPage, error) {
	if cursor == "" {
		cursor = c.resourceURL("/plans")
	}
	var page PlanPage
	if err := c.getJSON(ctx, cursor, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListCampaigns fetches one page of campaigns
func (c *Client) ListCampaigns(ctx context.Context, cursor string) (*CampaignPage, error) {
	if cursor == "" {
		cursor = c.resourceURL("/campaigns")
	}
	var page CampaignPage
	if err := c.getJSON(ctx, cursor, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListTickets fetches one page of tickets
func (c *Client) ListTickets(ctx context.Context, cursor string) (*TicketPage, error) {
	if cursor == "" {
		cursor = c.resourceURL("/tickets")
	}
	var page TicketPage
	if err := c.getJSON(ctx, cursor, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
