package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"go-donorsync/internal/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when a record lookup matches nothing
var ErrNotFound = errors.New("crm: record not found")

const retryInitialDelay = 1 * time.Second

// Client talks to the CRM REST API using an OAuth2 client-credentials token
// source. It shares the outbound rate limiter with the platform client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

func NewClient(cfg *config.Config, limiter *rate.Limiter, logger *zap.Logger) *Client {
	oauth := &clientcredentials.Config{
		ClientID:     cfg.CRMClientID,
		ClientSecret: cfg.CRMClientSecret,
		TokenURL:     cfg.CRMTokenURL,
	}

	httpClient := oauth.Client(context.Background())
	httpClient.Timeout = cfg.HTTPTimeout

	return &Client{
		baseURL:    cfg.CRMBaseURL,
		httpClient: httpClient,
		limiter:    limiter,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}
}

// doJSON performs a rate-limited, retried request. A nil out skips decoding.
// 404 maps to ErrNotFound; other 4xx responses are returned without retry.
func (c *Client) doJSON(ctx context.Context, method, rawURL string, payload interface{}, out interface{}) error {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

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

		var body io.Reader
		if encoded != nil {
			body = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("crm request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
			return fmt.Errorf("crm API error %d: %s", resp.StatusCode, string(respBody))
		case resp.StatusCode >= 400:
			lastErr = fmt.Errorf("crm API error %d: %s", resp.StatusCode, string(respBody))
			continue
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to decode crm response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

func (c *Client) objectURL(objectType string, parts ...string) string {
	u := c.baseURL + "/objects/" + objectType
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

type createResponse struct {
	ID string `json:"id"`
}

type queryResponse struct {
	Records json.RawMessage `json:"records"`
}

// query runs a filter-language query against one object type
func (c *Client) query(ctx context.Context, objectType, where string, out interface{}) error {
	u := fmt.Sprintf("%s/query?type=%s&where=%s", c.baseURL, url.QueryEscape(objectType), url.QueryEscape(where))
	var resp queryResponse
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return err
	}
	if resp.Records == nil {
		return nil
	}
	return json.Unmarshal(resp.Records, out)
}

// getByExternalID does a direct field lookup (not a search) against the
// CRM's external-id endpoint. Returns ErrNotFound when absent.
func (c *Client) getByExternalID(ctx context.Context, objectType, field, value string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, c.objectURL(objectType, "external", field, value), nil, out)
}

func (c *Client) create(ctx context.Context, objectType string, fields Fields) (string, error) {
	var resp createResponse
	if err := c.doJSON(ctx, http.MethodPost, c.objectURL(objectType), fields, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) update(ctx context.Context, objectType, id string, fields Fields) error {
	return c.doJSON(ctx, http.MethodPatch, c.objectURL(objectType, id), fields, nil)
}

// QueryContacts runs a fuzzy candidate query for the identity matcher
func (c *Client) QueryContacts(ctx context.Context, where string) ([]Contact, error) {
	var contacts []Contact
	if err := c.query(ctx, "Contact", where, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetContactByPlatformID looks a contact up by its platform contact id
func (c *Client) GetContactByPlatformID(ctx context.Context, platformID string) (*Contact, error) {
	var contact Contact
	if err := c.getByExternalID(ctx, "Contact", "PlatformContactId", platformID, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// CreateContact creates a contact and returns the stored record, so the
// caller can verify the CRM assigned an AccountId.
func (c *Client) CreateContact(ctx context.Context, fields Fields) (*Contact, error) {
	id, err := c.create(ctx, "Contact", fields)
	if err != nil {
		return nil, err
	}
	var contact Contact
	if err := c.doJSON(ctx, http.MethodGet, c.objectURL("Contact", id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, fields Fields) error {
	return c.update(ctx, "Contact", id, fields)
}

func (c *Client) GetCampaignByPlatformID(ctx context.Context, platformID string) (*Campaign, error) {
	var campaign Campaign
	if err := c.getByExternalID(ctx, "Campaign", "PlatformCampaignId", platformID, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) CreateCampaign(ctx context.Context, fields Fields) (string, error) {
	return c.create(ctx, "Campaign", fields)
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, fields Fields) error {
	return c.update(ctx, "Campaign", id, fields)
}

func (c *Client) GetOpportunityByPlatformID(ctx context.Context, platformID string) (*Opportunity, error) {
	var opp Opportunity
	if err := c.getByExternalID(ctx, "Opportunity", "PlatformTransactionId", platformID, &opp); err != nil {
		return nil, err
	}
	return &opp, nil
}

func (c *Client) CreateOpportunity(ctx context.Context, fields Fields) (string, error) {
	return c.create(ctx, "Opportunity", fields)
}

func (c *Client) UpdateOpportunity(ctx context.Context, id string, fields Fields) error {
	return c.update(ctx, "Opportunity", id, fields)
}

func (c *Client) GetRecurringDonationByPlatformID(ctx context.Context, platformID string) (*RecurringDonation, error) {
	var rd RecurringDonation
	if err := c.getByExternalID(ctx, "RecurringDonation", "PlatformPlanId", platformID, &rd); err != nil {
		return nil, err
	}
	return &rd, nil
}

func (c *Client) CreateRecurringDonation(ctx context.Context, fields Fields) (string, error) {
	return c.create(ctx, "RecurringDonation", fields)
}

func (c *Client) UpdateRecurringDonation(ctx context.Context, id string, fields Fields) error {
	return c.update(ctx, "RecurringDonation", id, fields)
}
