package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRequestTimeout bounds one status lookup.
const DefaultRequestTimeout = 15 * time.Second

// Client fetches subscription status from the remote service with a
// bearer credential.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *logrus.Entry
}

var _ StatusSource = (*Client)(nil)

// NewClient creates a status client for the given service base URL.
func NewClient(baseURL, token string, log *logrus.Entry) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: DefaultRequestTimeout},
		log:     log,
	}
}

type statusResponse struct {
	Tier          string `json:"tier"`
	DaysRemaining *int   `json:"days_remaining"`
}

// Status implements StatusSource. HTTP 402 maps to ErrLimitReached and
// 403 to ErrEntitlementExpired so callers can raise the upgrade prompt
// instead of a generic fetch failure.
func (c *Client) Status(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/subscription", nil)
	if err != nil {
		return Status{}, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("subscription status: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusPaymentRequired:
		return Status{}, ErrLimitReached
	case http.StatusForbidden:
		return Status{}, ErrEntitlementExpired
	default:
		return Status{}, fmt.Errorf("subscription status: unexpected HTTP %d", resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Status{}, fmt.Errorf("decode status response: %w", err)
	}

	status := Status{Tier: Tier(body.Tier), DaysRemaining: body.DaysRemaining}
	c.log.WithFields(logrus.Fields{
		"tier":    status.Tier,
		"expired": status.Expired(),
	}).Debug("subscription status fetched")
	return status, nil
}
