// Package registry provides the HTTP client for the remote driver registry
// and reconciliation service.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ridewell/rematch/internal/common"
	"github.com/ridewell/rematch/internal/model"
	"github.com/ridewell/rematch/internal/service"
)

// Config holds remote-service configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("registry base URL is required: %w", common.ErrMissingConfig)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid registry base URL: %w", common.ErrInvalidConfig)
	}
	if c.APIKey == "" {
		return fmt.Errorf("registry API key is required: %w", common.ErrMissingConfig)
	}
	return nil
}

// Client implements service.RegistryClient and service.ReconcileClient over
// the remote HTTP API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	retryOpts  service.RetryOptions
	baseURL    string
	apiKey     string
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default().With("component", "registry"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// DriversForDate returns the raw driver snapshot for one date and scope.
func (c *Client) DriversForDate(ctx context.Context, date time.Time, scopeID string) ([]model.RawDriver, error) {
	q := url.Values{}
	q.Set("date", date.Format("2006-01-02"))
	q.Set("scope_id", scopeID)

	var resp struct {
		Drivers []model.RawDriver `json:"drivers"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/drivers?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch drivers for %s: %w", date.Format("2006-01-02"), err)
	}
	return resp.Drivers, nil
}

// DriverMilestones returns the milestone instances for one driver.
func (c *Client) DriverMilestones(ctx context.Context, driverID string) ([]model.Milestone, error) {
	var resp struct {
		Milestones []milestonePayload `json:"milestones"`
	}
	path := "/v1/drivers/" + url.PathEscape(driverID) + "/milestones"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch milestones for driver %s: %w", driverID, err)
	}

	milestones := make([]model.Milestone, 0, len(resp.Milestones))
	for _, m := range resp.Milestones {
		milestones = append(milestones, m.toModel())
	}
	return milestones, nil
}

// UnmatchedLeads returns the unmatched lead pool.
func (c *Client) UnmatchedLeads(ctx context.Context) ([]model.Lead, error) {
	var resp struct {
		Leads []leadPayload `json:"leads"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/unmatched/leads", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch unmatched leads: %w", err)
	}

	leads := make([]model.Lead, 0, len(resp.Leads))
	for _, l := range resp.Leads {
		leads = append(leads, l.toModel())
	}
	return leads, nil
}

// UnmatchedRegistrations returns the unmatched scout-registration pool.
func (c *Client) UnmatchedRegistrations(ctx context.Context) ([]model.ScoutRegistration, error) {
	var resp struct {
		Registrations []registrationPayload `json:"registrations"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/unmatched/registrations", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch unmatched registrations: %w", err)
	}

	regs := make([]model.ScoutRegistration, 0, len(resp.Registrations))
	for _, r := range resp.Registrations {
		regs = append(regs, r.toModel())
	}
	return regs, nil
}

// UnmatchedTransactions returns the unmatched transaction pool.
func (c *Client) UnmatchedTransactions(ctx context.Context) ([]model.Transaction, error) {
	var resp struct {
		Transactions []transactionPayload `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/unmatched/transactions", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch unmatched transactions: %w", err)
	}

	txns := make([]model.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		txns = append(txns, t.toModel())
	}
	return txns, nil
}

// AssignLead links one lead to one driver.
func (c *Client) AssignLead(ctx context.Context, leadID, driverID string) error {
	body := map[string]string{"driver_id": driverID}
	path := "/v1/leads/" + url.PathEscape(leadID) + "/assign"
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to assign lead %s: %w", leadID, err)
	}
	return nil
}

// AssignRegistration links one scout registration to one driver.
func (c *Client) AssignRegistration(ctx context.Context, registrationID, driverID string) error {
	body := map[string]string{"driver_id": driverID}
	path := "/v1/registrations/" + url.PathEscape(registrationID) + "/assign"
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to assign registration %s: %w", registrationID, err)
	}
	return nil
}

// AssignTransactions links a transaction set to one driver as a single
// atomic server-side operation.
func (c *Client) AssignTransactions(ctx context.Context, transactionIDs []int64, driverID string, milestoneIDs []int64) error {
	body := map[string]any{
		"transaction_ids": transactionIDs,
		"driver_id":       driverID,
	}
	if len(milestoneIDs) > 0 {
		body["milestone_ids"] = milestoneIDs
	}
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/assign", body, nil); err != nil {
		return fmt.Errorf("failed to assign %d transactions: %w", len(transactionIDs), err)
	}
	return nil
}

// DiscardLead removes a lead from the unmatched pool.
func (c *Client) DiscardLead(ctx context.Context, leadID string) error {
	path := "/v1/leads/" + url.PathEscape(leadID) + "/discard"
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to discard lead %s: %w", leadID, err)
	}
	return nil
}

// ReprocessTransactions re-runs the automated matcher server-side.
func (c *Client) ReprocessTransactions(ctx context.Context) (model.ReprocessSummary, error) {
	var payload reprocessPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/reprocess", nil, &payload); err != nil {
		return model.ReprocessSummary{}, fmt.Errorf("failed to reprocess transactions: %w", err)
	}
	return payload.toModel(), nil
}

// CleanupDuplicates deletes server-side duplicate transactions.
func (c *Client) CleanupDuplicates(ctx context.Context) (model.CleanupSummary, error) {
	var payload cleanupPayload
	if err := c.do(ctx, http.MethodPost, "/v1/transactions/cleanup-duplicates", nil, &payload); err != nil {
		return model.CleanupSummary{}, fmt.Errorf("failed to clean up duplicates: %w", err)
	}
	return payload.toModel(), nil
}

// UploadStats returns metadata about the most recent data upload.
func (c *Client) UploadStats(ctx context.Context) (model.UploadStats, error) {
	var payload uploadStatsPayload
	if err := c.do(ctx, http.MethodGet, "/v1/uploads/latest", nil, &payload); err != nil {
		return model.UploadStats{}, fmt.Errorf("failed to fetch upload stats: %w", err)
	}
	return payload.toModel(), nil
}

// do performs one JSON request with retry. Rate limiting and server-side
// errors retry with backoff; client errors fail immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return common.WithRetry(ctx, func() error {
		var reqBody io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			if err != nil {
				return &common.RetryableError{Err: fmt.Errorf("failed to encode request body: %w", err), Retryable: false}
			}
			reqBody = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		defer func() {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn("Rate limit hit, will retry", "path", path)
			return common.ErrRateLimit
		case resp.StatusCode >= 500:
			return &common.RetryableError{
				Err:       fmt.Errorf("server error: %s", resp.Status),
				Retryable: true,
			}
		case resp.StatusCode >= 400:
			return &common.RetryableError{
				Err:       decodeAPIError(resp),
				Retryable: false,
			}
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &common.RetryableError{
				Err:       fmt.Errorf("failed to decode response: %w", err),
				Retryable: false,
			}
		}
		return nil
	}, c.retryOpts)
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("api error: %s - %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("api error: %s", resp.Status)
}
