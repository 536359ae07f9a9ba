package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coopandina/teller/internal/domain/model"
	"github.com/coopandina/teller/internal/infrastructure/config"
)

// Client talks to the cooperative's central API over HTTPS. It implements
// port.RemoteStore. Every call is bounded by the configured timeout so a
// dead uplink degrades to an error instead of a hang.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a central-API client from configuration.
func NewClient(cfg config.RemoteConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// CheckHealth probes the central API. Any transport error or non-2xx
// response means no connectivity.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("central API unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("central API health check returned %d", resp.StatusCode)
	}
	return nil
}

// UpsertMembers uploads a batch of members keyed by id.
func (c *Client) UpsertMembers(ctx context.Context, members []model.Member) error {
	payload := make([]memberRecord, len(members))
	for i, m := range members {
		payload[i] = newMemberRecord(m)
	}
	return c.post(ctx, "/v1/sync/members", payload)
}

// UpsertAccounts uploads a batch of accounts keyed by id.
func (c *Client) UpsertAccounts(ctx context.Context, accounts []model.Account) error {
	payload := make([]accountRecord, len(accounts))
	for i, a := range accounts {
		payload[i] = newAccountRecord(a)
	}
	return c.post(ctx, "/v1/sync/accounts", payload)
}

// UpsertTransactions uploads a batch of transactions keyed by id.
func (c *Client) UpsertTransactions(ctx context.Context, txns []model.Transaction) error {
	payload := make([]transactionRecord, len(txns))
	for i, t := range txns {
		payload[i] = newTransactionRecord(t)
	}
	return c.post(ctx, "/v1/sync/transactions", payload)
}

// UpsertCollectionItems uploads a batch of collection items keyed by id.
func (c *Client) UpsertCollectionItems(ctx context.Context, items []model.CollectionItem) error {
	payload := make([]collectionRecord, len(items))
	for i, it := range items {
		payload[i] = newCollectionRecord(it)
	}
	return c.post(ctx, "/v1/sync/collections", payload)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sync batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: central API returned %d: %s", path, resp.StatusCode, detail)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
