// Package sync replicates the local store against a remote table endpoint.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmoreira/rentdesk/internal/models"
)

// RemoteConfig holds remote endpoint configuration.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Remote is the table endpoint surface the engine needs. *Client is the
// production implementation; tests substitute fakes.
type Remote interface {
	Ping(ctx context.Context) error
	Select(ctx context.Context, table string) ([]models.Record, error)
	Upsert(ctx context.Context, table string, rec models.Record) error
	DeleteByID(ctx context.Context, table string, id int64) error
}

// Client talks PostgREST-style HTTP to the remote table endpoint.
type Client struct {
	config     *RemoteConfig
	httpClient *http.Client
}

// NewClient creates a Client. A zero Timeout falls back to 30 seconds.
func NewClient(config *RemoteConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
	}
}

// Ping checks reachability and credentials with a minimal read.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.createRequest(ctx, http.MethodGet, models.TableOwners+"?select=id&limit=1", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return remoteStatusError("ping", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Select fetches every row of a remote table.
func (c *Client) Select(ctx context.Context, table string) ([]models.Record, error) {
	req, err := c.createRequest(ctx, http.MethodGet, table+"?select=*", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("select request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, remoteStatusError("select "+table, resp)
	}

	var rows []models.Record
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s rows: %w", table, err)
	}
	return rows, nil
}

// Upsert writes a row keyed by id, creating or replacing it remotely.
func (c *Client) Upsert(ctx context.Context, table string, rec models.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s row: %w", table, err)
	}
	req, err := c.createRequest(ctx, http.MethodPost, table, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upsert request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusNoContent {
		return remoteStatusError("upsert "+table, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// DeleteByID removes a remote row. A 404 is treated as success so replaying
// an outbox entry stays idempotent.
func (c *Client) DeleteByID(ctx context.Context, table string, id int64) error {
	path := fmt.Sprintf("%s?id=eq.%d", table, id)
	req, err := c.createRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		return remoteStatusError("delete "+table, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// createRequest builds an authenticated request against the table endpoint.
func (c *Client) createRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/" + path
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	return req, nil
}

func remoteStatusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s returned status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
}
