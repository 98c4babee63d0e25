package client

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

	"github.com/salesapi/accounts/shared/models"
)

// APIError is a non-2xx response from the sales API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sales api: %d %s", e.StatusCode, e.Message)
}

// Client calls a running sales API. It is used for smoke testing.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. A nil httpClient gets a default one with
// a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: httpClient}
}

func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := c.do(ctx, http.MethodGet, "/api/accounts", nil, &accounts)
	return accounts, err
}

func (c *Client) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := c.do(ctx, http.MethodGet, "/api/accounts/"+url.PathEscape(id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) SearchAccounts(ctx context.Context, name string) ([]models.Account, error) {
	var accounts []models.Account
	path := "/api/accounts/search?" + url.Values{"name": {name}}.Encode()
	err := c.do(ctx, http.MethodGet, path, nil, &accounts)
	return accounts, err
}

func (c *Client) GenerateAccountURL(ctx context.Context, accountID, accountType string) (string, error) {
	body := map[string]string{"account_id": accountID, "account_type": accountType}
	var out models.AccountURL
	if err := c.do(ctx, http.MethodPost, "/api/accounts/url", body, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
