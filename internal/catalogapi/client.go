// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalogapi is the HTTP client for the admin ethics catalog
// endpoint. It satisfies editor.Remote.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ethicsadmin/internal/models"
)

// CatalogPath is the admin endpoint serving and accepting the catalog.
const CatalogPath = "/api/admin/ethics/catalog"

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.Status, e.Message)
}

// Client talks to the catalog endpoint of an ethicsadmin server.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for baseURL. token is sent as a bearer token when
// non-empty.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchCatalog returns the decoded catalog response body. Numbers are kept
// as json.Number so large ids survive.
func (c *Client) FetchCatalog(ctx context.Context) (any, error) {
	return c.do(ctx, http.MethodGet, nil)
}

// UpsertCatalog sends the full catalog and returns the decoded response
// body, which may be empty.
func (c *Client) UpsertCatalog(ctx context.Context, req models.UpsertRequest) (any, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("catalog marshal: %w", err)
	}
	return c.do(ctx, http.MethodPut, payload)
}

func (c *Client) do(ctx context.Context, method string, payload []byte) (any, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+CatalogPath, body)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("catalog unmarshal: %w", err)
	}
	return out, nil
}

// errorMessage pulls the "error" field out of a JSON error body, falling
// back to the raw text.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response"
	}
	return msg
}
