// Package api implements the REST client for the insights query and import
// services. Persistence, querying, and aggregation all happen server-side;
// this client only moves payloads and surfaces readable errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-insights/components/dashboard"
)

// Config configures the HTTP client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the remote insights services via REST endpoints.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient builds a client capable of hitting live query/import APIs.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("api: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
		log:     cfg.Logger,
	}, nil
}

// QueryRequest describes one widget query.
type QueryRequest struct {
	DatasetID  string              `json:"dataset_id"`
	Metrics    []dashboard.Metric  `json:"metrics"`
	Dimensions []string            `json:"dimensions,omitempty"`
	Filters    []dashboard.Filter  `json:"filters,omitempty"`
	OrderBy    *dashboard.OrderBy  `json:"order_by,omitempty"`
	Limit      int                 `json:"limit,omitempty"`
}

// QueryWidget executes a widget query and returns the flat row set.
func (c *Client) QueryWidget(ctx context.Context, req QueryRequest) (dashboard.RowSet, error) {
	var resp dashboard.RowSet
	if err := c.do(ctx, http.MethodPost, "/v1/query", req, &resp); err != nil {
		return dashboard.RowSet{}, err
	}
	return resp, nil
}

// QueryForConfig builds the query from a normalized widget config.
func (c *Client) QueryForConfig(ctx context.Context, datasetID string, cfg *dashboard.WidgetConfig) (dashboard.RowSet, error) {
	if cfg == nil {
		return dashboard.RowSet{}, fmt.Errorf("api: widget config is required")
	}
	req := QueryRequest{
		DatasetID:  datasetID,
		Metrics:    cfg.Metrics,
		Dimensions: cfg.Dimensions,
		Filters:    cfg.Filters,
	}
	if cfg.OrderBy.Column != "" {
		orderBy := cfg.OrderBy
		req.OrderBy = &orderBy
	}
	return c.QueryWidget(ctx, req)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode >= 300 {
		return newStatusError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// StatusError is a non-2xx API response with its extracted detail message.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: remote error %d: %s", e.StatusCode, e.Message)
}

func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Message:    extractErrorMessage(body),
	}
}

// extractErrorMessage pulls a user-facing detail out of an API error payload
// ({"error": ...}, {"message": ...}, or {"detail": ...}); anything else gets
// the generic message.
func extractErrorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return "request failed"
}

// uploadFile posts one file as multipart form data.
func (c *Client) uploadFile(ctx context.Context, path, fileName string, content io.Reader, target any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("api: create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("api: copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("api: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("api: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("api: upload %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return newStatusError(resp)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("api: decode upload response: %w", err)
	}
	return nil
}
