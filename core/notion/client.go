package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"stock-sync/core/metrics"
	"stock-sync/core/retry"
	"stock-sync/core/utils"

	"go.uber.org/zap"
)

// APIError is an error object returned by the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %d %s: %s", e.Status, e.Code, e.Message)
}

// Client is a minimal Notion REST client.
type Client struct {
	baseURL   string
	cfg       Config
	http      *http.Client
	transport *retry.Transport
	logger    *zap.Logger
}

// NewClient creates a client for the configured integration.
func NewClient(cfg Config, logger *zap.Logger, m *metrics.Registry) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if base == "" {
		base = "https://api.notion.com/v1"
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid notion api url %q", cfg.APIURL)
	}
	if cfg.Version == "" {
		cfg.Version = "2022-06-28"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		cfg:       cfg,
		http:      utils.NewHTTPClient(cfg.timeout()),
		transport: retry.New("notion", cfg.RetryPolicy(), logger, retry.WithMetrics(m)),
		logger:    logger,
	}, nil
}

func (c *Client) call(ctx context.Context, op retry.Op, method, path string, body, out any) error {
	op.Name = method + " " + path
	op.Call = func(ctx context.Context) error {
		return c.send(ctx, method, path, body, out)
	}
	return c.transport.Execute(ctx, op)
}

// send performs a single request without retrying.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Code = payload.Code
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
	}

	switch resp.StatusCode {
	case http.StatusConflict, http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return retry.MarkTransient(apiErr)
	}
	return apiErr
}
