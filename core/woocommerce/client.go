package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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

const apiPath = "/wp-json/wc/v3"

// APIError is a non-2xx answer from the store.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("woocommerce: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("woocommerce: %d %s", e.Status, e.Message)
}

// Client is a minimal WooCommerce REST client. Every call goes through a
// retrying transport.
type Client struct {
	baseURL   string
	cfg       Config
	http      *http.Client
	transport *retry.Transport
	logger    *zap.Logger
}

// NewClient creates a client for the configured store.
func NewClient(cfg Config, logger *zap.Logger, m *metrics.Registry) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid woocommerce api url %q", cfg.APIURL)
	}
	if !strings.Contains(u.Path, "/wp-json/") {
		base += apiPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		cfg:       cfg,
		http:      utils.NewHTTPClient(cfg.timeout()),
		transport: retry.New("woocommerce", cfg.RetryPolicy(), logger, retry.WithMetrics(m)),
		logger:    logger,
	}, nil
}

// call sends one request through the retrying transport.
func (c *Client) call(ctx context.Context, kind retry.Kind, method, path string, query url.Values, body, out any) (http.Header, error) {
	var header http.Header
	err := c.transport.Execute(ctx, retry.Op{
		Name: method + " " + path,
		Kind: kind,
		Call: func(ctx context.Context) error {
			h, err := c.send(ctx, method, path, query, body, out)
			header = h
			return err
		},
	})
	return header, err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) (http.Header, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.Header, decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.Header, nil
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
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return retry.MarkTransient(apiErr)
	}
	return apiErr
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func isClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}
