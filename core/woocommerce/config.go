package woocommerce

import (
	"errors"
	"time"

	"stock-sync/core/retry"
)

// Config holds configuration for the WooCommerce REST API.
type Config struct {
	// APIURL is the store base URL, e.g. https://shop.example.com.
	APIURL string `mapstructure:"api_url" default:""`
	// ConsumerKey is the REST API key.
	ConsumerKey string `mapstructure:"consumer_key" default:""`
	// ConsumerSecret is the REST API secret.
	ConsumerSecret string `mapstructure:"consumer_secret" default:""`
	// Timeout is the per-request timeout in seconds.
	Timeout int `mapstructure:"timeout" default:"30"`
	// MaxRetries is the total number of attempts for a call.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryBaseMs is the first backoff delay in milliseconds.
	RetryBaseMs int `mapstructure:"retry_base_ms" default:"1000"`
	// PerPage is the listing page size (the API caps it at 100).
	PerPage int `mapstructure:"per_page" default:"100"`
}

// Validate checks the settings needed to reach the store.
func (c Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("woocommerce.api_url is required"))
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" {
		errs = append(errs, errors.New("woocommerce consumer key and secret are required"))
	}
	return errors.Join(errs...)
}

// RetryPolicy converts the retry settings.
func (c Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	if c.MaxRetries > 0 {
		p.MaxAttempts = c.MaxRetries
	}
	if c.RetryBaseMs > 0 {
		p.BaseDelay = time.Duration(c.RetryBaseMs) * time.Millisecond
	}
	return p
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) perPage() int {
	if c.PerPage <= 0 || c.PerPage > 100 {
		return 100
	}
	return c.PerPage
}
