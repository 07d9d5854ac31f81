package notion

import (
	"errors"
	"time"

	"stock-sync/core/retry"
)

// Config holds configuration for the Notion API.
type Config struct {
	// Token is the integration secret.
	Token string `mapstructure:"token" default:""`
	// DatabaseID is the inventory database.
	DatabaseID string `mapstructure:"database_id" default:""`
	// APIURL is the API root.
	APIURL string `mapstructure:"api_url" default:"https://api.notion.com/v1"`
	// Version is sent as the Notion-Version header.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `mapstructure:"timeout" default:"30"`
	// MaxRetries is the total number of attempts for a call.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryBaseMs is the first backoff delay in milliseconds.
	RetryBaseMs int `mapstructure:"retry_base_ms" default:"1000"`
	// IndexTTLSeconds bounds how long a full listing answers SKU scans.
	IndexTTLSeconds int `mapstructure:"index_ttl_seconds" default:"300"`
}

// Validate checks the settings needed to reach the database.
func (c Config) Validate() error {
	var errs []error
	if c.Token == "" {
		errs = append(errs, errors.New("notion.token is required"))
	}
	if c.DatabaseID == "" {
		errs = append(errs, errors.New("notion.database_id is required"))
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

func (c Config) indexTTL() time.Duration {
	if c.IndexTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.IndexTTLSeconds) * time.Second
}
