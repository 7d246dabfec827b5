// Package httpds builds the HTTP clients used by the enrichment sources
// (Weatherbit, Airlabs).
//
// Clients are resty clients with one shared retry policy:
//
//   - transport errors, 429 and 5xx are retried with exponential backoff
//   - every other status is final and handed to the caller
//   - a canceled or expired context is never retried
package httpds

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config configures a client. Zero values get defaults:
//   - Timeout:        30s
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// BaseURL is prefixed to relative request paths.
	BaseURL string

	// Timeout applies to each attempt.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// InitialBackoff is the wait before the first retry; later waits double
	// up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// InsecureSkipVerify disables TLS certificate checks.
	InsecureSkipVerify bool

	// UserAgent is sent with every request when set.
	UserAgent string

	// Transport replaces the default transport, mostly for tests.
	Transport http.RoundTripper

	// Logger receives resty's retry and error messages. Nil keeps resty's
	// default stderr logger.
	Logger *zap.Logger
}

// NewClient builds a resty client from cfg.
func NewClient(cfg Config) *resty.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.InitialBackoff).
		SetRetryMaxWaitTime(cfg.MaxBackoff).
		AddRetryCondition(Retryable)

	if cfg.BaseURL != "" {
		c.SetBaseURL(cfg.BaseURL)
	}
	if cfg.Logger != nil {
		c.SetLogger(cfg.Logger.Sugar())
	}
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	switch {
	case cfg.Transport != nil:
		c.SetTransport(cfg.Transport)
	case cfg.InsecureSkipVerify:
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // explicitly configurable
	}
	return c
}

// Retryable is the retry condition shared by every client.
func Retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if resp == nil {
		return false
	}
	return isRetryableStatus(resp.StatusCode())
}

// isRetryableStatus treats 429 and 5xx as transient.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}
