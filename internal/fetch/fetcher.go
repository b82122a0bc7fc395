// Package fetch retrieves article pages with bounded retries so the
// pipeline can never stall indefinitely on one slow endpoint.
package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout    = 12 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = 500 * time.Millisecond
	defaultGrowth     = 1.8
)

// Options configure the fetcher. Zero values fall back to the defaults
// above.
type Options struct {
	UserAgent  string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Growth     float64
}

// Fetcher performs page requests with exponential backoff between
// attempts.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	retries    int
	retryDelay time.Duration
	growth     float64
	logger     *slog.Logger
}

// New builds a fetcher from options.
func New(opts Options, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Growth <= 1 {
		opts.Growth = defaultGrowth
	}
	return &Fetcher{
		client:     &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		retries:    opts.Retries,
		retryDelay: opts.RetryDelay,
		growth:     opts.Growth,
		logger:     logger,
	}
}

// Fetch returns the page body, or "" once every attempt has failed.
// Enrichment is best-effort, so failure is never an error to the
// caller.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	delay := f.retryDelay
	for attempt := 1; attempt <= f.retries; attempt++ {
		if attempt > 1 {
			time.Sleep(delay)
			delay = time.Duration(float64(delay) * f.growth)
		}
		body, err := f.get(ctx, url)
		if err == nil {
			return body
		}
		f.logger.Debug("page fetch failed", "url", url, "attempt", attempt, "error", err)
	}
	return ""
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &statusError{status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type statusError struct {
	status string
}

func (e *statusError) Error() string {
	return "unexpected status " + e.status
}
