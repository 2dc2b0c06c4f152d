// Package fetch is the HTTP client shared by the catalog and ephemeris
// services: paced, retried and cached GET requests.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-nightplan/internal/logging"
	"github.com/litescript/ls-nightplan/internal/version"
)

const (
	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultAttempts is the number of tries per request, including the first.
	DefaultAttempts = 4

	// DefaultRate is the request pacing toward one remote service.
	DefaultRate = 5 // requests per second

	// DefaultCacheSize bounds the number of cached response bodies.
	DefaultCacheSize = 1024

	// DefaultCacheTTL is how long a cached body stays valid.
	DefaultCacheTTL = 6 * time.Hour
)

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// Fetcher handles rate-limited, retried HTTP GETs with an in-memory cache.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	attempts uint
	delay    time.Duration
	limiter  *rate.Limiter
	cache    *otter.Cache[string, []byte]
	log      *logging.Logger

	cacheSize int
	cacheTTL  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithAttempts sets how many times a request is tried.
func WithAttempts(n uint) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithRetryDelay sets the base delay between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithRate sets the request pacing. A non-positive rate disables pacing.
func WithRate(perSecond float64, burst int) Option {
	return func(f *Fetcher) {
		if perSecond <= 0 {
			f.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithCache sets the response cache bounds. A zero size disables caching.
func WithCache(size int, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cacheSize = size
		f.cacheTTL = ttl
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(f *Fetcher) {
		f.log = l
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		attempts:  DefaultAttempts,
		delay:     500 * time.Millisecond,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRate), DefaultRate),
		log:       logging.Discard(),
		cacheSize: DefaultCacheSize,
		cacheTTL:  DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	if f.cacheSize > 0 {
		f.cache = otter.Must(&otter.Options[string, []byte]{
			MaximumSize:      f.cacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, []byte](f.cacheTTL),
		})
	}

	return f
}

// Get retrieves url and returns the response body. Successful bodies are
// cached by URL. Transport errors and 5xx/429 responses are retried with
// jittered backoff; other non-200 responses fail immediately.
func (f *Fetcher) Get(ctx context.Context, url, accept string) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.GetIfPresent(url); ok {
			return body, nil
		}
	}

	var body []byte
	err := retry.Do(
		func() error {
			if err := f.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			var err error
			body, err = f.fetchRaw(ctx, url, accept)
			if err == nil {
				return nil
			}

			var se *StatusError
			if errors.As(err, &se) && se.Code != http.StatusTooManyRequests && se.Code < 500 {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.delay),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.log.Debug("retrying %s (attempt %d): %v", url, n+1, err)
		}),
	)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Set(url, body)
	}
	return body, nil
}

func (f *Fetcher) fetchRaw(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-nightplan/"+version.Version+" (observing planner)")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}
