package remoteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/Alwanly/service-config-client/pkg/retry"
)

// HTTPFetcher is the default Fetcher. It issues a GET request with JSON
// headers and decodes the response body into an untyped value. Transient
// failures are retried per the configured backoff policy; the zero-value
// policy performs a single attempt.
type HTTPFetcher struct {
	httpClient *http.Client
	headers    map[string]string
	retryCfg   retry.Config
	log        *logger.CanonicalLogger
}

type HTTPFetcherOption func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.httpClient.Timeout = timeout
	}
}

// WithHeaders adds headers to every request, e.g. an API key.
func WithHeaders(headers map[string]string) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithRetry enables per-endpoint retries with exponential backoff.
func WithRetry(cfg retry.Config) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.retryCfg = cfg
	}
}

// WithFetchLogger sets the logger used for per-attempt diagnostics.
func WithFetchLogger(log *logger.CanonicalLogger) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.log = log
	}
}

func NewHTTPFetcher(opts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, endpoint string) (any, error) {
	var raw any
	var attempt int

	operation := func(ctx context.Context) error {
		attempt++

		value, err := f.fetchOnce(ctx, endpoint)
		if err != nil {
			f.log.Debug("fetch attempt failed",
				logger.String(logger.FieldEndpoint, endpoint),
				logger.Int(logger.FieldAttempt, attempt),
				logger.String("error", err.Error()),
			)
			return err
		}

		raw = value
		return nil
	}

	if err := retry.Do(ctx, f.retryCfg, operation); err != nil {
		return nil, err
	}
	return raw, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, endpoint string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return raw, nil
}
