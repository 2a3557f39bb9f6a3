package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"geotag/internal/config"
	"geotag/internal/logging"
	"geotag/internal/services"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultRetryInterval = time.Second
	maxBodyBytes         = 1 << 20
)

// Reverser resolves coordinates to an address response.
type Reverser interface {
	Reverse(ctx context.Context, coords Coordinates) (*Response, error)
}

// Client talks to a Nominatim reverse endpoint.
type Client struct {
	baseURL       string
	userAgent     string
	language      string
	zoom          int
	maxRetries    int
	retryInterval time.Duration
	httpClient    *http.Client
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker[*Response]
	logger        *slog.Logger
}

var _ Reverser = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header. Nominatim rejects anonymous clients.
func WithUserAgent(agent string) Option {
	return func(c *Client) { c.userAgent = strings.TrimSpace(agent) }
}

// WithLanguage sets the accept-language parameter.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = strings.TrimSpace(lang) }
}

// WithZoom sets the address detail level (0-18).
func WithZoom(zoom int) Option {
	return func(c *Client) { c.zoom = zoom }
}

// WithRateLimit paces requests to rps per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetries sets how many times a retryable failure is retried and the
// initial backoff interval.
func WithRetries(maxRetries int, interval time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if interval > 0 {
			c.retryInterval = interval
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logging.NewComponentLogger(logger, "geocode") }
}

// New creates a geocoding client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("geocoder base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse geocoder url: %w", err)
	}
	client := &Client{
		baseURL:       baseURL,
		zoom:          18,
		retryInterval: defaultRetryInterval,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		limiter:       rate.NewLimiter(rate.Limit(1), 1),
		logger:        logging.NewComponentLogger(nil, "geocode"),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.breaker = gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "geocoder",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return !httpErr.Retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			client.logger.Info("circuit breaker state change",
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()))
		},
	})
	return client, nil
}

// NewFromConfig builds a client from the geocoder configuration section.
func NewFromConfig(cfg config.Geocoder, logger *slog.Logger) (*Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return New(cfg.BaseURL,
		WithHTTPClient(&http.Client{Timeout: timeout}),
		WithUserAgent(cfg.UserAgent),
		WithLanguage(cfg.Language),
		WithZoom(cfg.Zoom),
		WithRateLimit(cfg.RequestsPerSecond),
		WithRetries(cfg.MaxRetries, defaultRetryInterval),
		WithLogger(logger),
	)
}

// Reverse looks up the address at coords.
func (c *Client) Reverse(ctx context.Context, coords Coordinates) (*Response, error) {
	if !coords.Valid() {
		return nil, services.Wrap(services.ErrSkippable, "geocode", "reverse", "coordinates out of range: "+coords.String(), nil)
	}
	endpoint, err := c.endpoint(coords)
	if err != nil {
		return nil, err
	}

	var attempt int
	operation := func() (*Response, error) {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := c.breaker.Execute(func() (*Response, error) {
			return c.fetch(ctx, endpoint)
		})
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrCircuitOpen, err))
		}
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && !httpErr.Retryable() {
			return nil, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		c.logger.Debug("geocoder request failed, retrying",
			logging.Int("attempt", attempt),
			logging.String("url", endpoint),
			logging.Error(err))
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = 30 * time.Second
	policy.MaxElapsedTime = 2 * time.Minute

	resp, err := backoff.RetryWithData(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx))
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrSkippable, "geocode", "reverse", "lookup "+coords.String(), err)
	}
	return resp, nil
}

func (c *Client) endpoint(coords Coordinates) (string, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse geocoder url: %w", err)
	}
	params := endpoint.Query()
	params.Set("format", "jsonv2")
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("zoom", strconv.Itoa(c.zoom))
	params.Set("addressdetails", "1")
	if c.language != "" {
		params.Set("accept-language", c.language)
	}
	endpoint.RawQuery = params.Encode()
	return endpoint.String(), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	payload.URL = endpoint

	c.logger.Debug("geocoder response",
		logging.String("url", endpoint),
		logging.Duration("latency", latency),
		logging.String("display_name", payload.DisplayName))
	return &payload, nil
}
