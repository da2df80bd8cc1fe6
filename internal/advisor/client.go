// Package advisor talks to the remote suggestion service and falls back to
// the local rule set when it has nothing to offer.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/rshade/zerodesign/internal/footprint"
	"github.com/rshade/zerodesign/internal/logging"
)

const (
	suggestionsPath = "/api/ai-suggestions"
	feedbackPath    = "/api/ai-feedback"

	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultRate        = 2.0
	maxResponseBytes   = 1 << 20
)

// Config configures a Client.
type Config struct {
	Endpoint      string        `yaml:"endpoint" json:"endpoint"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second" json:"rate_per_second"`
	MaxRetries    int           `yaml:"max_retries" json:"max_retries"`
	BackoffBase   time.Duration `yaml:"backoff_base" json:"backoff_base"`
}

// Request is the body sent to the suggestion service.
type Request struct {
	ProductType string  `json:"product_type"`
	Material    string  `json:"material"`
	CurrentCO2  float64 `json:"current_co2"`
}

// RemoteSuggestion is one suggestion as returned by the service. It carries
// a few fields the local generator does not produce.
type RemoteSuggestion struct {
	footprint.Suggestion

	Difficulty string  `json:"implementation_difficulty,omitempty"`
	CostImpact string  `json:"cost_impact,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

type suggestionsResponse struct {
	Success     *bool              `json:"success,omitempty"`
	Error       string             `json:"error,omitempty"`
	Suggestions []RemoteSuggestion `json:"suggestions"`
}

// Client is a rate-limited HTTP client for the suggestion service.
// Network errors, 429 and 5xx responses are retried with exponential
// backoff and jitter.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	endpoint    string
	maxRetries  int
	backoffBase time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client from cfg, filling zero values with defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRate
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	burst := int(cfg.RatePerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		sleep:       sleepContext,
	}
}

// Suggest asks the service for suggestions.
func (c *Client) Suggest(ctx context.Context, req Request) ([]RemoteSuggestion, error) {
	if c.endpoint == "" {
		return nil, ErrNoEndpoint
	}
	var resp suggestionsResponse
	if err := c.post(ctx, suggestionsPath, req, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrServiceRejected, resp.Error)
	}
	return resp.Suggestions, nil
}

// Feedback reports whether a suggestion was useful.
func (c *Client) Feedback(ctx context.Context, suggestionID, feedback string) error {
	if c.endpoint == "" {
		return ErrNoEndpoint
	}
	body := map[string]string{"suggestion_id": suggestionID, "feedback": feedback}
	return c.post(ctx, feedbackPath, body, nil)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	log := logging.FromContext(ctx)
	url := c.endpoint + path

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		retryAfter, err := c.do(ctx, url, payload, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) || attempt >= c.maxRetries {
			break
		}

		delay := jitter(c.backoffBase * time.Duration(1<<attempt))
		if retryAfter > 0 {
			delay = retryAfter
		}
		log.Debug().
			Str("component", "advisor").
			Str("operation", "post").
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(err).
			Msg("retrying suggestion request")

		if err := c.sleep(ctx, delay); err != nil {
			return fmt.Errorf("waiting to retry: %w", err)
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, url string, payload []byte, result any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &retryableError{err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, &retryableError{err: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		var retryAfter time.Duration
		if s, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && s > 0 {
			retryAfter = time.Duration(s) * time.Second
		}
		return retryAfter, &retryableError{err: fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return 0, nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	return 0, nil
}

func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	// Up to 25% extra.
	return d + time.Duration(rand.Int64N(int64(d)/4+1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
