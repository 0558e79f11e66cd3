package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const xPostURL = "https://api.twitter.com/2/tweets"

// ErrRateLimited is returned when the X API rejects a post with HTTP
// 429. The post is dropped for this tick, not retried.
var ErrRateLimited = errors.New("rate limited by X API")

// XConfig holds X (Twitter) sink configuration.
type XConfig struct {
	TokenSource oauth2.TokenSource
	Endpoint    string // optional override, mainly for tests
	Timeout     time.Duration
	// PostsPerWindow and Window bound the local posting rate; the
	// free API tier allows very few writes per day.
	PostsPerWindow int
	Window         time.Duration
}

// XSink posts signal lines to the X feed with a local rate limiter in
// front of the API's own limits.
type XSink struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewXSink creates an X-backed social sink.
func NewXSink(cfg XConfig) (*XSink, error) {
	if cfg.TokenSource == nil {
		return nil, fmt.Errorf("oauth2 token source is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = xPostURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	posts := cfg.PostsPerWindow
	if posts <= 0 {
		posts = 1
	}
	window := cfg.Window
	if window <= 0 {
		window = 30 * time.Minute
	}

	client := oauth2.NewClient(context.Background(), cfg.TokenSource)
	client.Timeout = timeout

	return &XSink{
		endpoint: endpoint,
		client:   client,
		limiter:  rate.NewLimiter(rate.Every(window/time.Duration(posts)), posts),
	}, nil
}

// Name returns the sink name
func (s *XSink) Name() string {
	return "x"
}

// Deliver posts the signal line. A locally exhausted rate budget or
// an HTTP 429 both surface as ErrRateLimited.
func (s *XSink) Deliver(ctx context.Context, n Notification) error {
	if err := validateNotification(n); err != nil {
		return err
	}

	if !s.limiter.Allow() {
		return fmt.Errorf("%w: local budget exhausted", ErrRateLimited)
	}

	payload, err := json.Marshal(map[string]string{"text": n.Text})
	if err != nil {
		return fmt.Errorf("failed to encode post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to X: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("X API returned status %d", resp.StatusCode)
	}
	return nil
}
