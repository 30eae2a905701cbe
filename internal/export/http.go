package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"ab-tracker/internal/events"
)

const (
	defaultAttempts = 3
	defaultMinDelay = 500 * time.Millisecond
	defaultTimeout  = 10 * time.Second
)

// HTTPSink posts event batches as JSON to an analytics ingestion
// endpoint, retrying transient failures.
type HTTPSink struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	attempts uint
	delay    time.Duration
}

type HTTPSinkOption func(*HTTPSink)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) HTTPSinkOption {
	return func(s *HTTPSink) { s.client = c }
}

// WithRetry overrides the attempt count and base delay.
func WithRetry(attempts uint, delay time.Duration) HTTPSinkOption {
	return func(s *HTTPSink) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if delay > 0 {
			s.delay = delay
		}
	}
}

func NewHTTPSink(endpoint string, logger *zap.Logger, opts ...HTTPSinkOption) *HTTPSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &HTTPSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,
		attempts: defaultAttempts,
		delay:    defaultMinDelay,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *HTTPSink) Send(ctx context.Context, batch events.Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	return retry.Do(
		func() error { return s.post(ctx, payload) },
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			s.logger.Warn("export retry", zap.Uint("attempt", attempt), zap.Error(err))
		}),
	)
}

func (s *HTTPSink) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("export endpoint returned %s", resp.Status)
	}
	return nil
}
