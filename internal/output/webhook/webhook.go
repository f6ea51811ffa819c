package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crimson-sun/triage/internal/model"
)

const (
	defaultTimeout = 10 * time.Second
	maxRetries     = 3
)

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.client.Timeout = d }
}

// Output POSTs each verdict to an HTTP endpoint as a JSON document, retrying
// on 5xx with exponential backoff (1s, 2s, 4s). Useful as an alerting hook:
// point it at a chat-webhook or incident intake URL.
type Output struct {
	client  *http.Client
	url     string
	headers map[string]string
}

// New creates a webhook output targeting the given URL.
func New(url string, opts ...Option) *Output {
	o := &Output{
		client: &http.Client{Timeout: defaultTimeout},
		url:    url,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Output) Write(ctx context.Context, result model.AnalysisResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("webhook output: %w", err)
	}

	var lastStatus int
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("webhook output: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range o.headers {
			req.Header.Set(k, v)
		}

		resp, err := o.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook output: %w", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		lastStatus = resp.StatusCode
		if resp.StatusCode < 500 {
			break
		}
	}

	return fmt.Errorf("webhook output: HTTP %d", lastStatus)
}

func (o *Output) Close() error {
	return nil
}
