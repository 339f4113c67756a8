package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodySize caps the captured response body
const maxBodySize = 4 << 20

// Remote captures responses from a running instance of the application
type Remote struct {
	baseURL    string
	httpClient *http.Client
	limiter    RateLimiter
}

// RemoteOption configures a Remote capturer
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		r.httpClient = client
	}
}

// WithRateLimiter replaces the default limiter
func WithRateLimiter(limiter RateLimiter) RemoteOption {
	return func(r *Remote) {
		r.limiter = limiter
	}
}

// NewRemote creates a capturer that sends requests to baseURL
func NewRemote(baseURL string, timeout time.Duration, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    NewTokenBucketLimiter(0, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capture implements Capturer
func (r *Remote) Capture(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := r.baseURL + req.Path()
	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.apply(httpReq)

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("capture %s %s: %w", req.Method(), url, err)
	}
	defer resp.Body.Close()

	updateFromHeaders(r.limiter, resp.Header)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}
