package capture

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"
)

// InProcess captures responses by serving the request inside this process.
// With a router it goes through the full router, middleware included;
// without one it calls the route's bare endpoint.
type InProcess struct {
	router  http.Handler
	timeout time.Duration
}

// NewInProcess creates an in-process capturer. router may be nil.
func NewInProcess(router http.Handler, timeout time.Duration) *InProcess {
	return &InProcess{router: router, timeout: timeout}
}

// Capture implements Capturer
func (c *InProcess) Capture(ctx context.Context, req Request) (*Response, error) {
	handler := c.router
	if handler == nil {
		handler = req.Route.Invoke
	}
	if handler == nil {
		return nil, ErrNoHandler
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), "http://localhost"+req.Path(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.RemoteAddr = "127.0.0.1:0"
	req.apply(httpReq)

	rec := httptest.NewRecorder()
	done := make(chan interface{}, 1)
	go func() {
		defer func() { done <- recover() }()
		handler.ServeHTTP(rec, httpReq)
	}()

	// a handler that ignores its context keeps running after the deadline;
	// its recorder is abandoned
	select {
	case r := <-done:
		if r != nil {
			return nil, fmt.Errorf("handler panicked: %v", r)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("capture %s %s: %w", req.Method(), req.Path(), ctx.Err())
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("capture %s %s: %w", req.Method(), req.Path(), err)
	}

	return &Response{
		Status: rec.Code,
		Header: rec.Header(),
		Body:   rec.Body.Bytes(),
	}, nil
}
