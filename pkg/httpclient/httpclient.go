package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryClient wraps an http.Client with bounded exponential-backoff retry
// on server errors (5xx) and rate limiting (429). Any other status is
// returned immediately. After exhausting retries the last failed response
// is returned, not an error — callers inspect the status code.
type RetryClient struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewRetryClient(timeout time.Duration, maxRetries int, baseDelay time.Duration) *RetryClient {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &RetryClient{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// retryable reports whether the response status warrants a retry.
// 4xx client errors are not retried — the request itself is wrong.
func retryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

// Do executes the request, retrying on 5xx/429 with a doubling delay.
// Transport errors (connection refused, timeout) propagate immediately.
// Requests with a body must be built from a replayable source
// (bytes.Reader and friends set req.GetBody automatically).
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("replay request body: %w", err)
				}
				req.Body = body
			}

			delay := c.baseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}

		var err error
		resp, err = c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) {
			return resp, nil
		}
		if attempt < c.maxRetries {
			// Drain so the connection can be reused for the retry.
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
		}
	}
	return resp, nil
}
