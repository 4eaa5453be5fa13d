package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ResponseError is returned for any non-2xx service response. Body holds a
// bounded excerpt of the response for diagnostics.
type ResponseError struct {
	StatusCode int
	URL        string
	Body       string
	RetryAfter time.Duration
}

// Error returns a string representation of the error.
func (e *ResponseError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: %s returned %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("api: %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// IsRetryable reports whether err is worth retrying. Transport-level errors
// and 5xx/408/429 responses are retryable; any other 4xx is terminal, as is
// context cancellation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		switch {
		case respErr.StatusCode >= 500:
			return true
		case respErr.StatusCode == http.StatusRequestTimeout,
			respErr.StatusCode == http.StatusTooManyRequests:
			return true
		default:
			return false
		}
	}

	// connection resets, refused dials, etc.
	return true
}
