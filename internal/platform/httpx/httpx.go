package httpx

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError is returned by Do when the final response is not 2xx.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *StatusError) HTTPStatusCode() int { return e.StatusCode }

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

func IsRetryableHTTPStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

func IsRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	return false
}

func RetryAfterDuration(resp *http.Response, fallback, max time.Duration) time.Duration {
	sleepFor := fallback
	if resp != nil {
		if ra := strings.TrimSpace(resp.Header.Get("Retry-After")); ra != "" {
			if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
				sleepFor = time.Duration(secs) * time.Second
			}
		}
	}
	if max > 0 && sleepFor > max {
		sleepFor = max
	}
	return sleepFor
}

// JitterSleep spreads base by +/-20%.
func JitterSleep(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := float64(base) * 0.2
	return time.Duration(float64(base) - delta + rand.Float64()*2*delta)
}

// Retry describes how GetWithRetry backs off between attempts.
type Retry struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// GetWithRetry issues a GET and retries retryable failures. On success the
// caller owns the response body.
func GetWithRetry(ctx context.Context, client *http.Client, url string, r Retry) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if r.Attempts <= 0 {
		r.Attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < r.Attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		wait := JitterSleep(r.Base << attempt)
		if err == nil {
			lastErr = &StatusError{URL: url, StatusCode: resp.StatusCode}
			wait = RetryAfterDuration(resp, wait, r.Max)
			_ = resp.Body.Close()
		} else {
			lastErr = err
		}
		if !IsRetryableError(lastErr) || attempt == r.Attempts-1 {
			break
		}
		if r.Max > 0 && wait > r.Max {
			wait = r.Max
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}
