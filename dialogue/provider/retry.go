package provider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// RetryPolicy holds the waits between attempts; the number of attempts is len(waits)+1.
type RetryPolicy struct {
	RateLimitWaits   []time.Duration
	ServerErrorWaits []time.Duration
}

// DefaultRetryPolicy suits a local llama.cpp/vLLM server: short waits for a busy slot, longer ones
// for hosted endpoints that return 429.
var DefaultRetryPolicy = RetryPolicy{
	RateLimitWaits:   []time.Duration{10 * time.Second, 30 * time.Second},
	ServerErrorWaits: []time.Duration{2 * time.Second, 5 * time.Second},
}

// CallWithRetry runs call, retrying rate-limit and server errors according to p.
// Other errors are returned immediately.
func CallWithRetry[T any](ctx context.Context, p RetryPolicy, call func(context.Context) (T, error)) (T, error) {
	var zero T
	rateAttempts, serverAttempts := 0, 0
	for {
		resp, err := call(ctx)
		if err == nil {
			return resp, nil
		}

		var wait time.Duration
		switch {
		case isRateLimitError(err) && rateAttempts < len(p.RateLimitWaits):
			wait = p.RateLimitWaits[rateAttempts]
			rateAttempts++
		case isServerError(err) && serverAttempts < len(p.ServerErrorWaits):
			wait = p.ServerErrorWaits[serverAttempts]
			serverAttempts++
		default:
			if rateAttempts+serverAttempts > 0 {
				return zero, fmt.Errorf("failed after %d attempts: %w", rateAttempts+serverAttempts+1, err)
			}
			return zero, err
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		case <-t.C:
		}
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error") ||
		strings.Contains(errStr, "loading model")
}
