package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatusCode() int { return int(e) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{context.DeadlineExceeded, true},
		{statusErr(http.StatusTooManyRequests), true},
		{statusErr(http.StatusBadGateway), true},
		{statusErr(http.StatusBadRequest), false},
		{fmt.Errorf("wrapped: %w", statusErr(http.StatusServiceUnavailable)), true},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("IsRetryableError(%v)=%v want %v", tc.err, got, tc.want)
		}
	}
}

func TestRetryAfterDurationCapsAtMax(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"30"}}}
	if got := RetryAfterDuration(resp, time.Second, 5*time.Second); got != 5*time.Second {
		t.Fatalf("RetryAfterDuration=%v want 5s", got)
	}
	if got := RetryAfterDuration(nil, time.Second, 5*time.Second); got != time.Second {
		t.Fatalf("RetryAfterDuration(nil)=%v want fallback", got)
	}
}

func TestBackoffStaysWithinJitterBounds(t *testing.T) {
	for attempt := 0; attempt < 6; attempt++ {
		d := Backoff(attempt, 100*time.Millisecond, time.Second)
		if d < 0 || d > 1200*time.Millisecond {
			t.Fatalf("Backoff(%d)=%v out of bounds", attempt, d)
		}
	}
}
