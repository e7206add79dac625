package httpx

import (
	"net/http"
	"testing"
	"time"
)

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503} {
		if !RetryableStatus(code) {
			t.Fatalf("expected %d to be retryable", code)
		}
	}
	for _, code := range []int{200, 201, 400, 401, 404, 409} {
		if RetryableStatus(code) {
			t.Fatalf("expected %d not to be retryable", code)
		}
	}
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"2"}}}
	d := Backoff(resp, 1, 100*time.Millisecond, 10*time.Second)
	if d < 2*time.Second {
		t.Fatalf("expected at least 2s, got %v", d)
	}
}

func TestBackoffCapped(t *testing.T) {
	d := Backoff(nil, 100, 500*time.Millisecond, 2*time.Second)
	// Jitter can add up to 20 percent on top of the cap.
	if d > 2*time.Second+400*time.Millisecond {
		t.Fatalf("expected capped backoff, got %v", d)
	}
}

func TestBackoffGrowsWithAttempt(t *testing.T) {
	first := Backoff(nil, 1, time.Second, 0)
	third := Backoff(nil, 3, time.Second, 0)
	if third < first {
		t.Fatalf("expected attempt 3 backoff >= attempt 1: %v vs %v", third, first)
	}
	if first < time.Second {
		t.Fatalf("backoff below base: %v", first)
	}
}
