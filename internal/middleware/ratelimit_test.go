package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimit_RetryAfter(t *testing.T) {
	limiter := newIPRateLimiter(1, 2)
	handler := rateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signin", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("10.0.0.1:1234").Code)
	require.Equal(t, http.StatusOK, do("10.0.0.1:1235").Code)

	rec := do("10.0.0.1:1236")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Another client has its own bucket.
	require.Equal(t, http.StatusOK, do("10.0.0.2:1234").Code)
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := newIPRateLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("10.0.0.1")
	now = now.Add(visitorTTL + time.Second)
	limiter.getLimiter("10.0.0.2")

	limiter.sweep()

	require.NotContains(t, limiter.visitors, "10.0.0.1")
	require.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestRateLimiter_SweepStopsWithContext(t *testing.T) {
	limiter := newIPRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.sweepEvery(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
