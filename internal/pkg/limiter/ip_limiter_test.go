package limiter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestIPRateLimiter_BurstThenReject(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewIPRateLimiter(ctx, rate.Limit(0.001), 2)

	req.True(l.Allow("10.0.0.1"))
	req.True(l.Allow("10.0.0.1"))
	req.False(l.Allow("10.0.0.1"))

	// Buckets are per address.
	req.True(l.Allow("10.0.0.2"))
	req.Equal(2, l.Len())
}

func TestIPRateLimiter_SweepDropsRefilledBuckets(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewIPRateLimiter(ctx, rate.Limit(1), 1)
	l.GetLimiter("10.0.0.1")
	req.True(l.Allow("10.0.0.2"))

	removed := l.sweep(time.Now())

	req.Equal(1, removed)
	req.Equal(1, l.Len())

	removed = l.sweep(time.Now().Add(2 * time.Second))
	req.Equal(1, removed)
	req.Equal(0, l.Len())
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewIPRateLimiter(ctx, rate.Limit(0.001), 1)
	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.RemoteAddr = "192.0.2.10:4000"
	handler.ServeHTTP(first, r)
	req.Equal(http.StatusNoContent, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, r)
	req.Equal(http.StatusTooManyRequests, second.Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	r.RemoteAddr = "198.51.100.3:1234"
	require.Equal(t, "198.51.100.3", ClientIP(r))

	r.RemoteAddr = ""
	require.Equal(t, "unknown_ip", ClientIP(r))
}
