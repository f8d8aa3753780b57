package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRateLimiter struct {
	keys    []string
	allowed int
	err     error
}

func (f *fakeRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    f.allowed,
		Remaining:  f.allowed * 4,
		RetryAfter: 2 * time.Second,
	}, nil
}

func TestRateLimit(t *testing.T) {
	m := metrics.NewTestManager()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	newReq := func() *http.Request {
		req := httptest.NewRequest("POST", "/progress/evaluate/full", nil)
		req.RemoteAddr = "10.1.2.3:5555"
		return req
	}

	limiter := &fakeRateLimiter{allowed: 1}
	rr := httptest.NewRecorder()
	RateLimit(limiter, "evaluate", 10, m)(next).ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "evaluate:10.1.2.3", limiter.keys[0])
	assert.Equal(t, "4", rr.Header().Get("X-RateLimit-Remaining"))

	limiter = &fakeRateLimiter{allowed: 0}
	rr = httptest.NewRecorder()
	RateLimit(limiter, "evaluate", 10, m)(next).ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusTooEarly, rr.Code)
	assert.Contains(t, rr.Body.String(), "retry after 2.000000 seconds")
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterRateLimitedRequests))

	limiter = &fakeRateLimiter{err: errors.New("redis down")}
	rr = httptest.NewRecorder()
	RateLimit(limiter, "evaluate", 10, m)(next).ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
