// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimits struct {
	mu       sync.Mutex
	policies []string
}

func (c *countingLimits) RateLimited(_ context.Context, policy string) {
	c.mu.Lock()
	c.policies = append(c.policies, policy)
	c.mu.Unlock()
}

// unreachableRedis forces every request onto the local bucket.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimiter_LocalFallback(t *testing.T) {
	recorder := &countingLimits{}
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Policy: Policy{
			Name:  "inquiry",
			Limit: PerMinute(2, 2),
			Key:   KeyBySubmitter,
		},
		Recorder: recorder,
	})

	var called int
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called++
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/inquiries", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, send("10.0.0.1:5000").Code)
	assert.Equal(t, http.StatusCreated, send("10.0.0.1:5001").Code)

	limited := send("10.0.0.1:5002")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusCreated, send("10.0.0.2:5000").Code)
	assert.Equal(t, 3, called)
	assert.Equal(t, []string{"inquiry"}, recorder.policies)
}

func TestKeyBySubmitter(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/inquiries", nil)
	req.RemoteAddr = "192.0.2.7:4100"
	assert.Equal(t, "ip:192.0.2.7", KeyBySubmitter(req))

	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: "user-1"}))
	assert.Equal(t, "user:user-1", KeyBySubmitter(req))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "nearest proxy hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.9, 198.51.100.4"}, remote: "10.0.0.1:80", want: "198.51.100.4"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.8"}, remote: "10.0.0.1:80", want: "198.51.100.8"},
		{name: "no port", remote: "192.0.2.5", want: "192.0.2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func TestMemoryLimiter_SweepsIdleEntries(t *testing.T) {
	m := newMemoryLimiter()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.allow("a", PerMinute(10, 1))
	require.Len(t, m.entries, 1)

	now = now.Add(entryIdle + sweepInterval + time.Second)
	m.allow("b", PerMinute(10, 1))

	assert.Len(t, m.entries, 1)
	assert.Contains(t, m.entries, "b")
}
