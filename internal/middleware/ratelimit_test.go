package middleware

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
})

func trusted(t *testing.T, proxies ...string) []*net.IPNet {
	t.Helper()
	rl := NewRateLimiter(nil, 0, time.Minute, zerolog.Nop())
	require.NoError(t, rl.TrustProxies(proxies))
	return rl.trustedProxies
}

func TestClientIP_IgnoresHeadersFromUntrustedPeer(t *testing.T) {
	keys := map[string]bool{}
	for _, fwd := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		req.Header.Set("X-Real-IP", fwd)
		keys[ClientIP(req, nil)] = true
	}
	assert.Equal(t, map[string]bool{"203.0.113.7": true}, keys)
}

func TestClientIP_TrustedProxy(t *testing.T) {
	proxies := trusted(t, "10.0.0.0/8", "192.168.1.1")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.5:5555"
	assert.Equal(t, "10.0.0.5", ClientIP(req, proxies), "no headers")

	req.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", ClientIP(req, proxies))

	// The left-most hop is client supplied; the right-most untrusted hop is the real client.
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 203.0.113.9, 192.168.1.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req, proxies))

	req.RemoteAddr = "192.168.1.1:80"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.1.1.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req, proxies))
}

func TestRateLimiter_TrustProxiesRejectsGarbage(t *testing.T) {
	rl := NewRateLimiter(nil, 0, time.Minute, zerolog.Nop())
	assert.Error(t, rl.TrustProxies([]string{"not-an-ip"}))
	assert.Error(t, rl.TrustProxies([]string{"10.0.0.0/99"}))
	assert.NoError(t, rl.TrustProxies([]string{"", "::1", "fd00::/8"}))
	assert.Len(t, rl.trustedProxies, 2)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute, zerolog.Nop())
	h := rl.Limit("lead")(okHandler)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestRateLimiter_WithRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set, skip redis integration test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	scope := "test-" + uuid.NewString()
	h := NewRateLimiter(client, 2, time.Minute, zerolog.Nop()).Limit(scope)(okHandler)

	codes := []int{}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), "retryAfter")
		}
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}
