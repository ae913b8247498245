package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RateLimiter struct {
	redisClient    *redis.Client
	limit          int
	window         time.Duration
	trustedProxies []*net.IPNet
	logger         zerolog.Logger
}

// NewRateLimiter allows limit requests per client IP per window. A nil client
// disables limiting.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		redisClient: client,
		limit:       limit,
		window:      window,
		logger:      logger.With().Str("middleware", "ratelimit").Logger(),
	}
}

// TrustProxies sets the peers whose forwarding headers are honoured. Entries
// are CIDRs or single IPs.
func (rl *RateLimiter) TrustProxies(proxies []string) error {
	nets := make([]*net.IPNet, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(p)
		if err != nil {
			return fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		nets = append(nets, n)
	}
	rl.trustedProxies = nets
	return nil
}

// Limit counts requests under keySuffix. Redis failures let the request through.
func (rl *RateLimiter) Limit(keySuffix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil || rl.redisClient == nil || rl.limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, ClientIP(r, rl.trustedProxies))

			count, err := rl.redisClient.Incr(ctx, key).Result()
			if err != nil {
				rl.logger.Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := rl.redisClient.Expire(ctx, key, rl.window).Err(); err != nil {
					rl.logger.Warn().Err(err).Str("key", key).Msg("Failed to set rate limit window")
				}
			}

			if count > int64(rl.limit) {
				ttl, err := rl.redisClient.TTL(ctx, key).Result()
				if err != nil || ttl < 0 {
					ttl = rl.window
				}
				retryAfter := int(math.Ceil(ttl.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeJSON(w, http.StatusTooManyRequests, map[string]any{
					"error":      "Too many requests",
					"retryAfter": retryAfter,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the socket peer address. Forwarding headers are read only
// when the peer is a trusted proxy; X-Forwarded-For is walked from the right
// and the first untrusted hop wins.
func ClientIP(r *http.Request, trusted []*net.IPNet) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !isTrusted(peer, trusted) {
		return peer
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !isTrusted(hop, trusted) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func isTrusted(addr string, trusted []*net.IPNet) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
