package httpx

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/gatekeep/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters. The env tags are
// relative so a service config can nest it under a prefix such as
// RATELIMIT_STRICT_.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int `env:"REQUESTS"`
	// Window is the time window for rate limiting
	Window time.Duration `env:"WINDOW"`
	// Burst allows for temporary bursts above the rate limit
	Burst int `env:"BURST"`
}

// Rate limit profiles for the auth endpoints.
var (
	// StrictLimit guards credential endpoints (login, register) against
	// brute force: 5 requests per minute per key.
	StrictLimit = RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}

	// ModerateLimit guards token refresh: 20 requests per minute per key.
	ModerateLimit = RateLimitConfig{
		RequestsPerWindow: 20,
		Window:            time.Minute,
		Burst:             20,
	}
)

// Valid reports whether every field is positive.
func (c RateLimitConfig) Valid() bool {
	return c.RequestsPerWindow > 0 && c.Window > 0 && c.Burst > 0
}

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor keys requests by the connecting peer. Forwarding headers
// are ignored, since any client can set them.
func IPKeyExtractor(r *http.Request) string {
	return ClientIP(r, nil)
}

// TrustedProxyKeyExtractor keys requests by client IP, reading
// X-Forwarded-For only when the peer is one of trusted.
func TrustedProxyKeyExtractor(trusted []netip.Prefix) KeyExtractor {
	return func(r *http.Request) string {
		return ClientIP(r, trusted)
	}
}

// ClientIP returns the address of the client that sent r. When the peer is
// a trusted proxy, X-Forwarded-For is walked from the right and the first
// hop outside trusted wins. Unparseable hops stop the walk at the last
// trusted address.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(peer, trusted) {
		return host
	}

	client := peer
	hops := r.Header.Values("X-Forwarded-For")
	for i := len(hops) - 1; i >= 0; i-- {
		parts := strings.Split(hops[i], ",")
		for j := len(parts) - 1; j >= 0; j-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(parts[j]))
			if err != nil {
				return client.String()
			}
			client = hop.Unmap()
			if !isTrusted(client, trusted) {
				return client.String()
			}
		}
	}
	return client.String()
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseTrustedProxies parses CIDRs or bare addresses, such as the entries of
// RATELIMIT_TRUSTED_PROXIES.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// idleEviction is how long a key may go unseen before its limiter is dropped.
const idleEviction = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// rateLimiter keeps one token bucket per key.
type rateLimiter struct {
	entries sync.Map // map[string]*limiterEntry
	rate    rate.Limit
	burst   int

	mu        sync.Mutex
	nextSweep time.Time
	now       func() time.Time
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		rate:      rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:     config.Burst,
		nextSweep: time.Now().Add(idleEviction),
		now:       time.Now,
	}
}

// allow consumes a token for key and, when refused, reports how long until
// the next token frees up.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()

	v, ok := rl.entries.Load(key)
	if !ok {
		v, _ = rl.entries.LoadOrStore(key, &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	}
	entry := v.(*limiterEntry)
	entry.lastSeen.Store(now.UnixNano())

	rl.maybeSweep(now)

	res := entry.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// maybeSweep drops limiters for keys that have been idle for a while.
func (rl *rateLimiter) maybeSweep(now time.Time) {
	rl.mu.Lock()
	if now.Before(rl.nextSweep) {
		rl.mu.Unlock()
		return
	}
	rl.nextSweep = now.Add(idleEviction)
	rl.mu.Unlock()

	cutoff := now.Add(-idleEviction).UnixNano()
	rl.entries.Range(func(key, value any) bool {
		if value.(*limiterEntry).lastSeen.Load() < cutoff {
			rl.entries.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware creates a rate limiting middleware with the given configuration.
// The keyExtractor determines how requests are grouped for rate limiting.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	rl := newRateLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, delay := rl.allow(key)
			if !ok {
				retryAfter := max(int(delay.Seconds()), 1)

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Window", config.Window.String())

				log.Warn("rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)

				WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP creates a rate limiter keyed by client IP. Forwarding
// headers are honoured only from the trusted proxies.
func RateLimitByIP(config RateLimitConfig, trusted ...netip.Prefix) Middleware {
	return RateLimitMiddleware(config, TrustedProxyKeyExtractor(trusted))
}
