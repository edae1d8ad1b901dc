package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	per     time.Duration
	buckets map[string]*bucket
}

// allow records a request from ip and reports whether it is within the
// window. When blocked, retryAfter holds whole seconds until the window
// resets. Expired buckets are swept on every call so the map does not grow
// with every distinct client IP ever seen.
func (l *rateLimiter) allow(ip string, now time.Time) (allowed bool, retryAfter int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, old := range l.buckets {
		if now.After(old.until) {
			delete(l.buckets, key)
		}
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{until: now.Add(l.per)}
		l.buckets[ip] = b
	}
	if b.count >= l.limit {
		return false, int(b.until.Sub(now).Seconds()) + 1
	}
	b.count++
	return true, 0
}

func (l *rateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit caps requests per client IP over a fixed window. It fronts the
// donation initiation endpoint so a misbehaving client cannot spam push
// prompts to a member's handset.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	limiter := &rateLimiter{limit: limit, per: per, buckets: make(map[string]*bucket)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := limiter.allow(clientIPForRateLimit(r), time.Now())
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "rate_limited",
						"message": "too many requests, slow down",
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
