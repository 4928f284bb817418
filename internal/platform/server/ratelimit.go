package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// WithImageRateLimit throttles the avatar proxy and QR endpoints per client.
// A non-positive ImageRateLimit disables throttling.
func (s *Server) WithImageRateLimit(next http.Handler) http.Handler {
	if s.cfg.ImageRateLimit <= 0 {
		return next
	}
	limiter := newRateLimiter(s.cfg.ImageRateLimit, time.Minute)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isImageRoute(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		allowed, reset := limiter.Allow(clientIP(r), time.Now())
		if !allowed {
			retryAfter := int(time.Until(reset).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isImageRoute(path string) bool {
	return strings.HasPrefix(path, "/avatars/") || (strings.HasPrefix(path, "/users/") && strings.HasSuffix(path, "/qr.png"))
}

type rateLimiter struct {
	mu     sync.Mutex
	hits   map[string]rateBucket
	limit  int
	window time.Duration
}

type rateBucket struct {
	count int
	reset time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		hits:   make(map[string]rateBucket),
		limit:  limit,
		window: window,
	}
}

// Allow counts one hit for key and reports whether it fits the window.
// Expired buckets are dropped once the map grows past a few thousand keys.
func (l *rateLimiter) Allow(key string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.hits) > 4096 {
		for k, b := range l.hits {
			if now.After(b.reset) {
				delete(l.hits, k)
			}
		}
	}
	bucket, ok := l.hits[key]
	if !ok || now.After(bucket.reset) {
		bucket = rateBucket{count: 0, reset: now.Add(l.window)}
	}
	if bucket.count >= l.limit {
		l.hits[key] = bucket
		return false, bucket.reset
	}
	bucket.count++
	l.hits[key] = bucket
	return true, bucket.reset
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip, _, _ := strings.Cut(forwarded, ","); strings.TrimSpace(ip) != "" {
			return strings.TrimSpace(ip)
		}
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if strings.TrimSpace(r.RemoteAddr) != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
