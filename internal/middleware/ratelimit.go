package middleware

import (
	"math"
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

// RateLimit allows limit requests per window for each caller. Authenticated
// callers are keyed by principal, everyone else by client IP. A non-positive
// limit disables the check.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	buckets := make(map[string]*bucket)
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateLimitKey(r)
			now := time.Now()

			mu.Lock()
			if len(buckets) > 4096 {
				for k, b := range buckets {
					if now.After(b.until) {
						delete(buckets, k)
					}
				}
			}
			b, ok := buckets[key]
			if !ok || now.After(b.until) {
				b = &bucket{until: now.Add(per)}
				buckets[key] = b
			}
			if b.count >= limit {
				retry := int(math.Ceil(b.until.Sub(now).Seconds()))
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			b.count++
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if p, ok := PrincipalFromContext(r.Context()); ok {
		return "principal:" + p.ID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
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
