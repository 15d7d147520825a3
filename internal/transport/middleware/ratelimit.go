package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fixedWindow tracks one client's request count inside the current window.
type fixedWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-client-IP limiter. Counts reset fully at
// the window boundary rather than draining continuously, so the
// X-RateLimit-Reset header can promise an exact instant.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*fixedWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*fixedWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a hit for the client and reports whether it is within the
// limit. remaining is the number of further hits the window will accept.
func (rl *RateLimiter) Allow(clientIP string) (allowed bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.currentWindow(clientIP)
	if w.count >= rl.limit {
		return false, 0, w.resetAt
	}

	w.count++
	return true, rl.limit - w.count, w.resetAt
}

// Peek reports the window state without consuming a hit.
func (rl *RateLimiter) Peek(clientIP string) (allowed bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.currentWindow(clientIP)
	return w.count < rl.limit, rl.limit - w.count, w.resetAt
}

// Record counts a hit without an admission check. Used by the login limiter,
// which only counts failed attempts after the fact.
func (rl *RateLimiter) Record(clientIP string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.currentWindow(clientIP).count++
}

// currentWindow returns the live window for the client, rotating an expired
// one. Callers must hold rl.mu.
func (rl *RateLimiter) currentWindow(clientIP string) *fixedWindow {
	now := rl.now()
	w, ok := rl.windows[clientIP]
	if !ok || !now.Before(w.resetAt) {
		w = &fixedWindow{resetAt: now.Add(rl.window)}
		rl.windows[clientIP] = w
	}
	return w
}

// Sweep drops expired windows so the map does not grow with every IP ever
// seen. Call it periodically.
func (rl *RateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, ip)
		}
	}
}

// GeneralRateLimit limits every request per client IP, exempting the health
// endpoints so probes never get throttled.
func GeneralRateLimit(rl *RateLimiter, exemptPaths ...string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining, resetAt := rl.Allow(ClientIP(r))
			setRateLimitHeaders(w, rl.limit, remaining, resetAt)
			if !allowed {
				writeRateLimited(w, "too many requests, try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoginRateLimit guards the login endpoint. Only failed attempts count
// against the limit: a successful login inside the window costs nothing, so
// a legitimate user who eventually gets the password right is not punished
// for the earlier typos beyond the failure budget.
func LoginRateLimit(rl *RateLimiter, disabled bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if disabled {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := ClientIP(r)
			allowed, remaining, resetAt := rl.Peek(clientIP)
			setRateLimitHeaders(w, rl.limit, remaining, resetAt)
			if !allowed {
				logger.Warn("login rate limit exceeded", "client_ip", clientIP)
				writeRateLimited(w, "too many failed login attempts, try again later")
				return
			}

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			if sw.Status() >= http.StatusBadRequest {
				rl.Record(clientIP)
			}
		})
	}
}

// statusWriter captures the response status for post-hoc accounting.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.statusCode = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Status() int {
	if sw.statusCode == 0 {
		return http.StatusOK
	}
	return sw.statusCode
}

func setRateLimitHeaders(w http.ResponseWriter, limit, remaining int, resetAt time.Time) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func writeRateLimited(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ClientIP resolves the originating client address, preferring proxy headers
// over the socket peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ips := strings.Split(xff, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	remoteAddr := r.RemoteAddr
	if colonIndex := strings.LastIndex(remoteAddr, ":"); colonIndex != -1 {
		remoteAddr = remoteAddr[:colonIndex]
	}
	return remoteAddr
}
