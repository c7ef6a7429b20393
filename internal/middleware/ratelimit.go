// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter caps catalog writes per client over a sliding window.
// Idle clients are swept on the request path at most once per window.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

// NewRateLimiter allows limit requests per client in any window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

// take records a request from client. When the client is over its
// limit it returns false and how long until the oldest hit ages out.
func (rl *RateLimiter) take(client string) (bool, time.Duration) {
	now := rl.now()
	since := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.window {
		rl.sweep(since)
		rl.lastSweep = now
	}

	recent := live(rl.hits[client], since)
	if len(recent) >= rl.limit {
		rl.hits[client] = recent
		return false, recent[0].Sub(since)
	}
	rl.hits[client] = append(recent, now)
	return true, 0
}

// sweep forgets clients with no hits after since. Callers hold rl.mu.
func (rl *RateLimiter) sweep(since time.Time) {
	for client, ts := range rl.hits {
		if len(live(ts, since)) == 0 {
			delete(rl.hits, client)
		}
	}
}

// live drops the leading hits at or before since. ts is in arrival order.
func live(ts []time.Time, since time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(since) {
		i++
	}
	return ts[i:]
}

// Middleware rejects requests over the limit with a JSON 429 and a
// Retry-After in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ok, wait := rl.take(ip)
		if !ok {
			secs := int((wait + time.Second - 1) / time.Second)
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path, "retry_after", secs)
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			jsonError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the leftmost X-Forwarded-For hop, then X-Real-IP,
// then the connection's address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndexByte(addr, ':'); i != -1 {
		return addr[:i]
	}
	return addr
}
