package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"recipe-giving/types"
)

// RateLimiter is a sliding-window request limit per client
type RateLimiter struct {
	limits map[string][]time.Time // client -> request timestamps
	max    int
	window time.Duration
	now    func() time.Time
	mutex  sync.Mutex
}

// NewRateLimiter allows max requests per client within window
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

// Allow checks whether client is within its limit and records the request
func (rl *RateLimiter) Allow(client string) (allowed bool, remaining int, resetTime time.Time) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	filtered := rl.recent(rl.limits[client], now)
	resetTime = now.Add(rl.window)

	if len(filtered) >= rl.max {
		rl.limits[client] = filtered
		// The oldest request leaving the window frees a slot
		return false, 0, filtered[0].Add(rl.window)
	}

	filtered = append(filtered, now)
	rl.limits[client] = filtered
	return true, rl.max - len(filtered), resetTime
}

func (rl *RateLimiter) recent(timestamps []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	filtered := timestamps[:0:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			filtered = append(filtered, ts)
		}
	}
	return filtered
}

// Prune drops clients with no requests inside the window
func (rl *RateLimiter) Prune() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	removed := 0
	for client, timestamps := range rl.limits {
		filtered := rl.recent(timestamps, now)
		if len(filtered) == 0 {
			delete(rl.limits, client)
			removed++
		} else {
			rl.limits[client] = filtered
		}
	}
	return removed
}

// RunCleanup prunes idle clients every interval until ctx is done
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Prune(); n > 0 {
				logrus.WithField("removed", n).Debug("🧹 Pruned rate limit entries")
			}
		}
	}
}

// limitCharities rejects clients over the limit with the empty charity shape
func (h *Handler) limitCharities(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := h.clientIP(r)
		allowed, remaining, reset := h.limiter.Allow(ip)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			loggerFrom(r).WithField("client_ip", ip).Warn("⚠️  Charity proxy rate limit exceeded")
			w.Header().Set("Access-Control-Allow-Origin", "*")
			retry := int(reset.Sub(h.limiter.now()).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeJSON(w, http.StatusTooManyRequests, charitiesResponse{
				Error:       "Too many requests",
				CharityPage: types.EmptyCharityPage(parseStart(r)),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
