package server

import (
	"sync"
	"time"
)

// RateLimiter is an in-memory fixed-window limiter with separate
// budgets per telegram id and per remote IP.
type RateLimiter struct {
	mu         sync.Mutex
	userWindow map[int64]*window
	ipWindow   map[string]*window

	userMax int
	ipMax   int
	period  time.Duration
}

type window struct {
	requests int
	resetAt  time.Time
}

func NewRateLimiter(userMax, ipMax int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userWindow: make(map[int64]*window),
		ipWindow:   make(map[string]*window),
		userMax:    userMax,
		ipMax:      ipMax,
		period:     period,
	}

	go rl.cleanup()

	return rl
}

// AllowUser reports whether the user has budget left in the current
// window, consuming one request if so.
func (rl *RateLimiter) AllowUser(telegramID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.userWindow[telegramID]
	if !ok || now.After(w.resetAt) {
		rl.userWindow[telegramID] = &window{requests: 1, resetAt: now.Add(rl.period)}
		return true
	}
	if w.requests >= rl.userMax {
		return false
	}
	w.requests++
	return true
}

// AllowIP is AllowUser for the remote address budget.
func (rl *RateLimiter) AllowIP(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.ipWindow[ip]
	if !ok || now.After(w.resetAt) {
		rl.ipWindow[ip] = &window{requests: 1, resetAt: now.Add(rl.period)}
		return true
	}
	if w.requests >= rl.ipMax {
		return false
	}
	w.requests++
	return true
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for id, w := range rl.userWindow {
			if now.After(w.resetAt) {
				delete(rl.userWindow, id)
			}
		}
		for ip, w := range rl.ipWindow {
			if now.After(w.resetAt) {
				delete(rl.ipWindow, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Reset clears all windows.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userWindow = make(map[int64]*window)
	rl.ipWindow = make(map[string]*window)
}
