package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter caps consumption of a per-minute token budget. Unlike a
// plain request limiter the cost of each call varies, so callers report
// how much they used and Wait blocks until the budget allows it.
type TokenLimiter struct {
	mu          sync.Mutex
	limit       int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limit:       maxPerMinute,
		windowStart: time.Now(),
	}
}

// Wait records a spend of n tokens, blocking until the current window has
// room for it. Spends larger than the whole budget are admitted alone.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		l.rotateWindow()
		if l.used+n <= l.limit || l.used == 0 {
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - time.Since(l.windowStart)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetRemaining returns the unspent budget in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateWindow()
	remaining := l.limit - l.used
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *TokenLimiter) rotateWindow() {
	if time.Since(l.windowStart) >= time.Minute {
		l.windowStart = time.Now()
		l.used = 0
	}
}
