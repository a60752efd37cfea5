package api

import (
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/healthlog/internal/services"
)

// attemptLimiter counts failures per key inside a sliding window.
type attemptLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time
	now      func() time.Time
}

func newAttemptLimiter(limit int, window time.Duration) *attemptLimiter {
	return &attemptLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (limiter *attemptLimiter) blocked(key string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	return len(limiter.pruneLocked(key, limiter.now())) >= limiter.limit
}

func (limiter *attemptLimiter) recordFailure(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := limiter.now()
	limiter.attempts[key] = append(limiter.pruneLocked(key, now), now)
}

func (limiter *attemptLimiter) reset(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.attempts, key)
}

func (limiter *attemptLimiter) pruneLocked(key string, now time.Time) []time.Time {
	values := limiter.attempts[key]
	threshold := now.Add(-limiter.window)
	pruned := values[:0]
	for _, value := range values {
		if value.After(threshold) {
			pruned = append(pruned, value)
		}
	}

	if len(pruned) == 0 {
		delete(limiter.attempts, key)
		return nil
	}
	limiter.attempts[key] = pruned
	return pruned
}

// loginAttemptKey scopes failures to one phone number from one address, so
// patients sharing a clinic network do not lock each other out.
func loginAttemptKey(ip string, rawPhone string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}
	phone, err := services.NormalizePhone(rawPhone)
	if err != nil {
		phone = strings.TrimSpace(rawPhone)
	}
	return ip + "|" + phone
}
