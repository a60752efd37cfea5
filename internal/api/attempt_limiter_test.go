package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)
	limiter := newAttemptLimiter(2, time.Hour)
	limiter.now = func() time.Time { return now }
	key := "127.0.0.1"

	limiter.now = func() time.Time { return now.Add(-2 * time.Hour) }
	limiter.recordFailure(key)
	limiter.now = func() time.Time { return now }
	limiter.recordFailure(key)
	if limiter.blocked(key) {
		t.Fatal("expected old attempt to be pruned from active window")
	}

	limiter.recordFailure(key)
	if !limiter.blocked(key) {
		t.Fatal("expected two recent attempts to hit limit 2")
	}

	limiter.reset(key)
	if limiter.blocked(key) {
		t.Fatal("expected no attempts after reset")
	}
}

func TestLoginAttemptKeySeparatesPhones(t *testing.T) {
	t.Parallel()

	first := loginAttemptKey("10.0.0.1", "081-234-5678")
	if first != loginAttemptKey("10.0.0.1", "0812345678") {
		t.Fatalf("expected formatted and bare phone to share a key, got %q", first)
	}
	if first == loginAttemptKey("10.0.0.1", "0899999999") {
		t.Fatal("expected different phones to use different keys")
	}
	if got := loginAttemptKey(" ", "0812345678"); got != "unknown|0812345678" {
		t.Fatalf("unexpected key for missing ip %q", got)
	}
}
