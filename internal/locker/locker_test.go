package locker

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLockerExcludesConcurrentHolders(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	unlock, ok, err := locker.TryLock(ctx, "cleanup:user:1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first lock to succeed, ok=%v err=%v", ok, err)
	}

	if _, ok, _ := locker.TryLock(ctx, "cleanup:user:1", time.Minute); ok {
		t.Fatal("expected second lock on the same key to fail")
	}
	if _, ok, _ := locker.TryLock(ctx, "cleanup:user:2", time.Minute); !ok {
		t.Fatal("expected lock on a different key to succeed")
	}

	if err := unlock(ctx); err != nil {
		t.Fatalf("unlock returned error: %v", err)
	}
	if _, ok, _ := locker.TryLock(ctx, "cleanup:user:1", time.Minute); !ok {
		t.Fatal("expected lock to be available after unlock")
	}
}

func TestMemoryLockerExpiredLeaseCanBeRetaken(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	locker.now = func() time.Time { return start }

	staleUnlock, ok, _ := locker.TryLock(ctx, "job", time.Second)
	if !ok {
		t.Fatal("expected first lock to succeed")
	}

	locker.now = func() time.Time { return start.Add(2 * time.Second) }
	_, ok, _ = locker.TryLock(ctx, "job", time.Second)
	if !ok {
		t.Fatal("expected expired lease to be retaken")
	}

	if err := staleUnlock(ctx); err != nil {
		t.Fatalf("stale unlock returned error: %v", err)
	}
	if _, ok, _ := locker.TryLock(ctx, "job", time.Second); ok {
		t.Fatal("expected stale unlock to leave the new holder in place")
	}
}
