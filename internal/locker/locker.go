package locker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Unlock releases a held lock. It is safe to call after the lock expired.
type Unlock func(ctx context.Context) error

// Locker hands out short-lived advisory locks keyed by name. TryLock never
// waits: ok is false when someone else holds the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock Unlock, ok bool, err error)
}

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker serialises work inside one process.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	now    func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{leases: map[string]memoryLease{}, now: time.Now}
}

func (locker *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (Unlock, bool, error) {
	locker.mu.Lock()
	defer locker.mu.Unlock()

	now := locker.now()
	if lease, held := locker.leases[key]; held && now.Before(lease.expiresAt) {
		return nil, false, nil
	}

	token := uuid.NewString()
	locker.leases[key] = memoryLease{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		locker.mu.Lock()
		defer locker.mu.Unlock()
		if lease, held := locker.leases[key]; held && lease.token == token {
			delete(locker.leases, key)
		}
		return nil
	}, true, nil
}
