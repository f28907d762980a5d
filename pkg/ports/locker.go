package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes work on one chat session across bot replicas,
// so two updates for the same chat never interleave their load and save.
type DistributedLocker interface {
	// Lock blocks until the session key is held or ctx ends. The lock lapses after ttl
	// if its holder dies; the returned UnlockFunc must be called once the session is saved.
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (UnlockFunc, error)
}
