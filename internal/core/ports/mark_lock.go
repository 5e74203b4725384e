package ports

import "context"

// MarkLock serialises attendance marks for the same employee and day across
// processes. TryLock reports false when another holder owns the key.
type MarkLock interface {
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}
