package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hrmslite/hrms/internal/core/ports"
)

const defaultLockTTL = 30 * time.Second

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-taken by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// MarkLock is a short-lived mutual exclusion lock across client processes.
// Keys expire after ttl so a crashed holder cannot block marking for the day.
type MarkLock struct {
	client *redis.Client
	ttl    time.Duration
	token  string
}

var _ ports.MarkLock = (*MarkLock)(nil)

// NewMarkLock creates a MarkLock wrapping the given Redis client.
func NewMarkLock(client *redis.Client, ttl time.Duration) (*MarkLock, error) {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("mark lock token: %w", err)
	}
	return &MarkLock{client: client, ttl: ttl, token: hex.EncodeToString(buf)}, nil
}

// TryLock takes key if nobody holds it. It does not wait.
func (l *MarkLock) TryLock(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark lock acquire: %w", err)
	}
	return ok, nil
}

// Unlock releases key if this process still holds it.
func (l *MarkLock) Unlock(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, l.client, []string{key}, l.token).Err(); err != nil {
		return fmt.Errorf("mark lock release: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (l *MarkLock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
