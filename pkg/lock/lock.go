package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockBusy = errors.New("lock is held by another request")

const (
	lockTTL       = 30 * time.Second
	retryInterval = 100 * time.Millisecond
	maxRetries    = 10
)

// unlock verifies ownership before deleting so an expired holder can't
// release a lock re-acquired by someone else.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// Manager serializes payout creation per user via a redis SETNX lock.
// With no redis client configured it degrades to a no-op: single-instance
// deployments then rely on the database alone.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// WithUserLock runs fn while holding the per-user payout lock.
// Returns ErrLockBusy when the lock can't be acquired in time.
func (m *Manager) WithUserLock(ctx context.Context, userID int, fn func(ctx context.Context) error) error {
	if m.client == nil {
		return fn(ctx)
	}

	key := fmt.Sprintf("payout:lock:user:%d", userID)
	value := uuid.NewString()

	acquired := false
	for i := 0; i < maxRetries; i++ {
		ok, err := m.client.SetNX(ctx, key, value, lockTTL).Result()
		if err != nil {
			return fmt.Errorf("can't acquire payout lock: %w", err)
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	if !acquired {
		return ErrLockBusy
	}

	defer func() {
		unlockCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		m.client.Eval(unlockCtx, unlockScript, []string{key}, value)
	}()

	return fn(ctx)
}
