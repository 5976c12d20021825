// internal/pkg/lock/lock.go
package lock

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// KeyedLocker serializes work per string key. The ingestion pipeline uses it
// to guard find-or-create resolution for one phone number at a time.
type KeyedLocker interface {
	// Acquire blocks until the key lock is held, the context is done, or the
	// wait budget runs out. The returned release func is safe to call once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// RedisLock is a keyed mutual-exclusion layer backed by Redis SET NX with a
// TTL, so a crashed holder cannot wedge a key forever.
type RedisLock struct {
	rdb     *redis.Client
	ttl     time.Duration
	retry   time.Duration
	maxWait time.Duration
}

func NewRedisLock(rdb *redis.Client, ttl, maxWait time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if maxWait <= 0 {
		maxWait = 5 * time.Second
	}
	return &RedisLock{
		rdb:     rdb,
		ttl:     ttl,
		retry:   25 * time.Millisecond,
		maxWait: maxWait,
	}
}

// Release only deletes the key when the stored token still matches, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *RedisLock) Acquire(ctx context.Context, key string) (func(), error) {
	token := ulid.Make().String()
	redisKey := "lock:" + key

	deadline := time.Now().Add(l.maxWait)
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.rdb, []string{redisKey}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, context.DeadlineExceeded
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}
