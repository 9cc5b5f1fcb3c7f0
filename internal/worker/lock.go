package worker

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLocked is returned when another invocation of the same job holds the
// lock.
var ErrLocked = errors.New("worker: job already running")

// Locker serializes overlapping invocations of one job. It never replaces
// the storage-level idempotency of the jobs themselves.
type Locker interface {
	// Acquire takes the named lock for ttl. ok is false when it is held
	// elsewhere. release is non-nil only when ok is true.
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// NoopLocker always grants the lock.
type NoopLocker struct{}

// Acquire implements Locker.
func (NoopLocker) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-taken by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX.
type RedisLocker struct {
	Client *redis.Client
	Prefix string
}

// NewRedisLocker connects to addr.
func NewRedisLocker(addr, password string, db int) *RedisLocker {
	return &RedisLocker{
		Client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		Prefix: "rentd:lock:",
	}
}

// Acquire implements Locker.
func (l *RedisLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := l.Prefix + name
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	release := func() {
		// Detached so a cancelled request still frees the lock.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.Client, []string{key}, token).Err()
	}
	return release, true, nil
}

// Close releases the Redis connection pool.
func (l *RedisLocker) Close() error { return l.Client.Close() }

// withLock runs fn while holding the job lock. A nil locker means no lock.
func withLock(ctx context.Context, lk Locker, name string, ttl time.Duration, fn func() error) error {
	if lk == nil {
		return fn()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	release, ok, err := lk.Acquire(ctx, name, ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLocked
	}
	defer release()
	return fn()
}
