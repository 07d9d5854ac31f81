package lock

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed scripts/release_lock.lua
var releaseScript string

// ErrNotHeld is returned when releasing a lock owned by someone else.
var ErrNotHeld = errors.New("lock not held")

// Locker is a mutual exclusion shared by every replica.
type Locker interface {
	// Acquire returns false when another holder owns the lock.
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker holds a key with a random owner token. Release only deletes the
// key while the token still matches, so an expired lock taken over by another
// replica is left alone.
type RedisLocker struct {
	client redisClient
	key    string
	ttl    time.Duration
	token  string
	logger *zap.Logger
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// NewRedisLocker creates a locker on client.
func NewRedisLocker(client redisClient, cfg Config, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	key := cfg.Key
	if key == "" {
		key = "stock-sync:cycle"
	}
	return &RedisLocker{client: client, key: key, ttl: ttl, logger: logger}
}

// Acquire sets the key if it is free.
func (l *RedisLocker) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", l.key, err)
	}
	if !ok {
		l.logger.Debug("Lock held elsewhere", zap.String("key", l.key))
		return false, nil
	}
	l.token = token
	return true, nil
}

// Release deletes the key if this locker still owns it.
func (l *RedisLocker) Release(ctx context.Context) error {
	if l.token == "" {
		return ErrNotHeld
	}
	token := l.token
	l.token = ""

	deleted, err := l.client.Eval(ctx, releaseScript, []string{l.key}, token).Int64()
	if err != nil {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	if deleted == 0 {
		l.logger.Warn("Lock expired before release", zap.String("key", l.key))
		return ErrNotHeld
	}
	return nil
}
