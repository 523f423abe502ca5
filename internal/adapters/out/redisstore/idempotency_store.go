// Package redisstore implements request deduplication on Redis. Keys are
// claimed with SetNX so exactly one attempt per idempotency key performs
// the operation; TTLs bound how long failed or finished claims linger.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"ordercore/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

const (
	statusPending = "pending"
	statusDone    = "done"
)

// releaseScript deletes the key only while it still marks an in-flight
// attempt, so a late Release cannot wipe a completed marker.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisIdempotencyStore implements ports.IdempotencyStore using a shared
// Redis client.
type RedisIdempotencyStore struct {
	client     *redis.Client
	pendingTTL time.Duration
	doneTTL    time.Duration
}

// NewRedisIdempotencyStore creates a store with the given claim lifetimes.
// pendingTTL bounds a crashed attempt's lock; doneTTL is the deduplication
// window for completed operations.
func NewRedisIdempotencyStore(client *redis.Client, pendingTTL, doneTTL time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client:     client,
		pendingTTL: pendingTTL,
		doneTTL:    doneTTL,
	}
}

// NewClient connects to Redis at the given address.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Begin claims the key for this attempt. Returns true when another attempt
// already holds or completed the key.
func (s *RedisIdempotencyStore) Begin(ctx context.Context, storeID kernel.StoreID, key string) (bool, error) {
	if err := storeID.Validate(); err != nil {
		return false, err
	}

	claimed, err := s.client.SetNX(ctx, redisKey(storeID, key), statusPending, s.pendingTTL).Result()
	if err != nil {
		return false, err
	}
	return !claimed, nil
}

// MarkDone records successful completion so later attempts short-circuit
// for the deduplication window.
func (s *RedisIdempotencyStore) MarkDone(ctx context.Context, storeID kernel.StoreID, key string) error {
	if err := storeID.Validate(); err != nil {
		return err
	}
	return s.client.Set(ctx, redisKey(storeID, key), statusDone, s.doneTTL).Err()
}

// Release frees a claimed key after a failed attempt. A key already marked
// done stays done.
func (s *RedisIdempotencyStore) Release(ctx context.Context, storeID kernel.StoreID, key string) error {
	if err := storeID.Validate(); err != nil {
		return err
	}
	return releaseScript.Run(ctx, s.client, []string{redisKey(storeID, key)}, statusPending).Err()
}

// Ping verifies connectivity on startup.
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

func redisKey(storeID kernel.StoreID, key string) string {
	return fmt.Sprintf("idempotency:%d:%s", storeID.Int64(), key)
}
