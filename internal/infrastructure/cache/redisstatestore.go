package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ns-ai-search/console/internal/shared/biztime"
)

// DefaultStatePrefix namespaces connector state keys.
const DefaultStatePrefix = "connect:state:"

// RedisStateStore makes issued OAuth state values single use. Keys hold a
// digest of the state, never the state itself, since it carries the
// license key.
type RedisStateStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStateStore(client *redis.Client, prefix string) *RedisStateStore {
	if prefix == "" {
		prefix = DefaultStatePrefix
	}
	return &RedisStateStore{client: client, prefix: prefix}
}

// Save records an issued state until ttl passes.
func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	issued := strconv.FormatInt(biztime.NowUTC().Unix(), 10)
	if err := s.client.Set(ctx, s.buildKey(state), issued, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// Consume reports whether the state was issued and not used yet. GETDEL
// removes it in the same step, so a second callback with the same state
// gets false.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	err := s.client.GetDel(ctx, s.buildKey(state)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume state from redis: %w", err)
	}
	return true, nil
}

func (s *RedisStateStore) buildKey(state string) string {
	sum := sha256.Sum256([]byte(state))
	return s.prefix + hex.EncodeToString(sum[:])
}
