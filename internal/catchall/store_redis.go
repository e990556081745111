package catchall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adverot/emailfinder/pkg/platform/sentinel"
)

// Redis key prefix for catch-all verdicts
const verdictKeyPrefix = "catchall:domain:"

// RedisStore is a Redis-backed Store for deployments where multiple
// instances should share catch-all knowledge. Expiry is delegated to Redis
// through the key TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed verdict cache.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, domain string) (Verdict, error) {
	val, err := s.client.Get(ctx, verdictKeyPrefix+domain).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get verdict for %s: %w", domain, err)
	}
	switch v := Verdict(val); v {
	case VerdictCatchAll, VerdictNotCatchAll:
		return v, nil
	default:
		// Unrecognized payloads are treated as a miss rather than poisoning
		// every lookup for the domain.
		return "", sentinel.ErrNotFound
	}
}

func (s *RedisStore) Set(ctx context.Context, domain string, verdict Verdict, ttl time.Duration) error {
	if err := s.client.Set(ctx, verdictKeyPrefix+domain, string(verdict), ttl).Err(); err != nil {
		return fmt.Errorf("set verdict for %s: %w", domain, err)
	}
	return nil
}
