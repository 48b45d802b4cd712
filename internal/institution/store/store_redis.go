package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tourmint/internal/institution/models"
	id "tourmint/pkg/domain"
)

// RedisSetKey holds the issuer set.
const RedisSetKey = "tourmint:institutions"

// RedisStore keeps the issuer set in a Redis set so several replicas share it.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: RedisSetKey}
}

func (s *RedisStore) Add(ctx context.Context, institution models.Institution) error {
	if err := s.client.SAdd(ctx, s.key, institution.ID.String()).Err(); err != nil {
		return fmt.Errorf("add institution: %w", err)
	}
	return nil
}

func (s *RedisStore) IsMember(ctx context.Context, identity id.Identity) (bool, error) {
	if identity.IsNil() {
		return false, nil
	}
	ok, err := s.client.SIsMember(ctx, s.key, identity.String()).Result()
	if err != nil {
		return false, fmt.Errorf("check institution: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("count institutions: %w", err)
	}
	return int(n), nil
}
