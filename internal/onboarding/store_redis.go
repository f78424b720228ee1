package onboarding

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "onboarding:draft:"

// RedisDraftStore keeps drafts in redis with a TTL, so an abandoned
// onboarding session simply evaporates.
type RedisDraftStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDraftStore(rdb *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{rdb: rdb, ttl: 24 * time.Hour}
}

func (s *RedisDraftStore) Get(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	raw, err := s.rdb.Get(ctx, draftKeyPrefix+userID.String()).Bytes()
	if err == redis.Nil {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *RedisDraftStore) Put(ctx context.Context, userID uuid.UUID, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKeyPrefix+userID.String(), raw, s.ttl).Err()
}

func (s *RedisDraftStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, draftKeyPrefix+userID.String()).Err()
}
