package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	redisplatform "raffle-tool-backend/internal/platform/redis"
)

const (
	requestKeyPrefix = "raffle:oracle:request:"
	// Fulfilled records are kept for a day for audit queries; pending
	// records never expire because a stuck draw must stay correlatable.
	fulfilledRetention = 24 * time.Hour
)

// RedisStore persists oracle request records in Redis.
type RedisStore struct {
	rdb *redisplatform.Client
}

func NewRedisStore(rdb *redisplatform.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Create(ctx context.Context, req *Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, requestKeyPrefix+req.RequestID, data, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, requestID string) (*Request, error) {
	data, err := s.rdb.Get(ctx, requestKeyPrefix+requestID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	var req Request
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *RedisStore) MarkFulfilled(ctx context.Context, requestID string) error {
	req, err := s.Get(ctx, requestID)
	if err != nil {
		return err
	}

	req.Status = RequestStatusFulfilled
	req.FulfilledAt = time.Now()

	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, requestKeyPrefix+requestID, data, fulfilledRetention).Err()
}
