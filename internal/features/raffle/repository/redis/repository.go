package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "raffle-tool-backend/internal/common/errors"
	"raffle-tool-backend/internal/features/raffle/models"
	redisplatform "raffle-tool-backend/internal/platform/redis"
)

const roundKey = "raffle:round"

// RoundRepository stores the round snapshot as a JSON value in Redis.
type RoundRepository struct {
	rdb *redisplatform.Client
}

func NewRoundRepository(rdb *redisplatform.Client) *RoundRepository {
	return &RoundRepository{rdb: rdb}
}

func (r *RoundRepository) Save(ctx context.Context, snap *models.RoundSnapshot) error {
	snap.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(snap)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal round snapshot")
	}

	if err := r.rdb.Set(ctx, roundKey, data, 0).Err(); err != nil {
		return apperrors.NewRedisError("save round snapshot", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when none exists yet.
func (r *RoundRepository) Load(ctx context.Context) (*models.RoundSnapshot, error) {
	data, err := r.rdb.Get(ctx, roundKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewRedisError("load round snapshot", err)
	}

	var snap models.RoundSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "unmarshal round snapshot")
	}
	return &snap, nil
}
