package oracle

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	redisplatform "raffle-tool-backend/internal/platform/redis"
)

// RequestStreamKey is the Redis stream the external oracle service consumes.
const RequestStreamKey = "oracle:requests"

// StreamSource publishes randomness requests to a Redis stream for an
// external oracle service. The matching fulfillments come back on the
// oracle:fulfillments stream, consumed by the fulfillment worker.
type StreamSource struct {
	rdb *redisplatform.Client
}

func NewStreamSource(rdb *redisplatform.Client) *StreamSource {
	return &StreamSource{rdb: rdb}
}

func (s *StreamSource) RequestRandomWords(ctx context.Context, req RandomWordsRequest) (string, error) {
	requestID := uuid.New().String()

	err := s.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: RequestStreamKey,
		Values: map[string]interface{}{
			"request_id":         requestID,
			"key_hash":           req.KeyHash,
			"subscription_id":    strconv.FormatUint(req.SubscriptionID, 10),
			"confirmations":      strconv.Itoa(req.Confirmations),
			"callback_gas_limit": strconv.FormatUint(uint64(req.CallbackGasLimit), 10),
			"num_words":          strconv.Itoa(req.NumWords),
		},
	}).Err()
	if err != nil {
		return "", err
	}

	return requestID, nil
}
