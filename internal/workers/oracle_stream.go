package workers

import (
	"context"
	"math/big"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"raffle-tool-backend/internal/common/logger"
	"raffle-tool-backend/internal/oracle"
	redisplatform "raffle-tool-backend/internal/platform/redis"
)

const (
	fulfillmentStreamKey = "oracle:fulfillments"
	consumerGroup        = "raffle_backend_consumers"
	consumerName         = "raffle_worker_1"
)

// OracleStreamWorker consumes oracle fulfillments from a Redis stream and
// hands them to the coordinator. This is the only path through which
// external randomness reaches the engine, which keeps the trust boundary
// in one place.
type OracleStreamWorker struct {
	rdb  *redisplatform.Client
	sink oracle.FulfillmentSink
}

func NewOracleStreamWorker(rdb *redisplatform.Client, sink oracle.FulfillmentSink) *OracleStreamWorker {
	return &OracleStreamWorker{
		rdb:  rdb,
		sink: sink,
	}
}

// Start begins listening to the fulfillment stream. Blocks until ctx is done.
func (w *OracleStreamWorker) Start(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, fulfillmentStreamKey, consumerGroup, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		logger.Error().Err(err).Msg("Error creating consumer group")
	}

	logger.Info().Str("stream", fulfillmentStreamKey).Msg("Starting oracle stream worker")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping oracle stream worker")
			return
		default:
			entries, err := w.rdb.XReadGroup(ctx, &goredis.XReadGroupArgs{
				Group:    consumerGroup,
				Consumer: consumerName,
				Streams:  []string{fulfillmentStreamKey, ">"},
				Count:    1,
				Block:    5 * time.Second,
			}).Result()

			if err != nil {
				if err.Error() != "redis: nil" { // timeout, no messages
					logger.Error().Err(err).Msg("Error reading fulfillment stream")
					time.Sleep(1 * time.Second) // backoff on error
				}
				continue
			}

			for _, stream := range entries {
				for _, msg := range stream.Messages {
					w.processMessage(ctx, msg.Values)
					w.rdb.XAck(ctx, fulfillmentStreamKey, consumerGroup, msg.ID)
				}
			}
		}
	}
}

func (w *OracleStreamWorker) processMessage(ctx context.Context, values map[string]interface{}) {
	requestID, ok := values["request_id"].(string)
	if !ok || requestID == "" {
		logger.Warn().Interface("values", values).Msg("Fulfillment without request_id")
		return
	}

	rawWord, ok := values["random_word"].(string)
	if !ok {
		logger.Warn().Str("request_id", requestID).Msg("Fulfillment without random_word")
		return
	}

	word, ok := new(big.Int).SetString(rawWord, 10)
	if !ok {
		logger.Warn().
			Str("request_id", requestID).
			Str("random_word", rawWord).
			Msg("Fulfillment word is not a decimal number")
		return
	}

	if err := w.sink.Dispatch(ctx, requestID, []*big.Int{word}); err != nil {
		logger.Warn().Err(err).Str("request_id", requestID).Msg("Fulfillment rejected")
	}
}
