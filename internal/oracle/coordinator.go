package oracle

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	apperrors "raffle-tool-backend/internal/common/errors"
	"raffle-tool-backend/internal/common/logger"
)

// Coordinator sits between the engine and the oracle. On the way out it
// records every issued request; on the way back it correlates fulfillments
// by request ID, rejecting unknown and duplicate deliveries before the
// engine ever sees them.
type Coordinator struct {
	source   Source
	store    RequestStore
	consumer Consumer
}

func NewCoordinator(store RequestStore) *Coordinator {
	return &Coordinator{store: store}
}

// SetSource wires the underlying randomness source. Must be called before use.
func (c *Coordinator) SetSource(source Source) {
	c.source = source
}

// SetConsumer wires the fulfillment consumer. Must be called before use.
func (c *Coordinator) SetConsumer(consumer Consumer) {
	c.consumer = consumer
}

// RequestRandomWords implements Source. It forwards the request to the
// underlying source and records the returned ID as pending.
func (c *Coordinator) RequestRandomWords(ctx context.Context, req RandomWordsRequest) (string, error) {
	if c.source == nil {
		return "", fmt.Errorf("coordinator: no randomness source configured")
	}

	requestID, err := c.source.RequestRandomWords(ctx, req)
	if err != nil {
		return "", err
	}

	record := &Request{
		RequestID: requestID,
		Status:    RequestStatusPending,
		NumWords:  req.NumWords,
		CreatedAt: time.Now(),
	}
	if err := c.store.Create(ctx, record); err != nil {
		return "", fmt.Errorf("record oracle request %s: %w", requestID, err)
	}

	logger.Info().
		Str("request_id", requestID).
		Int("num_words", req.NumWords).
		Msg("Randomness request issued")

	return requestID, nil
}

// Dispatch implements FulfillmentSink. It validates the delivery against the
// recorded request and hands the words to the consumer. A request stays
// pending when the consumer rejects the delivery, so a transient failure
// (e.g. prize transfer refused) can be retried by redelivering.
func (c *Coordinator) Dispatch(ctx context.Context, requestID string, words []*big.Int) error {
	if c.consumer == nil {
		return fmt.Errorf("coordinator: no consumer configured")
	}

	record, err := c.store.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return apperrors.NewUnknownRequestError(requestID)
		}
		return fmt.Errorf("lookup oracle request %s: %w", requestID, err)
	}

	if record.Status == RequestStatusFulfilled {
		return apperrors.NewDuplicateFulfillmentError(requestID)
	}

	if len(words) != record.NumWords {
		return apperrors.NewValidationError("words",
			fmt.Sprintf("expected %d random words, got %d", record.NumWords, len(words)))
	}

	if err := c.consumer.FulfillRandomWords(ctx, requestID, words); err != nil {
		return err
	}

	if err := c.store.MarkFulfilled(ctx, requestID); err != nil {
		// The engine already consumed the words; the record is only
		// stale for deduplication purposes, so log and move on.
		logger.Warn().Err(err).Str("request_id", requestID).
			Msg("Failed to mark oracle request fulfilled")
	}

	logger.Info().Str("request_id", requestID).Msg("Randomness delivered")
	return nil
}
