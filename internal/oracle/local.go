package oracle

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"raffle-tool-backend/internal/common/logger"
)

// LocalSource is an in-process oracle for development and tests. It draws
// cryptographically secure random words and delivers them asynchronously
// after a simulated confirmation delay, so the request/fulfillment split
// behaves like the real service.
type LocalSource struct {
	sink      FulfillmentSink
	blockTime time.Duration
}

func NewLocalSource(blockTime time.Duration) *LocalSource {
	return &LocalSource{blockTime: blockTime}
}

// SetSink wires the fulfillment sink. Must be called before the first request.
func (s *LocalSource) SetSink(sink FulfillmentSink) {
	s.sink = sink
}

func (s *LocalSource) RequestRandomWords(_ context.Context, req RandomWordsRequest) (string, error) {
	if s.sink == nil {
		return "", fmt.Errorf("local oracle: no fulfillment sink configured")
	}
	if req.NumWords <= 0 {
		return "", fmt.Errorf("local oracle: num_words must be positive")
	}

	words := make([]*big.Int, req.NumWords)
	for i := range words {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return "", fmt.Errorf("read randomness: %w", err)
		}
		words[i] = new(big.Int).SetBytes(buf[:])
	}

	requestID := uuid.New().String()
	delay := time.Duration(req.Confirmations) * s.blockTime

	go func() {
		time.Sleep(delay)
		if err := s.sink.Dispatch(context.Background(), requestID, words); err != nil {
			logger.Warn().Err(err).Str("request_id", requestID).
				Msg("Local oracle delivery rejected")
		}
	}()

	return requestID, nil
}
