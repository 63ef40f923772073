// Package oracle implements the integration layer between the raffle engine
// and the external randomness oracle: issuing requests, correlating request
// IDs and guarding the fulfillment path against unknown or repeated deliveries.
package oracle

import (
	"context"
	"math/big"
	"time"
)

// RandomWordsRequest carries the routing parameters for one randomness request.
type RandomWordsRequest struct {
	KeyHash          string `json:"key_hash"`
	SubscriptionID   uint64 `json:"subscription_id"`
	Confirmations    int    `json:"confirmations"`
	CallbackGasLimit uint32 `json:"callback_gas_limit"`
	NumWords         int    `json:"num_words"`
}

// Source issues randomness requests and returns an oracle-assigned request ID.
// The random words arrive later through the fulfillment path.
type Source interface {
	RequestRandomWords(ctx context.Context, req RandomWordsRequest) (string, error)
}

// Consumer receives correlated fulfillments. Implemented by the raffle engine.
type Consumer interface {
	FulfillRandomWords(ctx context.Context, requestID string, words []*big.Int) error
}

// FulfillmentSink accepts raw oracle deliveries before correlation.
// Implemented by the Coordinator; the only entry point trusted callers use.
type FulfillmentSink interface {
	Dispatch(ctx context.Context, requestID string, words []*big.Int) error
}

// RequestStatus represents the lifecycle state of an oracle request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
)

// Request is the stored record of one randomness request.
type Request struct {
	RequestID   string        `json:"request_id"`
	Status      RequestStatus `json:"status"`
	NumWords    int           `json:"num_words"`
	CreatedAt   time.Time     `json:"created_at"`
	FulfilledAt time.Time     `json:"fulfilled_at,omitempty"`
}
