package service

import (
	"context"
	"math/big"
	"time"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"

	"raffle-tool-backend/internal/features/raffle/models"
)

// EventPublisher emits raffle notifications for external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, fields map[string]interface{}) error
}

// RaffleService is the raffle engine: entry ledger, upkeep evaluator and
// draw coordinator over a single perpetual round.
type RaffleService interface {
	// Enter appends the player to the current round for the paid amount.
	Enter(ctx context.Context, player *address.Address, amount tlb.Coins) error
	// CheckUpkeep reports whether all draw conditions are currently met.
	CheckUpkeep() bool
	// PerformUpkeep closes entries and issues one randomness request,
	// returning the oracle-assigned request ID.
	PerformUpkeep(ctx context.Context) (string, error)
	// FulfillRandomWords consumes a correlated oracle delivery: picks the
	// winner, resets the round and pays out the pot atomically.
	FulfillRandomWords(ctx context.Context, requestID string, words []*big.Int) error
	// Restore loads the persisted round snapshot, if any.
	Restore(ctx context.Context) error

	// Query surface
	EntranceFee() tlb.Coins
	Interval() time.Duration
	State() models.RaffleState
	RecentWinner() *address.Address
	Player(index int) (*address.Address, error)
	PlayerCount() int
	LastDrawAt() time.Time
	Pot() tlb.Coins
	PendingRequestID() string
}
