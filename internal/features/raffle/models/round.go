package models

import (
	"errors"
	"time"

	"github.com/xssnick/tonutils-go/tlb"
)

var (
	ErrNoDrawInFlight  = errors.New("no draw is in flight")
	ErrNoRandomWords   = errors.New("fulfillment carries no random words")
	ErrNoWinnerYet     = errors.New("no winner has been picked yet")
	ErrEmptyPlayerList = errors.New("player list is empty")
)

// RaffleState represents the state of the raffle round
type RaffleState string

const (
	StateOpen    RaffleState = "open"    // Accepting entries
	StateDrawing RaffleState = "drawing" // Randomness request in flight, entries closed
)

// RaffleConfig holds the immutable parameters of the raffle, set once at startup.
type RaffleConfig struct {
	EntranceFee tlb.Coins     // minimum payment to enter
	Interval    time.Duration // minimum elapsed time between draws

	// Oracle routing parameters, passed through on every randomness request
	KeyHash          string
	SubscriptionID   uint64
	Confirmations    int
	CallbackGasLimit uint32
}

// RoundSnapshot is the persisted form of the current round, used to survive restarts.
type RoundSnapshot struct {
	State            RaffleState `json:"state"`
	Players          []string    `json:"players"`
	PotNano          string      `json:"pot_nano"`
	LastDrawAt       time.Time   `json:"last_draw_at"`
	RecentWinner     string      `json:"recent_winner,omitempty"`
	PendingRequestID string      `json:"pending_request_id,omitempty"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
